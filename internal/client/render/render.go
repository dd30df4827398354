// Package render formats skill-board data for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skillswap/skillswap-hub/internal/client/coordinator"
	"github.com/skillswap/skillswap-hub/internal/domain/overview"
)

var (
	colorPurple = lipgloss.Color("#A855F7")
	colorGreen  = lipgloss.Color("#22C55E")
	colorRed    = lipgloss.Color("#EF4444")
	colorYellow = lipgloss.Color("#EAB308")
	colorDim    = lipgloss.Color("#6B7280")
	colorCyan   = lipgloss.Color("#06B6D4")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	skillStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	savedMarkStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	memberStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// Board renders the visible part of a coordinator snapshot. Saved skill
// names are marked with a star.
func Board(s coordinator.Snapshot, saved []string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Skill board"))
	if s.Search != "" || (s.Category != "" && s.Category != overview.AllCategory) {
		b.WriteString(countStyle.Render(fmt.Sprintf("  search=%q category=%s", s.Search, s.Category)))
	}
	b.WriteString("\n\n")

	if s.Err != nil {
		b.WriteString(errorStyle.Render("! " + s.Err.Error()))
		b.WriteString("\n\n")
	}

	if len(s.Visible) == 0 {
		b.WriteString(countStyle.Render("No skills match on this page."))
		b.WriteString("\n")
	}

	isSaved := make(map[string]bool, len(saved))
	for _, name := range saved {
		isSaved[name] = true
	}
	for _, agg := range s.Visible {
		b.WriteString(cardStyle.Render(skillCard(agg, isSaved[agg.Name])))
		b.WriteString("\n")
	}

	if s.Data != nil {
		b.WriteString(footerStyle.Render(Pagination(s.Data.Pagination)))
		b.WriteString("\n")
	}
	return b.String()
}

func skillCard(agg overview.SkillAggregate, saved bool) string {
	var b strings.Builder
	name := skillStyle.Render(agg.Name)
	if saved {
		name += " " + savedMarkStyle.Render("★")
	}
	b.WriteString(name)
	b.WriteString(countStyle.Render(fmt.Sprintf("  %d teaching · %d learning", agg.TeachersCount, agg.LearnersCount)))

	writeMembers(&b, "teach", agg.Teachers)
	writeMembers(&b, "learn", agg.Learners)
	return b.String()
}

func writeMembers(b *strings.Builder, label string, members []overview.Member) {
	for _, m := range members {
		b.WriteString("\n")
		line := fmt.Sprintf("%s: %s", label, m.Name)
		if m.Email != "" {
			line += " <" + m.Email + ">"
		}
		b.WriteString(memberStyle.Render(line))
	}
}

// Pagination renders "page 2 of 3 (25 skills) ‹ prev · next ›".
func Pagination(p overview.Pagination) string {
	parts := []string{fmt.Sprintf("page %d of %d (%d skills)", p.CurrentPage, p.TotalPages, p.TotalItems)}
	var nav []string
	if p.HasPrevPage {
		nav = append(nav, "‹ prev")
	}
	if p.HasNextPage {
		nav = append(nav, "next ›")
	}
	if len(nav) > 0 {
		parts = append(parts, strings.Join(nav, " · "))
	}
	return strings.Join(parts, "  ")
}

// Categories renders the category list, one per line.
func Categories(cats []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n")
	for _, c := range cats {
		b.WriteString("  " + c + "\n")
	}
	return b.String()
}

// Saved renders a saved-skills list. stale marks data served from the
// local cache.
func Saved(saved []string, stale bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Saved skills"))
	if stale {
		b.WriteString(errorStyle.Render("  (offline, cached copy)"))
	}
	b.WriteString("\n")
	if len(saved) == 0 {
		b.WriteString(countStyle.Render("  nothing saved yet"))
		b.WriteString("\n")
	}
	for _, s := range saved {
		b.WriteString("  " + savedMarkStyle.Render("★") + " " + s + "\n")
	}
	return b.String()
}

// Toggled confirms a toggle.
func Toggled(skill string, saved []string) string {
	for _, s := range saved {
		if s == skill {
			return okStyle.Render(fmt.Sprintf("Saved %q", skill))
		}
	}
	return okStyle.Render(fmt.Sprintf("Removed %q", skill))
}
