package coordinator

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/skillswap/skillswap-hub/internal/domain/overview"
)

// matcher folds case once per filter pass. A cases.Caser is stateful, so
// each pass builds its own.
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(search string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.needle = m.fold.String(search)
	return m
}

func (m *matcher) contains(s string) bool {
	return strings.Contains(m.fold.String(s), m.needle)
}

func (m *matcher) anyMember(members []overview.Member) bool {
	for _, mem := range members {
		if m.contains(mem.Name) || m.contains(mem.Email) {
			return true
		}
	}
	return false
}

// Matches reports whether agg passes the search and category filters.
// Search is a case-insensitive substring of the skill name or of any
// teacher's or learner's name or email. Category must be AllCategory or
// equal the skill name exactly.
func Matches(agg overview.SkillAggregate, search, category string) bool {
	return matchCategory(agg, category) && newMatcher(search).match(agg)
}

func matchCategory(agg overview.SkillAggregate, category string) bool {
	return category == "" || category == overview.AllCategory || category == agg.Name
}

func (m *matcher) match(agg overview.SkillAggregate) bool {
	if m.needle == "" {
		return true
	}
	return m.contains(agg.Name) || m.anyMember(agg.Teachers) || m.anyMember(agg.Learners)
}

// Filter returns the aggregates that pass both filters, in input order.
func Filter(aggs []overview.SkillAggregate, search, category string) []overview.SkillAggregate {
	m := newMatcher(search)
	out := make([]overview.SkillAggregate, 0, len(aggs))
	for _, a := range aggs {
		if matchCategory(a, category) && m.match(a) {
			out = append(out, a)
		}
	}
	return out
}
