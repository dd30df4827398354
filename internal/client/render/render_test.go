package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillswap/skillswap-hub/internal/client/coordinator"
	"github.com/skillswap/skillswap-hub/internal/domain/overview"
)

func TestBoard(t *testing.T) {
	data := &overview.PageResult{
		Skills: []overview.SkillAggregate{{
			Name:          "Guitar",
			Teachers:      []overview.Member{{ID: "1", Name: "Anna Lee", Email: "anna@example.com"}},
			Learners:      []overview.Member{},
			TeachersCount: 1,
		}},
		Pagination: overview.Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 25, HasNextPage: true, HasPrevPage: true},
	}
	out := Board(coordinator.Snapshot{Data: data, Visible: data.Skills, Err: errors.New("fetch failed")}, []string{"Guitar"})

	assert.Contains(t, out, "Guitar")
	assert.Contains(t, out, "★")
	assert.Contains(t, out, "Anna Lee <anna@example.com>")
	assert.Contains(t, out, "1 teaching · 0 learning")
	assert.Contains(t, out, "fetch failed")
	assert.Contains(t, out, "page 2 of 3 (25 skills)")
}

func TestBoard_EmptyPage(t *testing.T) {
	out := Board(coordinator.Snapshot{Visible: []overview.SkillAggregate{}}, nil)
	assert.Contains(t, out, "No skills match")
}

func TestPagination(t *testing.T) {
	assert.Equal(t, "page 1 of 1 (0 skills)", Pagination(overview.Pagination{CurrentPage: 1, TotalPages: 1}))
	assert.Equal(t, "page 3 of 3 (25 skills)  ‹ prev",
		Pagination(overview.Pagination{CurrentPage: 3, TotalPages: 3, TotalItems: 25, HasPrevPage: true}))
}

func TestSavedAndToggled(t *testing.T) {
	assert.Contains(t, Saved(nil, false), "nothing saved yet")
	assert.Contains(t, Saved([]string{"Go"}, true), "offline")
	assert.Contains(t, Toggled("Go", []string{"Go"}), `Saved "Go"`)
	assert.Contains(t, Toggled("Go", nil), `Removed "Go"`)
}
