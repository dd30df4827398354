package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/domain/overview"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/retry"
)

type fakeFetcher struct {
	calls atomic.Int32
	fn    func(ctx context.Context, page, limit int) (overview.PageResult, error)
}

func (f *fakeFetcher) Overview(ctx context.Context, page, limit int) (overview.PageResult, error) {
	f.calls.Add(1)
	return f.fn(ctx, page, limit)
}

func pageOf(page int, names ...string) overview.PageResult {
	skills := make([]overview.SkillAggregate, 0, len(names))
	for _, n := range names {
		skills = append(skills, overview.SkillAggregate{Name: n, Teachers: []overview.Member{}, Learners: []overview.Member{}})
	}
	return overview.PageResult{
		Skills: skills,
		Pagination: overview.Pagination{
			CurrentPage: page,
			TotalPages:  3,
			PageSize:    10,
			TotalItems:  25,
			HasNextPage: page < 3,
			HasPrevPage: page > 1,
		},
	}
}

func staticFetcher() *fakeFetcher {
	return &fakeFetcher{fn: func(_ context.Context, page, _ int) (overview.PageResult, error) {
		return pageOf(page, fmt.Sprintf("skill-p%d-a", page), fmt.Sprintf("skill-p%d-b", page)), nil
	}}
}

func names(aggs []overview.SkillAggregate) []string {
	out := make([]string, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, a.Name)
	}
	return out
}

func TestDebounce_OnlyLastKeystrokeCommits(t *testing.T) {
	f := staticFetcher()
	var mu sync.Mutex
	var commits []string
	c := New(f,
		WithDebounce(30*time.Millisecond),
		WithOnChange(func(s Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			if len(commits) == 0 || commits[len(commits)-1] != s.Search {
				commits = append(commits, s.Search)
			}
		}),
	)
	defer c.Close()

	c.TypeSearch("a")
	c.TypeSearch("an")
	c.TypeSearch("ana")
	assert.Equal(t, StateDebouncing, c.State())
	assert.Equal(t, "", c.Snapshot().Search)

	require.Eventually(t, func() bool { return c.Snapshot().Search == "ana" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateIdle, c.State())

	mu.Lock()
	assert.Equal(t, []string{"", "ana"}, commits)
	mu.Unlock()

	// Committing a search never fetches.
	assert.Zero(t, f.calls.Load())
}

func TestSearchScenario_TeacherNameMatches(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, int, int) (overview.PageResult, error) {
		res := pageOf(1, "Piano", "Chess")
		res.Skills[0].Teachers = []overview.Member{{ID: "1", Name: "Anna Lee", Email: "anna@example.com"}}
		return res, nil
	}}
	c := New(f)
	defer c.Close()

	require.NoError(t, c.Load(context.Background(), 1))
	c.TypeSearch("ana")
	c.CommitSearch()

	assert.Equal(t, []string{"Piano"}, names(c.Visible()))
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestSelectCategory_FiltersWithoutFetching(t *testing.T) {
	f := staticFetcher()
	c := New(f)
	defer c.Close()

	require.NoError(t, c.Load(context.Background(), 1))
	c.SelectCategory("skill-p1-b")
	assert.Equal(t, []string{"skill-p1-b"}, names(c.Visible()))

	c.SelectCategory("")
	assert.Len(t, c.Visible(), 2)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestClearFilters_KeepsPage(t *testing.T) {
	c := New(staticFetcher(), WithDebounce(time.Hour))
	defer c.Close()

	require.NoError(t, c.Load(context.Background(), 2))
	c.SelectCategory("nothing")
	c.TypeSearch("zzz")
	c.CommitSearch()
	assert.Empty(t, c.Visible())

	c.ClearFilters()
	s := c.Snapshot()
	assert.Equal(t, 2, s.Page)
	assert.Equal(t, "", s.Input)
	assert.Equal(t, "", s.Search)
	assert.Equal(t, overview.AllCategory, s.Category)
	assert.Len(t, s.Visible, 2)
	assert.Equal(t, StateSettled, s.State)
}

func TestLoad_FailureKeepsLastGoodPage(t *testing.T) {
	boom := shared.Upstream("api", "GET", errors.New("connection reset"))
	f := &fakeFetcher{fn: func(_ context.Context, page, _ int) (overview.PageResult, error) {
		if page == 2 {
			return overview.PageResult{}, boom
		}
		return pageOf(page, "Go"), nil
	}}
	c := New(f)
	defer c.Close()

	require.NoError(t, c.Load(context.Background(), 1))
	ok, err := c.Next(context.Background())
	assert.True(t, ok)
	require.ErrorIs(t, err, boom)

	s := c.Snapshot()
	assert.Equal(t, StateFailed, s.State)
	assert.Equal(t, 1, s.Page)
	require.NotNil(t, s.Data)
	assert.Equal(t, []string{"Go"}, names(s.Visible))
	assert.ErrorIs(t, s.Err, boom)

	// A later success clears the error.
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, StateSettled, c.State())
}

func TestLoad_StaleResponseIgnored(t *testing.T) {
	release := make(chan struct{})
	f := &fakeFetcher{fn: func(ctx context.Context, page, _ int) (overview.PageResult, error) {
		if page == 1 {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return pageOf(1, "stale"), nil
		}
		return pageOf(page, "fresh"), nil
	}}
	c := New(f)
	defer c.Close()

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background(), 1) }()
	require.Eventually(t, func() bool { return c.State() == StateFetching }, time.Second, time.Millisecond)

	require.NoError(t, c.Load(context.Background(), 2))
	close(release)
	require.NoError(t, <-done)

	s := c.Snapshot()
	assert.Equal(t, 2, s.Page)
	assert.Equal(t, []string{"fresh"}, names(s.Visible))
}

func TestLoad_RetryRecoversUpstreamFailure(t *testing.T) {
	var n atomic.Int32
	f := &fakeFetcher{fn: func(_ context.Context, page, _ int) (overview.PageResult, error) {
		if n.Add(1) == 1 {
			return overview.PageResult{}, shared.Upstream("api", "GET", errors.New("503"))
		}
		return pageOf(page, "Go"), nil
	}}
	c := New(f, WithRetry(retry.WithMaxAttempts(3), retry.WithInitialDelay(time.Millisecond), retry.WithJitter(0)))
	defer c.Close()

	require.NoError(t, c.Load(context.Background(), 1))
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestLoad_RetrySkipsClientErrors(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, int, int) (overview.PageResult, error) {
		return overview.PageResult{}, shared.NotAuthenticated("api", "GET", "no session")
	}}
	c := New(f, WithRetry(retry.WithMaxAttempts(3), retry.WithInitialDelay(time.Millisecond)))
	defer c.Close()

	err := c.Load(context.Background(), 1)
	assert.True(t, shared.IsNotAuthenticated(err))
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestPrevNextBounds(t *testing.T) {
	c := New(staticFetcher())
	defer c.Close()

	ok, err := c.Next(context.Background())
	assert.False(t, ok, "nothing loaded yet")
	assert.NoError(t, err)

	require.NoError(t, c.Load(context.Background(), 3))
	ok, _ = c.Next(context.Background())
	assert.False(t, ok)

	ok, err = c.Prev(context.Background())
	assert.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Page())

	assert.ErrorIs(t, c.Load(context.Background(), 0), shared.ErrInvalidPage)
}

func TestMatches(t *testing.T) {
	agg := overview.SkillAggregate{
		Name:     "Guitar",
		Teachers: []overview.Member{{Name: "Bob", Email: "bob@example.com"}},
		Learners: []overview.Member{{Name: "Zoë", Email: "ZOE@Example.com"}},
	}

	tests := []struct {
		search, category string
		want             bool
	}{
		{"", overview.AllCategory, true},
		{"GUIT", overview.AllCategory, true},
		{"bob@", overview.AllCategory, true},
		{"zoe@example", overview.AllCategory, true},
		{"ZOË", "", true},
		{"piano", overview.AllCategory, false},
		{"", "Guitar", true},
		{"", "guitar", false},
		{"bob", "Piano", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(agg, tt.search, tt.category), "search=%q category=%q", tt.search, tt.category)
	}
}
