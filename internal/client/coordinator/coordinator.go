// Package coordinator drives the skill board on the client side. It
// debounces search input, keeps the selected category and page, fetches
// pages from the server and filters the fetched page locally.
//
// Search and category never cause a fetch: they only narrow the page that
// is already loaded. Only a page change talks to the server.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/overview"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
	"github.com/skillswap/skillswap-hub/pkg/retry"
)

// DefaultDebounce is how long typing must pause before the search commits.
const DefaultDebounce = 300 * time.Millisecond

// State is the coordinator's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateFetching
	StateSettled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateFetching:
		return "fetching"
	case StateSettled:
		return "settled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetcher loads one page of the skill board.
type Fetcher interface {
	Overview(ctx context.Context, page, limit int) (overview.PageResult, error)
}

// Snapshot is a consistent copy of the coordinator's state.
type Snapshot struct {
	State    State
	Page     int
	PageSize int

	// Input is the raw search box text; Search is the committed value.
	Input    string
	Search   string
	Category string

	// Data is the last page fetched successfully. It survives failures.
	Data *overview.PageResult

	// Visible is Data.Skills narrowed by Search and Category.
	Visible []overview.SkillAggregate

	// Err is the error of the latest fetch, nil after a success.
	Err error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) { c.debounce = d }
}

// WithPageSize sets the limit sent with every fetch.
func WithPageSize(n int) Option {
	return func(c *Coordinator) { c.pageSize = n }
}

// WithRetry retries failed fetches. Only upstream failures are retried.
func WithRetry(opts ...retry.Option) Option {
	return func(c *Coordinator) {
		c.retry = append(append([]retry.Option{}, opts...), retry.WithRetryIf(shared.IsRetryable))
	}
}

// WithOnChange registers a callback invoked after every state change.
// It runs outside the coordinator's lock.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// Coordinator is safe for concurrent use.
type Coordinator struct {
	fetcher  Fetcher
	debounce time.Duration
	pageSize int
	retry    []retry.Option
	onChange func(Snapshot)
	log      *logger.Logger

	mu        sync.Mutex
	page      int
	input     string
	committed string
	category  string
	data      *overview.PageResult
	lastErr   error

	timer       *time.Timer
	debounceSeq uint64

	fetchGen    uint64
	fetching    bool
	cancelFetch context.CancelFunc
	closed      bool
}

// New creates a Coordinator positioned on page 1 with no filters.
func New(fetcher Fetcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		fetcher:  fetcher,
		debounce: DefaultDebounce,
		pageSize: overview.DefaultPageSize,
		log:      logger.Nop(),
		page:     overview.DefaultPage,
		category: overview.AllCategory,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logger.Component("board_coordinator"))
	return c
}

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH & CATEGORY
// ══════════════════════════════════════════════════════════════════════════════

// TypeSearch records a keystroke. The value commits after the debounce
// period passes with no further keystrokes.
func (c *Coordinator) TypeSearch(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.input = text
	c.debounceSeq++
	seq := c.debounceSeq
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.commit(seq) })
	c.mu.Unlock()

	c.notify()
}

// CommitSearch commits the current input now, skipping the wait.
func (c *Coordinator) CommitSearch() {
	c.mu.Lock()
	c.debounceSeq++
	c.stopTimerLocked()
	c.committed = c.input
	c.mu.Unlock()

	c.notify()
}

func (c *Coordinator) commit(seq uint64) {
	c.mu.Lock()
	// A later keystroke or an explicit commit superseded this timer.
	if c.closed || seq != c.debounceSeq || c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.committed = c.input
	c.mu.Unlock()

	c.log.Debug("search committed")
	c.notify()
}

// SelectCategory applies a category filter immediately. An empty value
// selects AllCategory.
func (c *Coordinator) SelectCategory(category string) {
	if category == "" {
		category = overview.AllCategory
	}
	c.mu.Lock()
	c.category = category
	c.mu.Unlock()

	c.notify()
}

// ClearFilters resets the search and category. The page is kept.
func (c *Coordinator) ClearFilters() {
	c.mu.Lock()
	c.debounceSeq++
	c.stopTimerLocked()
	c.input = ""
	c.committed = ""
	c.category = overview.AllCategory
	c.mu.Unlock()

	c.notify()
}

func (c *Coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PAGING
// ══════════════════════════════════════════════════════════════════════════════

// Load fetches page and waits for the result. On failure the previously
// loaded page stays in place. A fetch superseded by a newer one returns nil
// and changes nothing.
func (c *Coordinator) Load(ctx context.Context, page int) error {
	if page <= 0 {
		return shared.ErrInvalidPage
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return context.Canceled
	}
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancelFetch = cancel
	c.fetchGen++
	gen := c.fetchGen
	c.fetching = true
	limit := c.pageSize
	c.mu.Unlock()
	defer cancel()

	c.notify()

	res, err := c.fetch(ctx, page, limit)

	c.mu.Lock()
	if gen != c.fetchGen {
		c.mu.Unlock()
		return nil
	}
	c.fetching = false
	c.cancelFetch = nil
	if err != nil {
		c.lastErr = err
	} else {
		c.data = &res
		c.page = page
		c.lastErr = nil
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("page fetch failed", logger.Page(page), logger.Err(err))
	}
	c.notify()
	return err
}

// GoToPage starts Load in the background.
func (c *Coordinator) GoToPage(ctx context.Context, page int) {
	go func() { _ = c.Load(ctx, page) }()
}

// Refresh reloads the current page.
func (c *Coordinator) Refresh(ctx context.Context) error {
	return c.Load(ctx, c.Page())
}

// Next loads the following page. It reports false when the loaded page
// says there is none.
func (c *Coordinator) Next(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.data == nil || !c.data.Pagination.HasNextPage {
		c.mu.Unlock()
		return false, nil
	}
	page := c.page + 1
	c.mu.Unlock()
	return true, c.Load(ctx, page)
}

// Prev loads the preceding page. It reports false on page 1.
func (c *Coordinator) Prev(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.page <= 1 {
		c.mu.Unlock()
		return false, nil
	}
	page := c.page - 1
	c.mu.Unlock()
	return true, c.Load(ctx, page)
}

func (c *Coordinator) fetch(ctx context.Context, page, limit int) (overview.PageResult, error) {
	op := func(ctx context.Context) (overview.PageResult, error) {
		return c.fetcher.Overview(ctx, page, limit)
	}
	if len(c.retry) == 0 {
		return op(ctx)
	}
	return retry.DoWithData(ctx, op, c.retry...)
}

// ══════════════════════════════════════════════════════════════════════════════
// READ SIDE
// ══════════════════════════════════════════════════════════════════════════════

// Page returns the page of the loaded data, or the initial page.
func (c *Coordinator) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Coordinator) stateLocked() State {
	switch {
	case c.fetching:
		return StateFetching
	case c.timer != nil:
		return StateDebouncing
	case c.lastErr != nil:
		return StateFailed
	case c.data != nil:
		return StateSettled
	default:
		return StateIdle
	}
}

// Snapshot returns a copy of the current state with the filtered page.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:    c.stateLocked(),
		Page:     c.page,
		PageSize: c.pageSize,
		Input:    c.input,
		Search:   c.committed,
		Category: c.category,
		Err:      c.lastErr,
		Visible:  []overview.SkillAggregate{},
	}
	if c.data != nil {
		data := *c.data
		s.Data = &data
		s.Visible = Filter(data.Skills, c.committed, c.category)
	}
	return s
}

// Visible returns the loaded page narrowed by the committed filters.
func (c *Coordinator) Visible() []overview.SkillAggregate {
	return c.Snapshot().Visible
}

// Close stops the debounce timer and cancels any in-flight fetch.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
}

func (c *Coordinator) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}
