package query

import (
	"context"
	"time"

	"github.com/skillswap/skillswap-hub/config"
	"github.com/skillswap/skillswap-hub/internal/domain/overview"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/circuitbreaker"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET OVERVIEW QUERY
// Сканирует все профили, строит сводку по навыкам и возвращает одну
// страницу, отсортированную по суммарному интересу.
// ══════════════════════════════════════════════════════════════════════════════

// GetOverviewQuery содержит параметры пагинации доски навыков.
type GetOverviewQuery struct {
	// UserID - вызывающий пользователь, нужен для фича-флагов.
	UserID string

	// Page - номер страницы, начиная с 1.
	Page int

	// Limit - размер страницы.
	Limit int
}

// Validate отклоняет неположительные значения пагинации.
func (q GetOverviewQuery) Validate() error {
	_, err := overview.NewPagination(q.Page, q.Limit, 0)
	return err
}

// GetOverviewHandler handles the GetOverviewQuery.
type GetOverviewHandler struct {
	profiles profile.Repository
	breaker  *circuitbreaker.CircuitBreaker
	flags    FeatureChecker
	log      *logger.Logger
}

// NewGetOverviewHandler creates a new GetOverviewHandler.
// breaker and flags may be nil.
func NewGetOverviewHandler(
	profiles profile.Repository,
	breaker *circuitbreaker.CircuitBreaker,
	flags FeatureChecker,
	log *logger.Logger,
) *GetOverviewHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GetOverviewHandler{
		profiles: profiles,
		breaker:  breaker,
		flags:    flags,
		log:      log.With(logger.Component("get_overview")),
	}
}

// Handle executes the query.
func (h *GetOverviewHandler) Handle(ctx context.Context, q GetOverviewQuery) (overview.PageResult, error) {
	if err := q.Validate(); err != nil {
		return overview.PageResult{}, err
	}

	start := time.Now()
	profiles, err := scanProfiles(ctx, h.profiles, h.breaker)
	if err != nil {
		h.log.Warn("profile scan failed", logger.Err(err))
		return overview.PageResult{}, shared.Upstream("overview", "GetOverview", err)
	}

	opts := overview.DefaultOptions()
	if h.flags != nil {
		opts.DedupePerUser = h.flags.IsEnabled(config.FeatureOverviewDedupePerUser, &config.FeatureContext{UserID: q.UserID})
	}

	res, err := overview.SortAndPaginate(overview.Aggregate(profiles, opts), q.Page, q.Limit)
	if err != nil {
		return overview.PageResult{}, err
	}

	h.log.Debug("overview computed",
		logger.Page(q.Page),
		logger.Int("profiles", len(profiles)),
		logger.Int("total_items", res.Pagination.TotalItems),
		logger.Latency(time.Since(start)),
	)
	return res, nil
}
