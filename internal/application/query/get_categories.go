package query

import (
	"context"

	"github.com/skillswap/skillswap-hub/config"
	"github.com/skillswap/skillswap-hub/internal/domain/overview"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/circuitbreaker"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CATEGORIES QUERY
// Возвращает "all" и затем все уникальные названия навыков.
// При включённом флаге categories.cache список берётся из кэша.
// ══════════════════════════════════════════════════════════════════════════════

// GetCategoriesHandler handles the categories query.
type GetCategoriesHandler struct {
	profiles profile.Repository
	breaker  *circuitbreaker.CircuitBreaker
	cache    CategoriesCache
	flags    FeatureChecker
	log      *logger.Logger
}

// NewGetCategoriesHandler creates a new GetCategoriesHandler.
// cache, breaker and flags may be nil.
func NewGetCategoriesHandler(
	profiles profile.Repository,
	breaker *circuitbreaker.CircuitBreaker,
	cache CategoriesCache,
	flags FeatureChecker,
	log *logger.Logger,
) *GetCategoriesHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GetCategoriesHandler{
		profiles: profiles,
		breaker:  breaker,
		cache:    cache,
		flags:    flags,
		log:      log.With(logger.Component("get_categories")),
	}
}

// Handle returns the category list for userID.
func (h *GetCategoriesHandler) Handle(ctx context.Context, userID string) ([]string, error) {
	useCache := h.cache != nil &&
		(h.flags == nil || h.flags.IsEnabled(config.FeatureCategoriesCache, &config.FeatureContext{UserID: userID}))

	if useCache {
		cats, ok, err := h.cache.Get(ctx)
		if err != nil {
			// Ошибки кэша не ломают запрос.
			h.log.Warn("categories cache read failed", logger.Err(err))
		} else if ok {
			return cats, nil
		}
	}

	profiles, err := scanProfiles(ctx, h.profiles, h.breaker)
	if err != nil {
		h.log.Warn("profile scan failed", logger.Err(err))
		return nil, shared.Upstream("overview", "GetCategories", err)
	}
	cats := overview.ListCategories(profiles)

	if useCache {
		if err := h.cache.Set(ctx, cats); err != nil {
			h.log.Warn("categories cache write failed", logger.Err(err))
		}
	}
	return cats, nil
}
