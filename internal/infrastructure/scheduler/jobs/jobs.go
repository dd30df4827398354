// Package jobs contains the periodic jobs run by the scheduler.
package jobs

import (
	"context"
	"fmt"

	"github.com/skillswap/skillswap-hub/internal/domain/overview"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// WARM CATEGORIES
// ══════════════════════════════════════════════════════════════════════════════

// ProfileLister - чтение профилей для прогрева.
type ProfileLister interface {
	ListAll(ctx context.Context) ([]*profile.Profile, error)
}

// CategoriesWriter сохраняет свежий список категорий.
type CategoriesWriter interface {
	Set(ctx context.Context, cats []string) error
}

// WarmCategories пересчитывает список категорий по всем профилям и пишет
// его в кэш, чтобы первый запрос после сброса или истечения TTL
// не сканировал все профили.
type WarmCategories struct {
	profiles ProfileLister
	cache    CategoriesWriter
	log      *logger.Logger
}

// NewWarmCategories creates the job.
func NewWarmCategories(profiles ProfileLister, cache CategoriesWriter, log *logger.Logger) *WarmCategories {
	if log == nil {
		log = logger.Nop()
	}
	return &WarmCategories{profiles: profiles, cache: cache, log: log}
}

// Name implements scheduler.Job.
func (j *WarmCategories) Name() string { return "warm_categories" }

// Run implements scheduler.Job.
func (j *WarmCategories) Run(ctx context.Context) error {
	profiles, err := j.profiles.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	cats := overview.ListCategories(profiles)
	if err := j.cache.Set(ctx, cats); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}
	j.log.Debug("categories cache warmed", logger.Int("categories", len(cats)))
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SWEEP
// ══════════════════════════════════════════════════════════════════════════════

// SessionSweeper удаляет истёкшие сессии.
type SessionSweeper interface {
	Sweep() int
}

// LimiterSweeper удаляет неактивные ключи rate limiter.
type LimiterSweeper interface {
	Sweep()
}

// SweepMemory чистит истёкшие записи в памяти: сессии и rate limiter.
// Любой из них может быть nil.
type SweepMemory struct {
	sessions SessionSweeper
	limiter  LimiterSweeper
	log      *logger.Logger
}

// NewSweepMemory creates the job.
func NewSweepMemory(sessions SessionSweeper, limiter LimiterSweeper, log *logger.Logger) *SweepMemory {
	if log == nil {
		log = logger.Nop()
	}
	return &SweepMemory{sessions: sessions, limiter: limiter, log: log}
}

// Name implements scheduler.Job.
func (j *SweepMemory) Name() string { return "sweep_memory" }

// Run implements scheduler.Job.
func (j *SweepMemory) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j.limiter != nil {
		j.limiter.Sweep()
	}
	if j.sessions != nil {
		if n := j.sessions.Sweep(); n > 0 {
			j.log.Debug("expired sessions removed", logger.Int("count", n))
		}
	}
	return nil
}
