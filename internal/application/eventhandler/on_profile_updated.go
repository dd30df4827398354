// Package eventhandler reacts to domain events published by commands.
package eventhandler

import (
	"context"
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// CacheInvalidator drops a cached value.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE UPDATED HANDLER
// Любое изменение списков навыков может добавить или убрать категорию,
// поэтому закэшированный список категорий сбрасывается.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileUpdatedHandler сбрасывает производные кэши после правки профиля.
type ProfileUpdatedHandler struct {
	categories CacheInvalidator
	timeout    time.Duration
	log        *logger.Logger
}

// NewProfileUpdatedHandler creates a new ProfileUpdatedHandler.
func NewProfileUpdatedHandler(categories CacheInvalidator, log *logger.Logger) *ProfileUpdatedHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileUpdatedHandler{
		categories: categories,
		timeout:    2 * time.Second,
		log:        log.With(logger.Component("on_profile_updated")),
	}
}

// Register subscribes the handler on bus.
func (h *ProfileUpdatedHandler) Register(bus shared.EventSubscriber) error {
	return bus.Subscribe(shared.EventProfileUpdated, h.Handle)
}

// Handle обрабатывает одно событие. События без изменения навыков пропускаются.
func (h *ProfileUpdatedHandler) Handle(event shared.Event) error {
	e, ok := event.(shared.ProfileUpdatedEvent)
	if !ok || !e.SkillsChanged {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.categories.Invalidate(ctx); err != nil {
		h.log.Warn("failed to invalidate categories", logger.UserID(e.AggregateID()), logger.Err(err))
		return err
	}
	h.log.Debug("categories invalidated", logger.UserID(e.AggregateID()))
	return nil
}
