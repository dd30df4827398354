package command

import (
	"context"
	"strings"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOGGLE SAVED SKILL COMMAND
// Добавляет навык в закладки пользователя или убирает, если он уже есть.
// Чтение и запись выполняются в репозитории одним атомарным шагом.
// ══════════════════════════════════════════════════════════════════════════════

// ToggleSavedSkillCommand names the user and the skill to flip.
type ToggleSavedSkillCommand struct {
	UserID    string
	SkillName string
}

// ToggleSavedSkillHandler handles ToggleSavedSkillCommand.
type ToggleSavedSkillHandler struct {
	profiles  profile.Repository
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewToggleSavedSkillHandler creates a new ToggleSavedSkillHandler.
func NewToggleSavedSkillHandler(profiles profile.Repository, publisher shared.EventPublisher, log *logger.Logger) *ToggleSavedSkillHandler {
	if publisher == nil {
		publisher = shared.NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ToggleSavedSkillHandler{
		profiles:  profiles,
		publisher: publisher,
		log:       log.With(logger.Component("toggle_saved_skill")),
	}
}

// Handle переключает навык и возвращает итоговый список.
func (h *ToggleSavedSkillHandler) Handle(ctx context.Context, cmd ToggleSavedSkillCommand) ([]string, error) {
	if cmd.UserID == "" {
		return nil, shared.NotAuthenticated("profile", "ToggleSavedSkill", "sign in required")
	}
	// Название хранится как есть, отклоняется только пустое.
	if strings.TrimSpace(cmd.SkillName) == "" {
		return nil, shared.ErrEmptySkillName
	}

	saved, err := h.profiles.ToggleSavedSkill(ctx, cmd.UserID, cmd.SkillName)
	if err != nil {
		return nil, shared.AsUpstream("profile", "ToggleSavedSkill", err)
	}
	if saved == nil {
		saved = []string{}
	}

	isSaved := contains(saved, cmd.SkillName)
	if err := h.publisher.Publish(shared.NewSavedSkillToggledEvent(cmd.UserID, cmd.SkillName, isSaved)); err != nil {
		h.log.Warn("failed to publish event", logger.Err(err))
	}
	h.log.Debug("saved skill toggled",
		logger.UserID(cmd.UserID),
		logger.SkillName(cmd.SkillName),
		logger.Bool("saved", isSaved),
	)
	return saved, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
