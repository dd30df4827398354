package command

import (
	"context"

	"github.com/skillswap/skillswap-hub/internal/application/query"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// Edits name, bio and skill lists. Skill lists are normalised before saving.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand contains the fields to change.
// nil fields are left untouched.
type UpdateProfileCommand struct {
	UserID        string
	Name          *string
	Bio           *string
	SkillsToTeach *[]string
	SkillsToLearn *[]string
}

// UpdateProfileHandler handles UpdateProfileCommand.
type UpdateProfileHandler struct {
	profiles  profile.Repository
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewUpdateProfileHandler creates a new UpdateProfileHandler.
func NewUpdateProfileHandler(profiles profile.Repository, publisher shared.EventPublisher, log *logger.Logger) *UpdateProfileHandler {
	if publisher == nil {
		publisher = shared.NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UpdateProfileHandler{
		profiles:  profiles,
		publisher: publisher,
		log:       log.With(logger.Component("update_profile")),
	}
}

// Handle executes the command and returns the saved profile.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (query.ProfileDTO, error) {
	if cmd.UserID == "" {
		return query.ProfileDTO{}, shared.NotAuthenticated("profile", "UpdateProfile", "sign in required")
	}

	p, err := h.profiles.GetByID(ctx, cmd.UserID)
	if err != nil {
		return query.ProfileDTO{}, shared.AsUpstream("profile", "UpdateProfile", err)
	}

	u := profile.Update{Name: cmd.Name, Bio: cmd.Bio}
	if cmd.SkillsToTeach != nil {
		u.SkillsToTeach, u.SetTeach = *cmd.SkillsToTeach, true
	}
	if cmd.SkillsToLearn != nil {
		u.SkillsToLearn, u.SetLearn = *cmd.SkillsToLearn, true
	}
	p.Apply(u)

	if err := h.profiles.Update(ctx, p); err != nil {
		return query.ProfileDTO{}, shared.AsUpstream("profile", "UpdateProfile", err)
	}

	skillsChanged := u.SetTeach || u.SetLearn
	if err := h.publisher.Publish(shared.NewProfileUpdatedEvent(p.ID, skillsChanged)); err != nil {
		h.log.Warn("failed to publish event", logger.Err(err))
	}

	return query.ToProfileDTO(p), nil
}
