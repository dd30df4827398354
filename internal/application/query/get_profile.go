package query

import (
	"context"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// GetProfileHandler returns the caller's profile.
type GetProfileHandler struct {
	profiles profile.Repository
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(profiles profile.Repository) *GetProfileHandler {
	return &GetProfileHandler{profiles: profiles}
}

// Handle loads the profile of userID.
func (h *GetProfileHandler) Handle(ctx context.Context, userID string) (ProfileDTO, error) {
	if userID == "" {
		return ProfileDTO{}, shared.NotAuthenticated("profile", "GetProfile", "sign in required")
	}
	p, err := h.profiles.GetByID(ctx, userID)
	if err != nil {
		return ProfileDTO{}, shared.AsUpstream("profile", "GetProfile", err)
	}
	return ToProfileDTO(p), nil
}

// GetSavedSkillsHandler returns the caller's saved skill names.
type GetSavedSkillsHandler struct {
	profiles profile.Repository
}

// NewGetSavedSkillsHandler creates a new GetSavedSkillsHandler.
func NewGetSavedSkillsHandler(profiles profile.Repository) *GetSavedSkillsHandler {
	return &GetSavedSkillsHandler{profiles: profiles}
}

// Handle returns the saved list of userID, never nil.
func (h *GetSavedSkillsHandler) Handle(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, shared.NotAuthenticated("profile", "GetSavedSkills", "sign in required")
	}
	p, err := h.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, shared.AsUpstream("profile", "GetSavedSkills", err)
	}
	return nonNil(p.SavedSkills), nil
}
