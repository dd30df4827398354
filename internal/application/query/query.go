// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"time"

	"github.com/skillswap/skillswap-hub/config"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/pkg/circuitbreaker"
)

// FeatureChecker reports whether a feature flag is on for a user.
type FeatureChecker interface {
	IsEnabled(featureName string, ctx *config.FeatureContext) bool
}

// CategoriesCache stores the computed category list between requests.
type CategoriesCache interface {
	Get(ctx context.Context) ([]string, bool, error)
	Set(ctx context.Context, cats []string) error
}

// ProfileDTO is the user record returned to clients.
type ProfileDTO struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	Mobile            string    `json:"mobile,omitempty"`
	Bio               string    `json:"bio"`
	SkillsToTeach     []string  `json:"skillsToTeach"`
	SkillsToLearn     []string  `json:"skillsToLearn"`
	SavedSkills       []string  `json:"savedSkills"`
	IsProfileComplete bool      `json:"isProfileComplete"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ToProfileDTO converts a profile, never exposing the password hash.
func ToProfileDTO(p *profile.Profile) ProfileDTO {
	return ProfileDTO{
		ID:                p.ID,
		Name:              p.Name,
		Email:             p.Email,
		Mobile:            p.Mobile,
		Bio:               p.Bio,
		SkillsToTeach:     nonNil(p.SkillsToTeach),
		SkillsToLearn:     nonNil(p.SkillsToLearn),
		SavedSkills:       nonNil(p.SavedSkills),
		IsProfileComplete: p.IsProfileComplete,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// scanProfiles reads the full profile snapshot through the breaker.
func scanProfiles(ctx context.Context, repo profile.Repository, cb *circuitbreaker.CircuitBreaker) ([]*profile.Profile, error) {
	if cb == nil {
		return repo.ListAll(ctx)
	}
	return circuitbreaker.ExecuteWithData(ctx, cb, repo.ListAll)
}
