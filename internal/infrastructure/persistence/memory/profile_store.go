// Package memory holds process-local stores used when Postgres or Redis
// are disabled and in tests. Every read returns copies so callers never
// share slices with the store.
package memory

import (
	"context"
	"sync"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ProfileStore implements profile.Repository in memory.
type ProfileStore struct {
	mu      sync.RWMutex
	byID    map[string]*profile.Profile
	order   []string
	byEmail map[string]string
	byPhone map[string]string
}

// NewProfileStore creates an empty store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		byID:    make(map[string]*profile.Profile),
		byEmail: make(map[string]string),
		byPhone: make(map[string]string),
	}
}

// Create сохраняет p. Email и телефон, если заданы, должны быть уникальны.
func (s *ProfileStore) Create(_ context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[p.ID]; ok {
		return shared.ErrProfileExists
	}
	if p.Email != "" {
		if _, ok := s.byEmail[p.Email]; ok {
			return shared.ErrProfileExists
		}
	}
	if p.Mobile != "" {
		if _, ok := s.byPhone[p.Mobile]; ok {
			return shared.ErrProfileExists
		}
	}

	s.byID[p.ID] = clone(p)
	s.order = append(s.order, p.ID)
	if p.Email != "" {
		s.byEmail[p.Email] = p.ID
	}
	if p.Mobile != "" {
		s.byPhone[p.Mobile] = p.ID
	}
	return nil
}

// GetByID returns a copy of the profile.
func (s *ProfileStore) GetByID(_ context.Context, id string) (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	return clone(p), nil
}

// GetByLogin ищет по email, а при пустом email по телефону.
func (s *ProfileStore) GetByLogin(ctx context.Context, email, mobile string) (*profile.Profile, error) {
	s.mu.RLock()
	var (
		id string
		ok bool
	)
	if email != "" {
		id, ok = s.byEmail[email]
	} else if mobile != "" {
		id, ok = s.byPhone[mobile]
	}
	s.mu.RUnlock()

	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	return s.GetByID(ctx, id)
}

// Update заменяет редактируемые поля.
func (s *ProfileStore) Update(_ context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[p.ID]
	if !ok {
		return shared.ErrProfileNotFound
	}
	cur.Name = p.Name
	cur.Bio = p.Bio
	cur.SkillsToTeach = copyStrings(p.SkillsToTeach)
	cur.SkillsToLearn = copyStrings(p.SkillsToLearn)
	cur.IsProfileComplete = p.IsProfileComplete
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

// ListAll возвращает копии всех профилей в порядке добавления.
func (s *ProfileStore) ListAll(_ context.Context) ([]*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*profile.Profile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.byID[id]))
	}
	return out, nil
}

// ToggleSavedSkill переключает навык под блокировкой на запись.
func (s *ProfileStore) ToggleSavedSkill(_ context.Context, id, skill string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	p.SavedSkills = profile.ToggleSaved(p.SavedSkills, skill)
	return copyStrings(p.SavedSkills), nil
}

// Ping always succeeds.
func (s *ProfileStore) Ping(context.Context) error { return nil }

func clone(p *profile.Profile) *profile.Profile {
	c := *p
	c.SkillsToTeach = copyStrings(p.SkillsToTeach)
	c.SkillsToLearn = copyStrings(p.SkillsToLearn)
	c.SavedSkills = copyStrings(p.SavedSkills)
	return &c
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
