package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/skillswap/skillswap-hub/internal/domain/posting"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// PostingStore implements posting.Repository in memory.
type PostingStore struct {
	mu   sync.RWMutex
	byID map[string]posting.Posting
}

// NewPostingStore creates an empty store.
func NewPostingStore() *PostingStore {
	return &PostingStore{byID: make(map[string]posting.Posting)}
}

// Create stores p.
func (s *PostingStore) Create(_ context.Context, p *posting.Posting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[p.ID] = *p
	return nil
}

// GetByID returns a copy of the posting.
func (s *PostingStore) GetByID(_ context.Context, id string) (*posting.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrPostingNotFound
	}
	return &p, nil
}

// List returns matching postings, newest first.
func (s *PostingStore) List(_ context.Context, f posting.Filter) ([]*posting.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*posting.Posting{}
	for _, p := range s.byID {
		p := p
		if f.Matches(&p) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update replaces a posting owned by p.UserID.
func (s *PostingStore) Update(_ context.Context, p *posting.Posting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[p.ID]
	if !ok || cur.UserID != p.UserID {
		return shared.ErrPostingNotFound
	}
	s.byID[p.ID] = *p
	return nil
}

// Delete removes a posting owned by userID.
func (s *PostingStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok || cur.UserID != userID {
		return shared.ErrPostingNotFound
	}
	delete(s.byID, id)
	return nil
}
