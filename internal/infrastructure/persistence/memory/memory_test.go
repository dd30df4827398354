package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/domain/posting"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

func TestProfileStore_CreateAndLookup(t *testing.T) {
	s := NewProfileStore()
	ctx := context.Background()

	p := profile.NewProfile(profile.NewProfileParams{ID: "1", Email: "a@x.io", PasswordHash: "h"})
	require.NoError(t, s.Create(ctx, p))
	assert.ErrorIs(t, s.Create(ctx, profile.NewProfile(profile.NewProfileParams{ID: "2", Email: "a@x.io"})), shared.ErrProfileExists)

	got, err := s.GetByLogin(ctx, "a@x.io", "")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	_, err = s.GetByLogin(ctx, "", "+100")
	assert.True(t, shared.IsNotFound(err))
}

func TestProfileStore_ReadsAreCopies(t *testing.T) {
	s := NewProfileStore()
	ctx := context.Background()

	p := profile.NewProfile(profile.NewProfileParams{ID: "1", Email: "a@x.io"})
	p.SkillsToTeach = []string{"Go"}
	require.NoError(t, s.Create(ctx, p))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	all[0].SkillsToTeach[0] = "mutated"

	again, err := s.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, again.SkillsToTeach)
}

func TestProfileStore_ConcurrentTogglesStayConsistent(t *testing.T) {
	s := NewProfileStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, profile.NewProfile(profile.NewProfileParams{ID: "1", Email: "a@x.io"})))

	var wg sync.WaitGroup
	for i := 0; i < 51; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ToggleSavedSkill(ctx, "1", "Chess")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := s.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chess"}, p.SavedSkills)

	_, err = s.ToggleSavedSkill(ctx, "missing", "Chess")
	assert.ErrorIs(t, err, shared.ErrProfileNotFound)
}

func TestProfileStore_ToggleRemovesFirstOccurrenceOnly(t *testing.T) {
	s := NewProfileStore()
	ctx := context.Background()
	p := profile.NewProfile(profile.NewProfileParams{ID: "1", Email: "a@x.io"})
	p.SavedSkills = []string{"A", "B", "A"}
	require.NoError(t, s.Create(ctx, p))

	saved, err := s.ToggleSavedSkill(ctx, "1", "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, saved)
}

func TestPostingStore_OwnerScoped(t *testing.T) {
	s := NewPostingStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Create(ctx, &posting.Posting{ID: "a", UserID: "u1", Title: "old", SkillType: posting.SkillTypeTeach, CreatedAt: now}))
	require.NoError(t, s.Create(ctx, &posting.Posting{ID: "b", UserID: "u2", Title: "new", SkillType: posting.SkillTypeLearn, CreatedAt: now.Add(time.Second)}))

	list, err := s.List(ctx, posting.Filter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	assert.ErrorIs(t, s.Update(ctx, &posting.Posting{ID: "a", UserID: "u2"}), shared.ErrPostingNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a", "u2"), shared.ErrPostingNotFound)
	require.NoError(t, s.Delete(ctx, "a", "u1"))

	list, err = s.List(ctx, posting.Filter{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSessionStore_Expiry(t *testing.T) {
	s := NewSessionStore()
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "tok", "u1", time.Minute))
	id, err := s.Resolve(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	now = now.Add(time.Minute)
	_, err = s.Resolve(ctx, "tok")
	assert.ErrorIs(t, err, shared.ErrNoSession)
}

func TestSessionStore_Sweep(t *testing.T) {
	s := NewSessionStore()
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "short", "u1", time.Minute))
	require.NoError(t, s.Create(ctx, "long", "u2", time.Hour))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Sweep())

	id, err := s.Resolve(ctx, "long")
	require.NoError(t, err)
	assert.Equal(t, "u2", id)
}

func TestRateLimiter_Window(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := rl.Allow(ctx, "ip")
	assert.False(t, ok)

	ok, _ = rl.Allow(ctx, "other")
	assert.True(t, ok)

	now = now.Add(time.Minute + time.Second)
	ok, _ = rl.Allow(ctx, "ip")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	rl.Sweep()
	assert.Empty(t, rl.requests)
}
