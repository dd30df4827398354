package savedcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

type fakeRemote struct {
	saved []string
	err   error
}

func (r *fakeRemote) SavedSkills(context.Context) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.saved, nil
}

func (r *fakeRemote) ToggleSavedSkill(_ context.Context, skill string) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.saved = profile.ToggleSaved(r.saved, skill)
	return r.saved, nil
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "saved.yaml"))
	require.NoError(t, err)
	return s
}

func TestStore_ReplaceAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	_, found, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Replace(ctx, "u1", []string{"A", "B"}))
	require.NoError(t, s.Replace(ctx, "u2", []string{"C"}))

	e, found, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"A", "B"}, e.SavedSkills)
	assert.False(t, e.SyncedAt.IsZero())

	// A second Store on the same file sees the same data.
	other, err := Open(s.path)
	require.NoError(t, err)
	e, found, err = other.Get(ctx, "u2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"C"}, e.SavedSkills)
}

func TestSyncer_ToggleMirrorsConfirmedList(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)
	remote := &fakeRemote{saved: []string{"A", "B"}}
	s := NewSyncer(remote, store, "u1", nil)

	saved, err := s.Toggle(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, saved)

	e, _, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, e.SavedSkills)
}

func TestSyncer_FailedToggleLeavesMirror(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)
	require.NoError(t, store.Replace(ctx, "u1", []string{"A"}))

	remote := &fakeRemote{err: shared.Upstream("api", "POST", errors.New("timeout"))}
	_, err := NewSyncer(remote, store, "u1", nil).Toggle(ctx, "B")
	require.Error(t, err)

	e, _, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, e.SavedSkills)
}

func TestSyncer_SavedFallsBackWhenOffline(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)
	remote := &fakeRemote{saved: []string{"Go"}}
	s := NewSyncer(remote, store, "u1", nil)

	saved, stale, err := s.Saved(ctx)
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, []string{"Go"}, saved)

	remote.err = shared.Upstream("api", "GET", errors.New("connection refused"))
	saved, stale, err = s.Saved(ctx)
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, []string{"Go"}, saved)

	// Auth failures are not masked by the cache.
	remote.err = shared.ErrNoSession
	_, _, err = s.Saved(ctx)
	assert.True(t, shared.IsNotAuthenticated(err))
}
