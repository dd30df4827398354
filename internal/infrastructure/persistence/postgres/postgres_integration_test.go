package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/skillswap/skillswap-hub/internal/domain/posting"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// startPostgres runs a throwaway database, applies migrations and returns
// a connection. Skips when -short is set or Docker is unavailable.
func startPostgres(t *testing.T) *Connection {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}

	ctx := context.Background()
	container, err := tcpg.Run(ctx, "postgres:16-alpine",
		tcpg.WithDatabase("skillswap_test"),
		tcpg.WithUsername("test"),
		tcpg.WithPassword("test"),
		tcpg.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := NewConnection(ctx, dsn, PoolOptions{MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	require.NoError(t, NewMigrator(conn).Migrate(ctx))
	return conn
}

func newTestProfile(email string) *profile.Profile {
	return profile.NewProfile(profile.NewProfileParams{
		ID:           uuid.NewString(),
		Name:         "Ann",
		Email:        email,
		PasswordHash: "hash",
	})
}

func TestPostgres_ProfileLifecycle(t *testing.T) {
	conn := startPostgres(t)
	repo := NewProfileRepository(conn)
	ctx := context.Background()

	p := newTestProfile("ann@example.com")
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, newTestProfile("ann@example.com")), shared.ErrProfileExists)

	p.Apply(profile.Update{SkillsToTeach: []string{"Guitar", "Go"}, SetTeach: true})
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByLogin(ctx, "ann@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Guitar", "Go"}, got.SkillsToTeach)
	assert.Equal(t, []string{}, got.SkillsToLearn)
	assert.True(t, got.IsProfileComplete)
	assert.Empty(t, got.Mobile)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, shared.IsNotFound(err))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPostgres_ToggleSavedSkill(t *testing.T) {
	conn := startPostgres(t)
	repo := NewProfileRepository(conn)
	ctx := context.Background()

	p := newTestProfile("bob@example.com")
	require.NoError(t, repo.Create(ctx, p))

	saved, err := repo.ToggleSavedSkill(ctx, p.ID, "A")
	require.NoError(t, err)
	saved, err = repo.ToggleSavedSkill(ctx, p.ID, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, saved)

	saved, err = repo.ToggleSavedSkill(ctx, p.ID, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, saved)

	saved, err = repo.ToggleSavedSkill(ctx, p.ID, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, saved)

	_, err = repo.ToggleSavedSkill(ctx, "missing", "A")
	assert.ErrorIs(t, err, shared.ErrProfileNotFound)
}

func TestPostgres_ToggleRemovesFirstOccurrenceOnly(t *testing.T) {
	conn := startPostgres(t)
	repo := NewProfileRepository(conn)
	ctx := context.Background()

	p := newTestProfile("erin@example.com")
	require.NoError(t, repo.Create(ctx, p))

	// Rows written before the single-UPDATE toggle may hold duplicates.
	_, err := conn.Pool().Exec(ctx, `UPDATE profiles SET saved_skills = $2 WHERE id = $1`, p.ID, []string{"A", "B", "A"})
	require.NoError(t, err)

	saved, err := repo.ToggleSavedSkill(ctx, p.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, saved)

	saved, err = repo.ToggleSavedSkill(ctx, p.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, saved)
}

func TestPostgres_ConcurrentTogglesNeverDuplicate(t *testing.T) {
	conn := startPostgres(t)
	repo := NewProfileRepository(conn)
	ctx := context.Background()

	p := newTestProfile("carol@example.com")
	require.NoError(t, repo.Create(ctx, p))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ToggleSavedSkill(ctx, p.ID, "Chess")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	// An even number of toggles lands back on empty.
	assert.Equal(t, []string{}, got.SavedSkills)
}

func TestPostgres_Postings(t *testing.T) {
	conn := startPostgres(t)
	profiles := NewProfileRepository(conn)
	repo := NewPostingRepository(conn)
	ctx := context.Background()

	owner := newTestProfile("dan@example.com")
	require.NoError(t, profiles.Create(ctx, owner))

	now := time.Now().UTC()
	post := &posting.Posting{
		ID:        uuid.NewString(),
		UserID:    owner.ID,
		Title:     "Guitar lessons",
		Category:  "Music",
		SkillType: posting.SkillTypeTeach,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, post))

	list, err := repo.List(ctx, posting.Filter{SkillType: posting.SkillTypeTeach, Category: "Music"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Guitar lessons", list[0].Title)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Music", got.Category)

	list, err = repo.List(ctx, posting.Filter{Search: "GUITAR"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = repo.List(ctx, posting.Filter{Search: "100%"})
	require.NoError(t, err)
	assert.Empty(t, list)

	post.UserID = "someone-else"
	assert.ErrorIs(t, repo.Update(ctx, post), shared.ErrPostingNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, post.ID, "someone-else"), shared.ErrPostingNotFound)

	require.NoError(t, repo.Delete(ctx, post.ID, owner.ID))
	_, err = repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, shared.ErrPostingNotFound)
}

func TestMigrator_RollbackAndReapply(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()
	m := NewMigrator(conn)

	require.NoError(t, m.Rollback(ctx))
	_, err := conn.Pool().Exec(ctx, "SELECT 1 FROM skill_postings")
	assert.Error(t, err)

	require.NoError(t, m.Migrate(ctx))
	_, err = conn.Pool().Exec(ctx, "SELECT 1 FROM skill_postings")
	assert.NoError(t, err)
}
