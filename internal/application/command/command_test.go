package command

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *recordingPublisher) Publish(e shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) last() shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

func testAuthConfig() AuthConfig {
	return AuthConfig{BcryptCost: bcrypt.MinCost, SessionTTL: time.Hour}
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfileStore()
	sessions := memory.NewSessionStore()
	pub := &recordingPublisher{}

	up := NewSignUpHandler(profiles, sessions, pub, testAuthConfig(), nil)
	res, err := up.Handle(ctx, SignUpCommand{Email: "Ann@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "User", res.User.Name)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Equal(t, shared.EventUserRegistered, pub.last().EventType())

	userID, err := sessions.Resolve(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	_, err = up.Handle(ctx, SignUpCommand{Email: "ann@example.com", Password: "secret2"})
	assert.True(t, shared.IsConflict(err))

	in := NewSignInHandler(profiles, sessions, testAuthConfig(), nil)
	res2, err := in.Handle(ctx, SignInCommand{Email: "ANN@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, res2.User.ID)
	assert.NotEqual(t, res.Token, res2.Token)

	_, err = in.Handle(ctx, SignInCommand{Email: "ann@example.com", Password: "wrong!!"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	assert.True(t, shared.IsNotAuthenticated(err))

	_, err = in.Handle(ctx, SignInCommand{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	require.NoError(t, NewSignOutHandler(sessions).Handle(ctx, res2.Token))
	_, err = sessions.Resolve(ctx, res2.Token)
	assert.ErrorIs(t, err, shared.ErrNoSession)
}

func TestSignUp_Validation(t *testing.T) {
	h := NewSignUpHandler(memory.NewProfileStore(), memory.NewSessionStore(), nil, testAuthConfig(), nil)

	_, err := h.Handle(context.Background(), SignUpCommand{Password: "secret1"})
	assert.ErrorIs(t, err, shared.ErrMissingContactField)

	_, err = h.Handle(context.Background(), SignUpCommand{Mobile: "+7700", Password: "12345"})
	assert.ErrorIs(t, err, shared.ErrPasswordTooShort)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfileStore()
	res, err := NewSignUpHandler(profiles, memory.NewSessionStore(), nil, testAuthConfig(), nil).
		Handle(ctx, SignUpCommand{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	h := NewUpdateProfileHandler(profiles, pub, nil)
	teach := []string{" Guitar ", "Guitar", ""}
	dto, err := h.Handle(ctx, UpdateProfileCommand{UserID: res.User.ID, SkillsToTeach: &teach})
	require.NoError(t, err)
	assert.Equal(t, []string{"Guitar"}, dto.SkillsToTeach)
	assert.True(t, dto.IsProfileComplete)

	ev, ok := pub.last().(shared.ProfileUpdatedEvent)
	require.True(t, ok)
	assert.True(t, ev.SkillsChanged)

	bio := "hello"
	_, err = h.Handle(ctx, UpdateProfileCommand{UserID: res.User.ID, Bio: &bio})
	require.NoError(t, err)
	ev, ok = pub.last().(shared.ProfileUpdatedEvent)
	require.True(t, ok)
	assert.False(t, ev.SkillsChanged)

	stored, err := profiles.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Bio)
	assert.Equal(t, []string{"Guitar"}, stored.SkillsToTeach)

	_, err = h.Handle(ctx, UpdateProfileCommand{UserID: "missing", Bio: &bio})
	assert.True(t, shared.IsNotFound(err))
}

func TestToggleSavedSkill(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfileStore()
	res, err := NewSignUpHandler(profiles, memory.NewSessionStore(), nil, testAuthConfig(), nil).
		Handle(ctx, SignUpCommand{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	uid := res.User.ID

	pub := &recordingPublisher{}
	h := NewToggleSavedSkillHandler(profiles, pub, nil)

	for _, s := range []string{"A", "B"} {
		_, err := h.Handle(ctx, ToggleSavedSkillCommand{UserID: uid, SkillName: s})
		require.NoError(t, err)
	}

	saved, err := h.Handle(ctx, ToggleSavedSkillCommand{UserID: uid, SkillName: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, saved)
	ev := pub.last().(shared.SavedSkillToggledEvent)
	assert.False(t, ev.Saved)

	saved, err = h.Handle(ctx, ToggleSavedSkillCommand{UserID: uid, SkillName: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, saved)
	ev = pub.last().(shared.SavedSkillToggledEvent)
	assert.True(t, ev.Saved)
}

func TestToggleSavedSkill_Errors(t *testing.T) {
	h := NewToggleSavedSkillHandler(memory.NewProfileStore(), nil, nil)

	_, err := h.Handle(context.Background(), ToggleSavedSkillCommand{SkillName: "A"})
	assert.True(t, shared.IsNotAuthenticated(err))

	_, err = h.Handle(context.Background(), ToggleSavedSkillCommand{UserID: "1", SkillName: "  "})
	assert.True(t, shared.IsInvalidArgument(err))
	assert.ErrorIs(t, err, shared.ErrEmptySkillName)
}

func TestPostingHandler_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPostingStore()
	pub := &recordingPublisher{}
	h := NewPostingHandler(store, pub, nil)

	p, err := h.Create(ctx, "u1", PostingInput{Title: " Guitar ", SkillType: "teach"})
	require.NoError(t, err)
	assert.Equal(t, "Guitar", p.Title)
	assert.Equal(t, "General", p.Category)

	_, err = h.Create(ctx, "u1", PostingInput{Title: "x", SkillType: "teach", Description: strings.Repeat("a", 501)})
	assert.True(t, shared.IsInvalidArgument(err))

	_, err = h.Update(ctx, "u2", p.ID, PostingInput{Title: "stolen", SkillType: "teach"})
	assert.True(t, shared.IsNotFound(err))

	updated, err := h.Update(ctx, "u1", p.ID, PostingInput{Title: "Piano", Category: "Music", SkillType: "learn"})
	require.NoError(t, err)
	assert.Equal(t, "Music", updated.Category)

	assert.True(t, shared.IsNotFound(h.Delete(ctx, "u2", p.ID)))
	require.NoError(t, h.Delete(ctx, "u1", p.ID))

	ev := pub.last().(shared.PostingChangedEvent)
	assert.Equal(t, PostingDeleted, ev.Action)
}
