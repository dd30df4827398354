// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap/skillswap-hub/internal/application/query"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SIGN UP / SIGN IN COMMANDS
// Sessions are opaque random tokens mapped to a profile ID by the SessionStore.
// ══════════════════════════════════════════════════════════════════════════════

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	Token string           `json:"token"`
	User  query.ProfileDTO `json:"user"`
}

// AuthConfig tunes password hashing and session lifetime.
type AuthConfig struct {
	BcryptCost int
	SessionTTL time.Duration
}

// DefaultAuthConfig returns production defaults.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{BcryptCost: bcrypt.DefaultCost, SessionTTL: 24 * time.Hour}
}

// SignUpCommand registers a new user.
type SignUpCommand struct {
	Name     string
	Email    string
	Mobile   string
	Password string
}

// Validate checks the command.
func (c SignUpCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" && strings.TrimSpace(c.Mobile) == "" {
		return shared.ErrMissingContactField
	}
	if len(c.Password) < profile.MinPasswordLength {
		return shared.ErrPasswordTooShort
	}
	return nil
}

// SignUpHandler handles SignUpCommand.
type SignUpHandler struct {
	profiles  profile.Repository
	sessions  profile.SessionStore
	publisher shared.EventPublisher
	cfg       AuthConfig
	log       *logger.Logger
}

// NewSignUpHandler creates a new SignUpHandler.
func NewSignUpHandler(
	profiles profile.Repository,
	sessions profile.SessionStore,
	publisher shared.EventPublisher,
	cfg AuthConfig,
	log *logger.Logger,
) *SignUpHandler {
	if publisher == nil {
		publisher = shared.NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SignUpHandler{
		profiles:  profiles,
		sessions:  sessions,
		publisher: publisher,
		cfg:       cfg,
		log:       log.With(logger.Component("sign_up")),
	}
}

// Handle executes the command.
func (h *SignUpHandler) Handle(ctx context.Context, cmd SignUpCommand) (*AuthResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), h.cfg.BcryptCost)
	if err != nil {
		return nil, shared.WrapError("profile", "SignUp", shared.ErrInvalidInput, "password cannot be hashed", err)
	}

	p := profile.NewProfile(profile.NewProfileParams{
		ID:           uuid.NewString(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		Mobile:       cmd.Mobile,
		PasswordHash: string(hash),
	})
	if err := h.profiles.Create(ctx, p); err != nil {
		return nil, shared.AsUpstream("profile", "SignUp", err)
	}

	token, err := openSession(ctx, h.sessions, p.ID, h.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	if err := h.publisher.Publish(shared.NewUserRegisteredEvent(p.ID, p.Name)); err != nil {
		h.log.Warn("failed to publish event", logger.Err(err))
	}
	h.log.Info("user registered", logger.UserID(p.ID))

	return &AuthResult{Token: token, User: query.ToProfileDTO(p)}, nil
}

// SignInCommand authenticates by email or mobile.
type SignInCommand struct {
	Email    string
	Mobile   string
	Password string
}

// SignInHandler handles SignInCommand.
type SignInHandler struct {
	profiles profile.Repository
	sessions profile.SessionStore
	cfg      AuthConfig
	log      *logger.Logger
}

// NewSignInHandler creates a new SignInHandler.
func NewSignInHandler(profiles profile.Repository, sessions profile.SessionStore, cfg AuthConfig, log *logger.Logger) *SignInHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SignInHandler{
		profiles: profiles,
		sessions: sessions,
		cfg:      cfg,
		log:      log.With(logger.Component("sign_in")),
	}
}

// Handle executes the command. Unknown logins and wrong passwords both
// return ErrInvalidCredentials.
func (h *SignInHandler) Handle(ctx context.Context, cmd SignInCommand) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	mobile := strings.TrimSpace(cmd.Mobile)
	if email == "" && mobile == "" {
		return nil, shared.ErrMissingContactField
	}

	p, err := h.profiles.GetByLogin(ctx, email, mobile)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, shared.AsUpstream("profile", "SignIn", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(cmd.Password)); err != nil {
		if !isPasswordMismatch(err) {
			h.log.Warn("stored password hash is unusable", logger.UserID(p.ID), logger.Err(err))
		}
		return nil, shared.ErrInvalidCredentials
	}

	token, err := openSession(ctx, h.sessions, p.ID, h.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	h.log.Debug("user signed in", logger.UserID(p.ID))

	return &AuthResult{Token: token, User: query.ToProfileDTO(p)}, nil
}

// SignOutHandler ends a session.
type SignOutHandler struct {
	sessions profile.SessionStore
}

// NewSignOutHandler creates a new SignOutHandler.
func NewSignOutHandler(sessions profile.SessionStore) *SignOutHandler {
	return &SignOutHandler{sessions: sessions}
}

// Handle deletes the session behind token.
func (h *SignOutHandler) Handle(ctx context.Context, token string) error {
	if token == "" {
		return shared.ErrNoSession
	}
	return shared.AsUpstream("profile", "SignOut", h.sessions.Delete(ctx, token))
}

func openSession(ctx context.Context, sessions profile.SessionStore, userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := sessions.Create(ctx, token, userID, ttl); err != nil {
		return "", shared.Upstream("profile", "OpenSession", err)
	}
	return token, nil
}

// isPasswordMismatch reports a bcrypt mismatch as opposed to a malformed hash.
func isPasswordMismatch(err error) bool {
	return errors.Is(err, bcrypt.ErrMismatchedHashAndPassword)
}
