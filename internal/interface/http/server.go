// Package http implements the SkillSwap REST API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/skillswap/skillswap-hub/internal/application/command"
	"github.com/skillswap/skillswap-hub/internal/application/query"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/interface/http/handlers"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodyBytes   int64
	AllowedOrigins []string
	Version        string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           5000,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: []string{"*"},
		Version:        "v1",
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// RateLimiter decides whether a client may make another request.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Dependencies contains everything the handlers need.
type Dependencies struct {
	// Query Handlers (CQRS Read Side)
	GetOverview    *query.GetOverviewHandler
	GetCategories  *query.GetCategoriesHandler
	GetProfile     *query.GetProfileHandler
	GetSavedSkills *query.GetSavedSkillsHandler
	ListPostings   *query.ListPostingsHandler
	GetPosting     *query.GetPostingHandler

	// Command Handlers (CQRS Write Side)
	SignUp           *command.SignUpHandler
	SignIn           *command.SignInHandler
	SignOut          *command.SignOutHandler
	UpdateProfile    *command.UpdateProfileHandler
	ToggleSavedSkill *command.ToggleSavedSkillHandler
	Postings         *command.PostingHandler

	// Sessions resolves bearer tokens.
	Sessions profile.SessionStore

	// RateLimiter is optional. RateLimitEnabled is consulted per request.
	RateLimiter      RateLimiter
	RateLimitEnabled func() bool

	Health *handlers.HealthChecker
	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     chi.Router
	logger     *logger.Logger

	mu      sync.Mutex
	running bool
}

// NewServer creates a new HTTP server.
func NewServer(config Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Health == nil {
		deps.Health = handlers.NewHealthChecker(config.Version)
	}

	s := &Server{
		config: config,
		deps:   deps,
		logger: deps.Logger.With(logger.Component("http")),
	}
	s.router = s.routes()

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.router,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}))
	r.Use(securityHeaders)

	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	r.Get("/health", s.deps.Health.Health)
	r.Get("/health/ready", s.deps.Health.Ready)
	r.Get("/health/live", handlers.Live)
	r.Get("/health/jobs", s.deps.Health.Jobs)
	r.With(s.authMiddleware).Post("/health/jobs/{name}/run", s.deps.Health.RunJob)

	// ─────────────────────────────────────────────────────────────────────────
	// API
	// ─────────────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)
		r.Use(s.bodyLimitMiddleware)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignUp)
			r.Post("/signin", s.handleSignIn)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Get("/me", s.handleMe)
				r.Post("/signout", s.handleSignOut)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Get("/saved-skills", s.handleGetSavedSkills)
			r.Post("/saved-skills", s.handleToggleSavedSkill)
		})

		r.Route("/skills", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/overview", s.handleOverview)
			r.Get("/categories", s.handleCategories)

			r.Get("/postings", s.handleListPostings)
			r.Post("/postings", s.handleCreatePosting)
			r.Get("/postings/{id}", s.handleGetPosting)
			r.Put("/postings/{id}", s.handleUpdatePosting)
			r.Delete("/postings/{id}", s.handleDeletePosting)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
