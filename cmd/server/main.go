// Package main is the entry point of the SkillSwap Hub API server.
//
// The server exposes the skill board (aggregated overview with pagination),
// the category list, profiles with saved skills and skill postings over a
// JSON REST API. Postgres holds profiles and postings; Redis holds sessions,
// the categories cache and rate-limit counters. Either can be disabled for
// local development, in which case in-memory stores take their place.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillswap/skillswap-hub/config"

	// Application layer
	"github.com/skillswap/skillswap-hub/internal/application/command"
	"github.com/skillswap/skillswap-hub/internal/application/eventhandler"
	"github.com/skillswap/skillswap-hub/internal/application/query"

	// Domain layer
	"github.com/skillswap/skillswap-hub/internal/domain/posting"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"

	// Infrastructure layer
	"github.com/skillswap/skillswap-hub/internal/infrastructure/messaging"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/memory"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/postgres"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/redis"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/scheduler"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/scheduler/jobs"

	// Interface layer
	httpserver "github.com/skillswap/skillswap-hub/internal/interface/http"
	"github.com/skillswap/skillswap-hub/internal/interface/http/handlers"

	// Packages
	"github.com/skillswap/skillswap-hub/pkg/circuitbreaker"
	"github.com/skillswap/skillswap-hub/pkg/logger"
	"github.com/skillswap/skillswap-hub/pkg/retry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

// stores groups the persistence backends picked at startup.
type stores struct {
	profiles    profile.Repository
	postings    posting.Repository
	sessions    profile.SessionStore
	limiter     httpserver.RateLimiter
	categories  *redis.CategoriesCache
	memLimiter  *memory.RateLimiter
	memSessions *memory.SessionStore
	pingers     map[string]handlers.Pinger
	closers     []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION AND LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		Format:    cfg.Observability.LogFormat,
		AddCaller: cfg.App.Debug,
	})
	defer func() { _ = log.Sync() }()

	log.Info("starting SkillSwap Hub API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("database_disabled", cfg.Database.Disabled),
		logger.Bool("redis_disabled", cfg.Redis.Disabled),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. PERSISTENCE
	// ─────────────────────────────────────────────────────────────────────────
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	// ─────────────────────────────────────────────────────────────────────────
	// 3. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 10,
		Logger:         log,
	})
	defer func() {
		if err := bus.Close(); err != nil {
			log.Warn("event bus close failed", logger.Err(err))
		}
	}()

	var categoriesCache query.CategoriesCache
	if st.categories != nil {
		categoriesCache = st.categories
		if err := eventhandler.NewProfileUpdatedHandler(st.categories, log).Register(bus); err != nil {
			return fmt.Errorf("failed to register event handlers: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. APPLICATION HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	breaker := circuitbreaker.ProfileStoreBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})

	authCfg := command.AuthConfig{
		BcryptCost: cfg.Auth.BcryptCost,
		SessionTTL: cfg.Auth.SessionTTL,
	}

	health := handlers.NewHealthChecker(cfg.App.Version)
	for name, p := range st.pingers {
		health.Register(name, handlers.PingCheck(p))
	}

	flags := cfg.Features
	deps := httpserver.Dependencies{
		GetOverview:    query.NewGetOverviewHandler(st.profiles, breaker, flags, log),
		GetCategories:  query.NewGetCategoriesHandler(st.profiles, breaker, categoriesCache, flags, log),
		GetProfile:     query.NewGetProfileHandler(st.profiles),
		GetSavedSkills: query.NewGetSavedSkillsHandler(st.profiles),
		ListPostings:   query.NewListPostingsHandler(st.postings),
		GetPosting:     query.NewGetPostingHandler(st.postings),

		SignUp:           command.NewSignUpHandler(st.profiles, st.sessions, bus, authCfg, log),
		SignIn:           command.NewSignInHandler(st.profiles, st.sessions, authCfg, log),
		SignOut:          command.NewSignOutHandler(st.sessions),
		UpdateProfile:    command.NewUpdateProfileHandler(st.profiles, bus, log),
		ToggleSavedSkill: command.NewToggleSavedSkillHandler(st.profiles, bus, log),
		Postings:         command.NewPostingHandler(st.postings, bus, log),

		Sessions:    st.sessions,
		RateLimiter: st.limiter,

		RateLimitEnabled: func() bool {
			return flags.IsEnabled(config.FeatureAPIRateLimit, nil)
		},

		Health: health,
		Logger: log,
	}

	sched, err := startScheduler(ctx, st, log)
	if err != nil {
		return err
	}
	defer func() { _ = sched.Stop() }()
	health.SetJobs(sched)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.Version = cfg.App.Version

	server := httpserver.NewServer(httpCfg, deps)
	errCh := server.StartAsync()
	log.Info("http server listening", logger.String("addr", httpCfg.Address()))

	// ─────────────────────────────────────────────────────────────────────────
	// 6. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", logger.Err(err))
		return err
	}

	log.Info("shutdown complete")
	return nil
}

const (
	warmCategoriesEvery = 5 * time.Minute
	sweepMemoryEvery    = time.Minute
)

// startScheduler registers the background jobs that apply to the chosen
// backends and starts the scheduler.
func startScheduler(ctx context.Context, st *stores, log *logger.Logger) (*scheduler.Scheduler, error) {
	sched := scheduler.New(scheduler.Config{Logger: log, RunOnStart: true})

	if st.categories != nil {
		job := jobs.NewWarmCategories(st.profiles, st.categories, log)
		if err := sched.Register(job, scheduler.Every(warmCategoriesEvery)); err != nil {
			return nil, err
		}
	}
	if st.memSessions != nil || st.memLimiter != nil {
		job := jobs.NewSweepMemory(sessionSweeper(st.memSessions), limiterSweeper(st.memLimiter), log)
		if err := sched.Register(job, scheduler.Every(sweepMemoryEvery)); err != nil {
			return nil, err
		}
	}

	if err := sched.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}
	return sched, nil
}

// sessionSweeper and limiterSweeper keep nil pointers from becoming
// non-nil interfaces.
func sessionSweeper(s *memory.SessionStore) jobs.SessionSweeper {
	if s == nil {
		return nil
	}
	return s
}

func limiterSweeper(l *memory.RateLimiter) jobs.LimiterSweeper {
	if l == nil {
		return nil
	}
	return l
}

// openStores connects to Postgres and Redis, falling back to memory stores
// for any backend that is disabled.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	st := &stores{pingers: make(map[string]handlers.Pinger)}

	if cfg.Database.Disabled {
		log.Warn("database disabled, using in-memory profile and posting stores")
		st.profiles = memory.NewProfileStore()
		st.postings = memory.NewPostingStore()
	} else {
		log.Info("connecting to database...")
		conn, err := retry.DoWithData(ctx, func(ctx context.Context) (*postgres.Connection, error) {
			return postgres.NewConnection(ctx, cfg.Database.URL, postgres.PoolOptions{
				MaxConns:        int32(cfg.Database.MaxOpenConns),
				MinConns:        int32(cfg.Database.MaxIdleConns),
				MaxConnLifetime: cfg.Database.ConnMaxLifetime,
				MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
			})
		}, append(retry.StartupOptions(), retry.WithOnRetry(func(attempt int, err error, _ time.Duration) {
			log.Warn("database not ready", logger.Int("attempt", attempt), logger.Err(err))
		}))...)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		st.closers = append(st.closers, func() {
			log.Info("closing database connection...")
			conn.Close()
		})

		log.Info("running database migrations...")
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			st.close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		st.profiles = postgres.NewProfileRepository(conn)
		st.postings = postgres.NewPostingRepository(conn)
		st.pingers["postgres"] = conn
	}

	if cfg.Redis.Disabled {
		log.Warn("redis disabled, using in-memory sessions and rate limiter")
		st.memSessions = memory.NewSessionStore()
		st.sessions = st.memSessions
		st.memLimiter = memory.NewRateLimiter(cfg.HTTP.RateLimitPerMin, time.Minute)
		st.limiter = st.memLimiter
		return st, nil
	}

	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.PoolSize = cfg.Redis.PoolSize
	redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
	redisCfg.DialTimeout = cfg.Redis.DialTimeout
	redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
	redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

	log.Info("connecting to Redis...", logger.String("addr", redisCfg.Addr()))
	cache, err := retry.DoWithData(ctx, func(ctx context.Context) (*redis.Cache, error) {
		return redis.NewCache(ctx, redisCfg)
	}, retry.StartupOptions()...)
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	st.closers = append(st.closers, func() {
		if err := cache.Close(); err != nil {
			log.Warn("redis close failed", logger.Err(err))
		}
	})

	st.sessions = redis.NewSessionStore(cache)
	st.categories = redis.NewCategoriesCache(cache)
	st.limiter = redis.NewRateLimiter(cache, cfg.HTTP.RateLimitPerMin, time.Minute)
	st.pingers["redis"] = cache
	return st, nil
}
