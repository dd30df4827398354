package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/infrastructure/scheduler"
)

func TestHealthChecker_AllHealthy(t *testing.T) {
	c := NewHealthChecker("test")
	c.Register("database", func(context.Context) error { return nil })

	report := c.Check(context.Background())
	assert.True(t, report.Healthy)
	assert.Equal(t, "OK", report.Checks["database"].Message)
}

func TestHealthChecker_FailingProbe(t *testing.T) {
	c := NewHealthChecker("test")
	c.Register("database", func(context.Context) error { return nil })
	c.Register("cache", func(context.Context) error { return errors.New("dial tcp: refused") })

	rec := httptest.NewRecorder()
	c.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var report Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.False(t, report.Healthy)
	assert.Equal(t, "Failing: cache", report.Message)
}

func TestHealthChecker_TimeoutApplies(t *testing.T) {
	c := NewHealthChecker("test")
	c.SetTimeout(20 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	rec := httptest.NewRecorder()
	c.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLive(t *testing.T) {
	rec := httptest.NewRecorder()
	Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func newJobsRouter(t *testing.T) (*HealthChecker, http.Handler, *atomic.Int32) {
	t.Helper()

	var runs atomic.Int32
	sched := scheduler.New(scheduler.Config{})
	require.NoError(t, sched.Register(scheduler.JobFunc{JobName: "warm_categories", Fn: func(context.Context) error {
		runs.Add(1)
		return nil
	}}, scheduler.Every(time.Hour)))
	require.NoError(t, sched.Register(scheduler.JobFunc{JobName: "sweep_memory", Fn: func(context.Context) error {
		return errors.New("sweep failed")
	}}, scheduler.Every(time.Hour)))

	c := NewHealthChecker("test")
	c.SetJobs(sched)

	r := chi.NewRouter()
	r.Get("/health", c.Health)
	r.Get("/health/jobs", c.Jobs)
	r.Post("/health/jobs/{name}/run", c.RunJob)
	return c, r, &runs
}

func TestHealthChecker_ReportsJobs(t *testing.T) {
	_, r, _ := newJobsRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	require.Len(t, report.Jobs, 2)
	assert.Equal(t, "sweep_memory", report.Jobs[0].Name)
	assert.Equal(t, "warm_categories", report.Jobs[1].Name)
	assert.Equal(t, "@every 1h0m0s", report.Jobs[1].Schedule)
	assert.Nil(t, report.Jobs[1].LastRun)
}

func TestHealthChecker_RunJob(t *testing.T) {
	_, r, runs := newJobsRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health/jobs/warm_categories/run", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), runs.Load())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health/jobs/sweep_memory/run", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "sweep failed")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health/jobs/missing/run", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/jobs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Jobs []JobStatus `json:"jobs"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Jobs, 2)
	assert.Equal(t, "sweep failed", body.Jobs[0].LastError)
	assert.Equal(t, int64(1), body.Jobs[1].RunCount)
	assert.NotNil(t, body.Jobs[1].LastRun)
}

func TestHealthChecker_NoScheduler(t *testing.T) {
	c := NewHealthChecker("test")

	rec := httptest.NewRecorder()
	c.Jobs(rec, httptest.NewRequest(http.MethodGet, "/health/jobs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobs":[]}`, rec.Body.String())

	assert.Empty(t, c.Check(context.Background()).Jobs)
}
