package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skillswap/skillswap-hub/internal/infrastructure/scheduler"
)

// ══════════════════════════════════════════════════════════════════════════════
// BACKGROUND JOBS
// ══════════════════════════════════════════════════════════════════════════════

// JobScheduler is the part of the scheduler the health endpoints use.
type JobScheduler interface {
	ListJobs() []scheduler.JobInfo
	RunNow(ctx context.Context, jobName string) (scheduler.JobResult, error)
}

// JobStatus is the JSON view of one scheduled job.
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	NextRun   time.Time  `json:"nextRun"`
	RunCount  int64      `json:"runCount"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

func jobStatus(info scheduler.JobInfo) JobStatus {
	st := JobStatus{
		Name:     info.Name,
		Schedule: info.Schedule,
		NextRun:  info.NextRun,
		RunCount: info.RunCount,
	}
	if last := info.LastResult; last != nil {
		at := last.StartedAt
		st.LastRun = &at
		if last.Err != nil {
			st.LastError = last.Err.Error()
		}
	}
	return st
}

// SetJobs attaches a scheduler; its jobs then appear in every report.
func (c *HealthChecker) SetJobs(js JobScheduler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs = js
}

func (c *HealthChecker) jobScheduler() JobScheduler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jobs
}

func (c *HealthChecker) jobStatuses() []JobStatus {
	js := c.jobScheduler()
	if js == nil {
		return nil
	}
	infos := js.ListJobs()
	out := make([]JobStatus, 0, len(infos))
	for _, info := range infos {
		out = append(out, jobStatus(info))
	}
	return out
}

// Jobs lists the registered background jobs.
func (c *HealthChecker) Jobs(w http.ResponseWriter, _ *http.Request) {
	jobs := c.jobStatuses()
	if jobs == nil {
		jobs = []JobStatus{}
	}
	write(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// RunJob runs the job named in the path right away.
func (c *HealthChecker) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	js := c.jobScheduler()
	if js == nil {
		write(w, http.StatusNotFound, map[string]string{"status": "not_found", "job": name})
		return
	}

	res, err := js.RunNow(r.Context(), name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		write(w, http.StatusNotFound, map[string]string{"status": "not_found", "job": name})
	case errors.Is(err, scheduler.ErrJobBusy):
		write(w, http.StatusConflict, map[string]string{"status": "busy", "job": name})
	case err != nil:
		write(w, http.StatusInternalServerError, map[string]string{"status": "failed", "job": name, "error": err.Error()})
	default:
		write(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"job":      name,
			"duration": res.Duration.Round(time.Millisecond).String(),
		})
	}
}
