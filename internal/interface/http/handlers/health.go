// Package handlers contains the operational HTTP handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH CHECKS
// ══════════════════════════════════════════════════════════════════════════════

// CheckFunc probes one dependency. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

// Pinger is anything with a Ping method: pgx pools, redis clients, stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck adapts a Pinger.
func PingCheck(p Pinger) CheckFunc {
	return p.Ping
}

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Healthy  bool   `json:"healthy"`
	Message  string `json:"message"`
	Duration string `json:"duration"`
}

// Report is the aggregated health of the service.
type Report struct {
	Healthy   bool                   `json:"healthy"`
	Message   string                 `json:"message"`
	Checks    map[string]CheckResult `json:"checks"`
	Uptime    string                 `json:"uptime"`
	Version   string                 `json:"version,omitempty"`
	Jobs      []JobStatus            `json:"jobs,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// HealthChecker runs registered probes concurrently, each with a timeout.
type HealthChecker struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	jobs    JobScheduler
	started time.Time
	version string
	timeout time.Duration
}

// NewHealthChecker creates a checker with a 3s per-probe timeout.
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		checks:  make(map[string]CheckFunc),
		started: time.Now(),
		version: version,
		timeout: 3 * time.Second,
	}
}

// SetTimeout changes the per-probe timeout.
func (c *HealthChecker) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Register adds or replaces a named probe.
func (c *HealthChecker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = fn
}

// Check runs every probe and aggregates the results.
func (c *HealthChecker) Check(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	report := Report{
		Healthy:   true,
		Checks:    make(map[string]CheckResult, len(checks)),
		Uptime:    time.Since(c.started).Round(time.Second).String(),
		Version:   c.version,
		Jobs:      c.jobStatuses(),
		Timestamp: time.Now().UTC(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, fn := range checks {
		wg.Add(1)
		go func(name string, fn CheckFunc) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			start := time.Now()
			err := fn(checkCtx)
			res := CheckResult{
				Healthy:  err == nil,
				Message:  "OK",
				Duration: time.Since(start).Round(time.Millisecond).String(),
			}
			if err != nil {
				res.Message = err.Error()
			}

			mu.Lock()
			report.Checks[name] = res
			mu.Unlock()
		}(name, fn)
	}
	wg.Wait()

	var failed []string
	for name, res := range report.Checks {
		if !res.Healthy {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)

	if len(failed) == 0 {
		report.Message = "All checks passed"
	} else {
		report.Healthy = false
		report.Message = "Failing: " + strings.Join(failed, ", ")
	}
	return report
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// Health serves the full report; 503 when any probe fails.
func (c *HealthChecker) Health(w http.ResponseWriter, r *http.Request) {
	report := c.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	write(w, status, report)
}

// Ready reports whether dependencies are reachable.
func (c *HealthChecker) Ready(w http.ResponseWriter, r *http.Request) {
	report := c.Check(r.Context())
	if !report.Healthy {
		write(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready", "reason": report.Message})
		return
	}
	write(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Live always answers while the process can serve requests.
func Live(w http.ResponseWriter, _ *http.Request) {
	write(w, http.StatusOK, map[string]string{"status": "alive"})
}

func write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
