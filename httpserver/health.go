package httpserver

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"
)

// HealthCheck reports whether a dependency is usable.
//
//	health.AddReadinessCheck("redis", func(ctx context.Context) error {
//	    return rdb.Ping(ctx).Err()
//	})
type HealthCheck func(ctx context.Context) error

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status  string `json:"status"`
	Latency string `json:"latency"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of /livez and /readyz.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version   string
	startTime time.Time
	timeout   time.Duration

	mu              sync.RWMutex
	livenessChecks  map[string]HealthCheck
	readinessChecks map[string]HealthCheck
}

// NewHealthHandler creates a HealthHandler reporting version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:         version,
		startTime:       time.Now(),
		timeout:         2 * time.Second,
		livenessChecks:  make(map[string]HealthCheck),
		readinessChecks: make(map[string]HealthCheck),
	}
}

// AddLivenessCheck registers a check for /livez.
func (h *HealthHandler) AddLivenessCheck(name string, check HealthCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.livenessChecks[name] = check
}

// AddReadinessCheck registers a check for /readyz.
func (h *HealthHandler) AddReadinessCheck(name string, check HealthCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readinessChecks[name] = check
}

// LiveHandler answers 200 when every liveness check passes, else 503.
func (h *HealthHandler) LiveHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, h.snapshot(h.livenessChecks))
	})
}

// ReadyHandler answers 200 when every readiness check passes, else 503.
func (h *HealthHandler) ReadyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, h.snapshot(h.readinessChecks))
	})
}

// Register mounts /livez and /readyz on mux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /livez", h.LiveHandler())
	mux.Handle("GET /readyz", h.ReadyHandler())
}

func (h *HealthHandler) snapshot(checks map[string]HealthCheck) map[string]HealthCheck {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]HealthCheck, len(checks))
	for k, v := range checks {
		out[k] = v
	}
	return out
}

func (h *HealthHandler) serve(w http.ResponseWriter, r *http.Request, checks map[string]HealthCheck) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]CheckResult, len(checks)),
	}
	statusCode := http.StatusOK

	for _, name := range names {
		start := time.Now()
		err := checks[name](ctx)
		result := CheckResult{Status: "ok", Latency: time.Since(start).String()}
		if err != nil {
			result.Status = "fail"
			result.Message = err.Error()
			resp.Status = "fail"
			statusCode = http.StatusServiceUnavailable
		}
		resp.Checks[name] = result
	}

	WriteJSON(w, statusCode, resp)
}
