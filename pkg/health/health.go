// Package health provides liveness and readiness probes with periodic
// background evaluation.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// CheckFunc probes one dependency. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	mu      sync.RWMutex
	lastErr error
}

func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	err := c.fn(ctx)

	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *check) err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Health evaluates registered checks in the background and serves their
// latest results over HTTP.
type Health struct {
	mu        sync.RWMutex
	liveness  []*check
	readiness []*check
	ready     bool

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an empty Health service. It reports not-ready until SetReady
// is called.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a check evaluated for the liveness endpoint.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, &check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check evaluated for the readiness endpoint.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, &check{name: name, timeout: timeout, fn: fn})
}

// Start begins evaluating all checks every interval until Stop is called or
// ctx is cancelled. Checks run once immediately so the first probe does not
// race the first tick.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})

	h.mu.RLock()
	checks := make([]*check, 0, len(h.liveness)+len(h.readiness))
	checks = append(checks, h.liveness...)
	checks = append(checks, h.readiness...)
	h.mu.RUnlock()

	go func() {
		defer close(h.done)
		for _, c := range checks {
			c.run(ctx)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, c := range checks {
					c.run(ctx)
				}
			}
		}
	}()
}

// Stop halts background evaluation.
func (h *Health) Stop() {
	if h.cancel != nil {
		h.cancel()
		<-h.done
	}
}

// SetReady flips the readiness gate, typically false during shutdown so
// load balancers drain traffic.
func (h *Health) SetReady(ready bool) {
	h.mu.Lock()
	h.ready = ready
	h.mu.Unlock()
}

// IsReady reports the readiness gate.
func (h *Health) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the liveness probe.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := h.liveness
	h.mu.RUnlock()
	writeProbe(w, failures(checks))
}

// ReadyEndpoint serves the readiness probe. It fails while the readiness
// gate is down regardless of check results.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	if !h.IsReady() {
		writeProbe(w, map[string]string{"ready": "service not ready"})
		return
	}
	h.mu.RLock()
	checks := h.readiness
	h.mu.RUnlock()
	writeProbe(w, failures(checks))
}

func failures(checks []*check) map[string]string {
	var failed map[string]string
	for _, c := range checks {
		if err := c.err(); err != nil {
			if failed == nil {
				failed = make(map[string]string)
			}
			failed[c.name] = err.Error()
		}
	}
	return failed
}

func writeProbe(w http.ResponseWriter, failed map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	resp := probeResponse{Status: "ok", Checks: failed}
	if len(failed) > 0 {
		resp.Status = "unavailable"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
