// Package refresh coordinates when a refresh-triggering event may start a
// new fetch-and-analyze cycle.
//
// A trigger proceeds immediately only when no fetch or analysis is running
// and auto-refresh is enabled; otherwise the coordinator records a single
// pending flag. The caller checks ConsumePendingRefresh when the current
// cycle finishes to decide whether to re-run once. The flag absorbs any
// number of triggers that arrive mid-cycle into exactly one follow-up, so at
// most one deferred re-run is ever outstanding.
package refresh

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Coordinator is the load/refresh gate. Safe for concurrent use.
type Coordinator struct {
	mu          sync.Mutex
	fetching    bool
	analyzing   bool
	pending     bool
	autoRefresh bool

	// limiter throttles trigger bursts; defaults to unlimited
	limiter *rate.Limiter
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithMinInterval throttles triggers to at most one per interval. A trigger
// arriving faster is deferred through the pending flag instead of starting
// a cycle.
func WithMinInterval(interval time.Duration) Option {
	return func(c *Coordinator) {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewCoordinator creates a coordinator. Auto-refresh starts enabled.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		autoRefresh: true,
		limiter:     rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAutoRefresh enables or disables automatic refresh triggers
func (c *Coordinator) SetAutoRefresh(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoRefresh = enabled
}

// HandleTrigger decides whether a refresh-triggering event starts now.
// Returns true to proceed immediately; otherwise the trigger is folded into
// the pending flag and false is returned.
func (c *Coordinator) HandleTrigger() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.autoRefresh {
		return false
	}
	if c.fetching || c.analyzing {
		c.pending = true
		return false
	}
	if !c.limiter.Allow() {
		c.pending = true
		return false
	}
	c.fetching = true
	return true
}

// PrepareForLoad is HandleTrigger for explicit load requests; same gating.
func (c *Coordinator) PrepareForLoad() bool {
	return c.HandleTrigger()
}

// BeginAnalysis marks the transition from fetching records to analyzing
// them. The cycle stays busy throughout.
func (c *Coordinator) BeginAnalysis() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching = false
	c.analyzing = true
}

// FinishCycle marks the end of the current fetch/analyze cycle.
func (c *Coordinator) FinishCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching = false
	c.analyzing = false
}

// Busy reports whether a fetch or analysis is currently running
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching || c.analyzing
}

// ConsumePendingRefresh atomically reads and clears the pending flag. The
// caller uses the returned value to decide whether to re-run itself once
// the current cycle has finished.
func (c *Coordinator) ConsumePendingRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := c.pending
	c.pending = false
	return pending
}
