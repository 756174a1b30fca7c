package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is implemented by component-level checkers.
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// HealthPinger can be implemented by components that offer a cheap
// liveness probe of their own.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// ServiceHealthChecker aggregates component checkers into a single service health flag.
type ServiceHealthChecker struct {
	healthy atomic.Int32
	deps    []HealthChecker
	log     zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	h := &ServiceHealthChecker{deps: deps, log: log}
	h.healthy.Store(0)
	return h
}

// IsHealthy returns cached service health.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Components reports the last known state of every component by name.
func (h *ServiceHealthChecker) Components() map[string]bool {
	out := make(map[string]bool, len(h.deps))
	for _, c := range h.deps {
		out[c.Name()] = c.IsHealthy()
	}
	return out
}

// Evaluate recomputes the service flag from the components and returns it.
func (h *ServiceHealthChecker) Evaluate() bool {
	prev := h.healthy.Load()
	var cur int32 = 1
	for _, c := range h.deps {
		if !c.IsHealthy() {
			cur = 0
			h.log.Debug().Str("component", c.Name()).Msg("component unhealthy")
		}
	}
	h.healthy.Store(cur)
	if cur != prev {
		if cur == 1 {
			h.log.Info().Msg("service health: UP")
		} else {
			h.log.Error().Stack().Msg("service health: DOWN")
		}
	}
	return cur == 1
}

// Start periodically evaluates dependency health and updates the service flag.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Evaluate()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Evaluate()
		}
	}
}
