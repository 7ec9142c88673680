package client

import (
	"context"
	"errors"
	"time"

	"github.com/newus-learner-hub/hubgate/dedup"
)

var healthKey = dedup.Key("/health", nil)

// HealthMonitor coalesces concurrent health checks and caches the last
// successful result.
type HealthMonitor struct {
	api      *API
	registry *dedup.Registry
	cache    *dedup.Cache[*Envelope]
}

// NewHealthMonitor creates a monitor whose successful results live for ttl.
func NewHealthMonitor(api *API, ttl time.Duration) *HealthMonitor {
	return &HealthMonitor{
		api:      api,
		registry: dedup.NewRegistry(),
		cache:    dedup.NewCache[*Envelope](ttl),
	}
}

// Check returns a cached result when available. Otherwise it calls
// /health, sharing the call with concurrent callers. Failures are not
// cached.
//
// The shared call is detached from the caller that started it and is
// bounded by the client's per-attempt timeout and retry budget. Each
// caller stops waiting when its own ctx is done.
func (m *HealthMonitor) Check(ctx context.Context) (*Envelope, error) {
	if envelope, ok := m.cache.Get(healthKey); ok {
		return envelope, nil
	}

	shared := context.WithoutCancel(ctx)

	envelope, _, err := dedup.DoChan(ctx, m.registry, healthKey, func() (*Envelope, error) {
		envelope, err := m.api.CheckHealth(shared)
		if err != nil {
			return nil, err
		}

		m.cache.Set(healthKey, envelope)

		return envelope, nil
	})

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return nil, &NetworkError{Err: ctxErr, Timeout: true}
	}

	return envelope, err
}

// Invalidate drops the cached result and detaches any in-flight check,
// so the next Check reaches the backend.
func (m *HealthMonitor) Invalidate() {
	m.cache.Clear()
	m.registry.Forget(healthKey)
}
