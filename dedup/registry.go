// Package dedup coalesces identical in-flight requests and caches
// their results for a limited time.
package dedup

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Registry tracks in-flight calls by key. Concurrent calls sharing a
// key wait for a single execution; the key is released once that
// execution returns, successfully or not. The zero value is ready to use.
type Registry struct {
	group singleflight.Group
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Forget releases key so that the next call executes again, even if an
// execution is still in flight.
func (r *Registry) Forget(key string) {
	r.group.Forget(key)
}

// Do executes fn once per key among concurrent callers. shared reports
// whether the result was delivered to more than one caller.
func Do[T any](r *Registry, key string, fn func() (T, error)) (value T, shared bool, err error) {
	v, err, shared := r.group.Do(key, func() (any, error) {
		return fn()
	})

	if v != nil {
		value = v.(T)
	}

	return value, shared, err
}

// DoChan is like Do, but the caller stops waiting once ctx is done and
// gets ctx.Err(). The shared execution keeps running for the remaining
// callers, so fn must not depend on any single caller's ctx.
func DoChan[T any](ctx context.Context, r *Registry, key string, fn func() (T, error)) (value T, shared bool, err error) {
	ch := r.group.DoChan(key, func() (any, error) {
		return fn()
	})

	select {
	case <-ctx.Done():
		return value, false, ctx.Err()
	case res := <-ch:
		if res.Val != nil {
			value = res.Val.(T)
		}
		return value, res.Shared, res.Err
	}
}
