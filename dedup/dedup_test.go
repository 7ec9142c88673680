package dedup_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/newus-learner-hub/hubgate/dedup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_NoParams(t *testing.T) {
	assert.Equal(t, "/courses", dedup.Key("/courses", nil))
	assert.Equal(t, "/courses", dedup.Key("/courses", map[string]any{}))
}

func TestKey_SortsAndEscapes(t *testing.T) {
	key := dedup.Key("/courses", map[string]any{
		"q":    "data science",
		"id":   7,
		"type": "a&b",
	})

	assert.Equal(t, "/courses?id=7&q=data%20science&type=a%26b", key)
}

func TestCache_GetSet(t *testing.T) {
	c := dedup.NewCache[string](time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", "v")

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	c.Clear()
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_Expires(t *testing.T) {
	c := dedup.NewCache[int](10 * time.Millisecond)

	c.Set("k", 1)
	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestRegistry_CoalescesConcurrentCalls(t *testing.T) {
	r := dedup.NewRegistry()

	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func() (int, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _, _ = dedup.Do(r, "health", fn)
	}()

	<-started

	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, _ = dedup.Do(r, "health", fn)
		}(i)
	}

	// give the waiters time to join the in-flight call
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestRegistry_ReleasesKeyAfterFailure(t *testing.T) {
	r := dedup.NewRegistry()

	_, _, err := dedup.Do(r, "k", func() (string, error) {
		return "", errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	v, shared, err := dedup.Do(r, "k", func() (string, error) {
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.False(t, shared)
	assert.Equal(t, "ok", v)
}

func TestRegistry_Isolated(t *testing.T) {
	a := dedup.NewRegistry()
	b := dedup.NewRegistry()

	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		dedup.Do(a, "k", func() (int, error) {
			<-release
			return 1, nil
		})
		close(done)
	}()

	v, _, err := dedup.Do(b, "k", func() (int, error) {
		return 2, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, v)

	close(release)
	<-done
}

func TestDoChan_CallerStopsWaitingOnOwnContext(t *testing.T) {
	r := dedup.NewRegistry()

	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func() (string, error) {
		calls.Add(1)
		close(started)
		<-release
		return "ok", nil
	}

	type result struct {
		value string
		err   error
	}
	patient := make(chan result, 1)

	go func() {
		v, _, err := dedup.DoChan(context.Background(), r, "k", fn)
		patient <- result{v, err}
	}()

	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := dedup.DoChan(ctx, r, "k", fn)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)

	res := <-patient
	assert.NoError(t, res.err)
	assert.Equal(t, "ok", res.value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRegistry_Forget(t *testing.T) {
	r := dedup.NewRegistry()

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})

	go func() {
		dedup.Do(r, "k", func() (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		close(done)
	}()

	<-started
	r.Forget("k")

	v, shared, err := dedup.Do(r, "k", func() (int, error) {
		return 2, nil
	})
	assert.NoError(t, err)
	assert.False(t, shared)
	assert.Equal(t, 2, v)

	close(release)
	<-done
}
