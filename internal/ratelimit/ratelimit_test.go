package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestRegistry(rps float64, burst int) (*Registry, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(rps, burst)
	r.now = clock.now
	return r, clock
}

func TestRegistry_BurstThenRefill(t *testing.T) {
	r, clock := newTestRegistry(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, r.Allow("client-a"), "request %d", i)
	}
	assert.False(t, r.Allow("client-a"))

	// callers are independent
	assert.True(t, r.Allow("client-b"))

	clock.advance(time.Second)
	assert.True(t, r.Allow("client-a"))
	assert.False(t, r.Allow("client-a"))
}

func TestRegistry_HundredPerMinute(t *testing.T) {
	r, clock := newTestRegistry(100.0/60.0, 100)

	allowed := 0
	for i := 0; i < 150; i++ {
		if r.Allow("u") {
			allowed++
		}
	}
	assert.Equal(t, 100, allowed)

	clock.advance(time.Minute)
	assert.True(t, r.Allow("u"))
}

func TestRegistry_Sweep(t *testing.T) {
	r, clock := newTestRegistry(1, 1)

	r.Allow("old")
	clock.advance(5 * time.Minute)
	r.Allow("fresh")

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 1, r.Sweep(time.Minute))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 0, r.Sweep(time.Minute))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry(1, 50)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, allowed, 50)
	assert.LessOrEqual(t, allowed, 51)
}
