package coach

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestHub_EvictDropsIdleSessions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	h := NewHub(time.Hour)
	h.now = clock.Now
	defer h.Close()

	idle := h.Session("idle-device")
	_, err := idle.Send("hello")
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	active := h.Session("active-device")

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, h.Evict(clock.Now().Add(-IdleTimeout)))
	assert.Equal(t, 1, h.Len())
	assert.Same(t, active, h.Session("active-device"))

	fresh := h.Session("idle-device")
	assert.NotSame(t, idle, fresh)
	assert.Len(t, fresh.Messages(), 1, "evicted device starts from the greeting")
}

func TestHub_SessionRefreshesLastUse(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	h := NewHub(time.Millisecond)
	h.now = clock.Now
	defer h.Close()

	s := h.Session("device-1")
	clock.Advance(25 * time.Minute)
	h.Session("device-1")
	clock.Advance(25 * time.Minute)

	assert.Zero(t, h.Evict(clock.Now().Add(-IdleTimeout)))
	assert.Same(t, s, h.Session("device-1"))
}

func TestStartEviction_StopsOnDone(t *testing.T) {
	h := NewHub(time.Millisecond)
	defer h.Close()
	h.Session("device-1")

	done := make(chan struct{})
	StartEviction(h, 10*time.Millisecond, done)
	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 5*time.Millisecond)
	close(done)
}
