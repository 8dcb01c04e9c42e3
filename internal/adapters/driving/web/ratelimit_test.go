package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter_PerAddress(t *testing.T) {
	l := newIPRateLimiter(rate.Every(time.Hour), 2, time.Minute)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))
}

func TestIPRateLimiter_PrunesIdleEntries(t *testing.T) {
	l := newIPRateLimiter(rate.Every(time.Hour), 1, time.Minute)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	l.allow("10.0.0.2")

	assert.NotContains(t, l.limiters, "10.0.0.1")
	assert.Contains(t, l.limiters, "10.0.0.2")
}

func TestIPRateLimiter_EvictsOldestWhenFull(t *testing.T) {
	l := newIPRateLimiter(rate.Every(time.Hour), 1, time.Hour)
	l.maxEntries = 2
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("a")
	now = now.Add(time.Second)
	l.allow("b")
	now = now.Add(time.Second)
	l.allow("c")

	assert.Len(t, l.limiters, 2)
	assert.NotContains(t, l.limiters, "a")
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "192.0.2.1", clientIP("192.0.2.1:1234"))
	assert.Equal(t, "192.0.2.1", clientIP("192.0.2.1"))
}
