package ratelimit_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/formrelay/formrelay/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(start time.Time) (*ratelimit.Limiter, *time.Time) {
	now := start
	limiter := ratelimit.NewLimiter(
		ratelimit.Config{MaxRequests: 5, Window: 10 * time.Minute},
		&ratelimit.Opts{TimeProvider: func() time.Time { return now }},
	)
	return limiter, &now
}

func TestLimiter_AllowsUpToMaxRequests(t *testing.T) {
	limiter, _ := newTestLimiter(time.Unix(1700000000, 0))

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.CheckAndRecord("1.2.3.4"), "request %d should be allowed", i+1)
	}
	assert.False(t, limiter.CheckAndRecord("1.2.3.4"), "6th request should be rejected")
	assert.False(t, limiter.CheckAndRecord("1.2.3.4"), "7th request should be rejected")
}

func TestLimiter_RejectionsDoNotResetWindow(t *testing.T) {
	limiter, now := newTestLimiter(time.Unix(1700000000, 0))

	for i := 0; i < 6; i++ {
		limiter.CheckAndRecord("1.2.3.4")
	}

	// Rejected requests keep the original window start, so five minutes
	// later the client is still blocked.
	*now = now.Add(5 * time.Minute)
	assert.False(t, limiter.CheckAndRecord("1.2.3.4"))
}

func TestLimiter_WindowExpiryResetsCount(t *testing.T) {
	start := time.Unix(1700000000, 0)
	limiter, now := newTestLimiter(start)

	for i := 0; i < 6; i++ {
		limiter.CheckAndRecord("1.2.3.4")
	}

	*now = start.Add(10*time.Minute + time.Second)
	assert.True(t, limiter.CheckAndRecord("1.2.3.4"), "fresh window after expiry")

	// The fresh window counts from 1 again.
	for i := 0; i < 4; i++ {
		assert.True(t, limiter.CheckAndRecord("1.2.3.4"))
	}
	assert.False(t, limiter.CheckAndRecord("1.2.3.4"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(time.Unix(1700000000, 0))

	for i := 0; i < 6; i++ {
		limiter.CheckAndRecord("1.2.3.4")
	}
	assert.True(t, limiter.CheckAndRecord("5.6.7.8"))
}

func TestLimiter_SweepIsIdempotent(t *testing.T) {
	start := time.Unix(1700000000, 0)
	limiter, now := newTestLimiter(start)

	for i := 0; i < 3; i++ {
		limiter.CheckAndRecord(fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Equal(t, 3, limiter.ActiveWindows())

	// Not expired yet: repeated sweeps change nothing.
	limiter.Sweep()
	limiter.Sweep()
	assert.Equal(t, 3, limiter.ActiveWindows())

	*now = start.Add(10*time.Minute + time.Second)
	limiter.Sweep()
	assert.Equal(t, 0, limiter.ActiveWindows())
	limiter.Sweep()
	assert.Equal(t, 0, limiter.ActiveWindows())
}

func TestLimiter_SweepHappensOnAccess(t *testing.T) {
	start := time.Unix(1700000000, 0)
	limiter, now := newTestLimiter(start)

	limiter.CheckAndRecord("1.2.3.4")
	limiter.CheckAndRecord("5.6.7.8")
	assert.Equal(t, 2, limiter.ActiveWindows())

	*now = start.Add(11 * time.Minute)
	limiter.CheckAndRecord("9.9.9.9")
	assert.Equal(t, 1, limiter.ActiveWindows(), "a new hit reaps both stale windows")
}

func TestLimiter_DefaultsApplied(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.Config{}, nil)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.CheckAndRecord("1.2.3.4"))
	}
	assert.False(t, limiter.CheckAndRecord("1.2.3.4"))
}
