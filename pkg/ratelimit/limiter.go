package ratelimit

import (
	"sync"
	"time"

	"github.com/formrelay/formrelay/pkg/common"
)

type Config struct {
	MaxRequests int
	Window      time.Duration
}

type Opts struct {
	TimeProvider func() time.Time
}

type window struct {
	count int
	start time.Time
}

// Limiter is a fixed-window request counter keyed by client. State lives in
// process memory only; expired windows are reaped opportunistically on every
// access instead of by a background timer.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	cfg     Config
	now     func() time.Time
}

func NewLimiter(cfg Config, opts *Opts) *Limiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = common.RateLimitMaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = common.RateLimitWindow
	}

	now := time.Now
	if opts != nil && opts.TimeProvider != nil {
		now = opts.TimeProvider
	}

	return &Limiter{
		windows: make(map[string]*window),
		cfg:     cfg,
		now:     now,
	}
}

// CheckAndRecord counts one hit for key and reports whether the request is
// still within the window's budget. The hit that crosses the budget, and
// every later hit inside the same window, is disallowed; rejections do not
// reset the window.
func (l *Limiter) CheckAndRecord(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) > l.cfg.Window {
		l.windows[key] = &window{count: 1, start: now}
		return true
	}

	w.count++
	return w.count <= l.cfg.MaxRequests
}

// Sweep removes every expired window. CheckAndRecord already does this on
// each call; the method exists so callers can reclaim memory for keys that
// never come back.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(l.now())
}

// ActiveWindows reports how many client windows are currently tracked.
func (l *Limiter) ActiveWindows() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (l *Limiter) sweepLocked(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) > l.cfg.Window {
			delete(l.windows, key)
		}
	}
}
