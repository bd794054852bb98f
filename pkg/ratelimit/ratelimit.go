package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a token budget per minute. Callers wait until the
// requested number of tokens fits in the current window.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	remaining   int
	windowStart time.Time
}

// NewTokenLimiter creates a limiter with the given per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:   maxPerMinute,
		remaining:   maxPerMinute,
		windowStart: time.Now(),
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refresh()
	return l.remaining
}

// Wait blocks until n tokens are available or the context is canceled.
// Requests larger than the whole budget are allowed through once the window
// is fresh, otherwise they could never proceed.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	for {
		l.mu.Lock()
		l.refresh()
		if l.remaining >= n || (n > l.maxPerMin && l.remaining == l.maxPerMin) {
			l.remaining -= n
			l.mu.Unlock()
			return nil
		}
		wait := time.Until(l.windowStart.Add(time.Minute))
		l.mu.Unlock()

		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait + 10*time.Millisecond):
		}
	}
}

func (l *TokenLimiter) refresh() {
	if time.Since(l.windowStart) >= time.Minute {
		l.windowStart = time.Now()
		l.remaining = l.maxPerMin
	}
}
