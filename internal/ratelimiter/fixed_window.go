// Package ratelimiter provides a fixed-window per-client request limiter,
// used to shield the public callback endpoint from abuse.
package ratelimiter

import (
	"sync"
	"time"
)

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

// Limiter reports whether a client may proceed and, if not, how long to wait.
type Limiter interface {
	Allow(client string) (bool, time.Duration)
}

type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	frame   time.Duration
}

type window struct {
	count   int
	resetAt time.Time
}

func NewFixedWindowLimiter(limit int, frame time.Duration) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		frame:   frame,
	}
	go rl.sweep()
	return rl
}

func (rl *FixedWindowRateLimiter) Allow(client string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w := rl.clients[client]
	if w == nil || now.After(w.resetAt) {
		rl.clients[client] = &window{count: 1, resetAt: now.Add(rl.frame)}
		return true, 0
	}
	if w.count < rl.limit {
		w.count++
		return true, 0
	}
	return false, time.Until(w.resetAt)
}

// sweep drops expired windows so the client map does not grow unbounded.
func (rl *FixedWindowRateLimiter) sweep() {
	ticker := time.NewTicker(rl.frame)
	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for client, w := range rl.clients {
			if now.After(w.resetAt) {
				delete(rl.clients, client)
			}
		}
		rl.mu.Unlock()
	}
}
