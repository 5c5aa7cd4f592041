package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindowRateLimiter counts requests per client key and resets every
// counter when its window elapses.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewFixedWindowLimiter(limit int, w time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  w,
		now:     time.Now,
	}
}

// Allow records a request from key. When the key is over its limit it returns
// false and how long until its window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	rl.sweep(now)

	win, ok := rl.clients[key]
	if !ok {
		win = &window{start: now}
		rl.clients[key] = win
	}

	if win.count >= rl.limit {
		return false, win.start.Add(rl.window).Sub(now)
	}
	win.count++
	return true, 0
}

// sweep drops expired windows. Caller holds the lock.
func (rl *FixedWindowRateLimiter) sweep(now time.Time) {
	for key, win := range rl.clients {
		if now.Sub(win.start) >= rl.window {
			delete(rl.clients, key)
		}
	}
}
