// Package ratelimit limits submissions per anonymous identity and client address.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a set of token buckets keyed by caller. Each key may spend perWindow
// events at once and regains them evenly over window. It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idle    time.Duration

	lastPrune time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a Limiter allowing perWindow events per window for each key.
// A non-positive perWindow disables limiting.
func New(perWindow int, window time.Duration) *Limiter {
	l := &Limiter{buckets: make(map[string]*bucket), idle: window}
	if perWindow <= 0 || window <= 0 {
		l.limit = rate.Inf
		return l
	}
	l.limit = rate.Limit(float64(perWindow) / window.Seconds())
	l.burst = perWindow
	return l
}

// Key joins an anonymous id and an IP address into one limiter key.
func Key(anonID, ip string) string {
	return anonID + "|" + ip
}

// Allow reports whether key may perform one more event now, and records it if so.
func (l *Limiter) Allow(key string) bool {
	return l.AllowAt(key, time.Now())
}

// AllowAt is Allow at an explicit time.
func (l *Limiter) AllowAt(key string, now time.Time) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)
	l.pruneLocked(now)
	return allowed
}

// pruneLocked drops buckets idle for a full window; they would be full again anyway.
// It sweeps at most once per minute.
func (l *Limiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < time.Minute {
		return
	}
	l.lastPrune = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
