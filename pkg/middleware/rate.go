// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/souqhup/pkg/response"
	"github.com/shashiranjanraj/souqhup/pkg/session"
)

// bucket tracks a fixed-window request count for one client.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(max int, window time.Duration, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

// Limiter counts requests per client key.
type Limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter allows max requests per window per client and evicts idle
// buckets once a minute until Stop is called.
func NewLimiter(max int, window time.Duration) *Limiter {
	l := &Limiter{max: max, window: window, buckets: map[string]*bucket{}, stop: make(chan struct{})}
	go l.evict(time.Minute)
	return l
}

func (l *Limiter) evict(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key, b := range l.buckets {
				b.mu.Lock()
				expired := now.After(b.resetAt)
				b.mu.Unlock()
				if expired {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *Limiter) Stop() { l.once.Do(func() { close(l.stop) }) }

// Allow records one request for key.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	l.mu.Unlock()
	return b.allow(l.max, l.window, now)
}

// Middleware rejects clients over the limit with 429. Clients are keyed by
// device when the session middleware ran first, else by address.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r)) {
			response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if id := session.DeviceID(r.Context()); id != "" {
		return "device:" + id
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return "ip:" + fwd
	}
	return "ip:" + r.RemoteAddr
}
