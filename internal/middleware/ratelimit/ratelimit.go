// Package ratelimit is a per-client request limiter for the entry API.
// Report reads are cached and cheap; writes hit SQLite and the AMQP bus, so
// the POST path is the one that gets limited.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

// Config controls the limiter window.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// Limiter counts requests per client over a sliding one-minute window.
type Limiter struct {
	mu      sync.Mutex
	clients map[string][]time.Time
	limit   int
	stop    chan struct{}
}

func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		clients: make(map[string][]time.Time),
		limit:   cfg.RequestsPerMinute,
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop(cfg.CleanupInterval)
	return l
}

// Allow reports whether the client may make another request now, and records
// it when allowed.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)

	recent := l.clients[clientIP][:0]
	for _, t := range l.clients[clientIP] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.clients[clientIP] = recent
		return false
	}
	l.clients[clientIP] = append(recent, now)
	return true
}

// ActiveClients returns the number of clients with recorded requests.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop ends the background cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.stop)
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.dropIdleClients()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) dropIdleClients() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-time.Minute)
	for ip, times := range l.clients {
		idle := true
		for _, t := range times {
			if t.After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			delete(l.clients, ip)
		}
	}
}

// Middleware applies the limiter to a handler, invoking onLimit for rejected
// requests.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(extractIP(r)) {
				onLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
