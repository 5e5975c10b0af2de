package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cleaner is any cache that can evict its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs periodic expiry sweeps over a set of registered caches, so
// each cache does not need its own ticker goroutine.
type Manager struct {
	mu     sync.Mutex
	caches []Cleaner
	stop   chan struct{}
	once   sync.Once
}

func NewManager() *Manager {
	return &Manager{stop: make(chan struct{})}
}

// Register adds a cache to the sweep set.
func (m *Manager) Register(c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, c)
}

// StartCleanup begins the background sweep loop.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.run(interval)
}

func (m *Manager) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) sweep() {
	m.mu.Lock()
	caches := make([]Cleaner, len(m.caches))
	copy(caches, m.caches)
	m.mu.Unlock()

	removed := 0
	for _, c := range caches {
		removed += c.CleanExpired()
	}
	if removed > 0 {
		slog.Debug("Cache sweep removed expired entries", "removed", removed)
	}
}

// Stop ends the sweep loop. Safe to call more than once.
func (m *Manager) Stop() {
	m.once.Do(func() { close(m.stop) })
}
