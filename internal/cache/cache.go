// Package cache holds small in-process caches and their expiry sweeper.
package cache

import (
	"context"
	"sync"
	"time"

	"tally/internal/log"
)

type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

var _ Cache[int] = (*LRUCache[int])(nil)

// Manager periodically sweeps expired entries from registered caches.
type Manager struct {
	mu     sync.Mutex
	caches []Cleaner
	logger *log.Logger
}

func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger.WithComponent(log.ComponentCache)}
}

func (m *Manager) Register(c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, c)
}

// Sweep cleans every registered cache once and returns the number of entries removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	caches := append([]Cleaner(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// Run sweeps on every interval tick until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.DebugContext(ctx, "Expired cache entries removed", "count", n)
			}
		}
	}
}
