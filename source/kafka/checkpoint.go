package kafka

import (
	"sync"
	"time"
)

/* ───────────────────────── Manager (commit helper) ────────────────────── */

// Manager decides when a driver should flush marked offsets. Offsets are
// marked after every successful emit; the commit itself is batched on a
// time cadence.
type Manager struct {
	every time.Duration
	now   func() time.Time

	mu      sync.Mutex
	last    time.Time
	pending int64
}

func NewManager(commitEvery time.Duration) *Manager {
	return &Manager{every: commitEvery, now: time.Now, last: time.Now()}
}

// Resolve records one handled message and reports whether a commit is due.
func (m *Manager) Resolve() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending++
	return !m.now().Before(m.last.Add(m.every))
}

// Committed resets the cadence after a flush.
func (m *Manager) Committed() {
	m.mu.Lock()
	m.pending, m.last = 0, m.now()
	m.mu.Unlock()
}

// Pending counts messages marked since the last flush.
func (m *Manager) Pending() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}
