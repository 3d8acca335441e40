package analytics

import (
	"sync"

	"mccb-go/internal/models"

	"go.uber.org/zap"
)

// Manager hands out one Engine per user. Engines are created lazily and kept
// for the life of the process; the snapshot service persists their state.
type Manager struct {
	mu      sync.Mutex
	log     *zap.Logger
	battery *models.Battery
	engines map[int]*Engine
}

func NewManager(log *zap.Logger, battery *models.Battery) *Manager {
	return &Manager{
		log:     log,
		battery: battery,
		engines: make(map[int]*Engine),
	}
}

// ForUser returns the engine for a user, creating it on first use.
func (m *Manager) ForUser(userID int) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	engine, ok := m.engines[userID]
	if !ok {
		engine = NewEngine(m.log, m.battery)
		m.engines[userID] = engine
	}
	return engine
}

// Drop discards a user's engine, e.g. after account deletion.
func (m *Manager) Drop(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, userID)
}

// UserIDs lists users with a live engine, for the snapshot sweep.
func (m *Manager) UserIDs() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.engines))
	for id := range m.engines {
		ids = append(ids, id)
	}
	return ids
}
