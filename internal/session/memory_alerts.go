package session

import (
	"context"
	"sync"
)

// MemoryAlerts is an in-process AlertStore used by tests and local
// development without Redis.
type MemoryAlerts struct {
	mu     sync.Mutex
	alerts map[string][]Alert
}

func NewMemoryAlerts() *MemoryAlerts {
	return &MemoryAlerts{alerts: make(map[string][]Alert)}
}

func (s *MemoryAlerts) Save(_ context.Context, sessionID string, alert Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[sessionID] = append(s.alerts[sessionID], alert)
	return nil
}

func (s *MemoryAlerts) Drain(_ context.Context, sessionID string) ([]Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.alerts[sessionID]
	delete(s.alerts, sessionID)
	if out == nil {
		out = []Alert{}
	}
	return out, nil
}
