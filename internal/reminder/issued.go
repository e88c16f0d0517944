package reminder

import (
	"context"
	"sync"
)

// IssuedStore remembers which subscription IDs already got their reminder
type IssuedStore interface {
	IsIssued(ctx context.Context, id string) (bool, error)
	MarkIssued(ctx context.Context, id string) error
	Forget(ctx context.Context, id string) error
}

// MemoryIssued is the session scoped IssuedStore: it lives as long as the process
type MemoryIssued struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewMemoryIssued() *MemoryIssued {
	return &MemoryIssued{ids: make(map[string]struct{})}
}

func (m *MemoryIssued) IsIssued(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[id]
	return ok, nil
}

func (m *MemoryIssued) MarkIssued(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[id] = struct{}{}
	return nil
}

func (m *MemoryIssued) Forget(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, id)
	return nil
}

// Len returns the number of issued IDs
func (m *MemoryIssued) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}
