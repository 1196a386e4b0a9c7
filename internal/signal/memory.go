package signal

import (
	"context"
	"sync"
)

// Memory is an in-process flag store. Used in tests and as the fallback
// backend when no durable store is configured.
type Memory struct {
	mu    sync.Mutex
	value string
}

func NewMemory() *Memory {
	return &Memory{value: sentinelClean}
}

func (m *Memory) Dirty(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value == sentinelDirty, nil
}

func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = sentinelClean
	return nil
}

// MarkDirty flips the flag, standing in for the external mutator.
func (m *Memory) MarkDirty(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = sentinelDirty
	return nil
}
