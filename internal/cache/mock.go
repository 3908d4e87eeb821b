package cache

import (
	"context"
	"sync"
	"time"
)

// MockGuard provides an in-memory guard for tests and for running without
// Redis
type MockGuard struct {
	mu   sync.Mutex
	data map[string]bool
}

func NewMockGuard() *MockGuard {
	return &MockGuard{
		data: make(map[string]bool),
	}
}

func (m *MockGuard) Close() error {
	return nil
}

func (m *MockGuard) IsPublished(ctx context.Context, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[hash], nil
}

func (m *MockGuard) MarkPublished(ctx context.Context, hash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[hash] = true
	return nil
}
