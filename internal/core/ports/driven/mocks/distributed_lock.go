package mocks

import (
	"context"
	"sync"
	"time"
)

// MockDistributedLock is an in-process lock for testing.
// It tracks acquire/release calls so tests can assert lock usage.
type MockDistributedLock struct {
	mu       sync.Mutex
	held     map[string]bool
	Acquired []string
	Released []string

	// FailAcquire makes every Acquire return false without error.
	FailAcquire bool
}

// NewMockDistributedLock creates a new MockDistributedLock
func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{
		held: make(map[string]bool),
	}
}

func (m *MockDistributedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAcquire || m.held[name] {
		return false, nil
	}
	m.held[name] = true
	m.Acquired = append(m.Acquired, name)
	return true, nil
}

func (m *MockDistributedLock) Release(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, name)
	m.Released = append(m.Released, name)
	return nil
}

func (m *MockDistributedLock) Ping(ctx context.Context) error {
	return nil
}
