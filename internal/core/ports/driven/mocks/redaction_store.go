package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/blackout/internal/core/domain"
)

// MockRedactionStore is a mock implementation of RedactionStore for testing.
// Identifiers are assigned sequentially so tests can rely on creation order.
type MockRedactionStore struct {
	mu         sync.RWMutex
	redactions map[string][]*domain.Redaction // by document ID, in creation order
	nextID     int
}

// NewMockRedactionStore creates a new MockRedactionStore
func NewMockRedactionStore() *MockRedactionStore {
	return &MockRedactionStore{
		redactions: make(map[string][]*domain.Redaction),
	}
}

func (m *MockRedactionStore) Create(ctx context.Context, r *domain.Redaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = fmt.Sprintf("redaction-%d", m.nextID)
	r.CreatedAt = time.Now()
	m.redactions[r.DocumentID] = append(m.redactions[r.DocumentID], r)
	return nil
}

func (m *MockRedactionStore) Get(ctx context.Context, documentID, id string) (*domain.Redaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.redactions[documentID] {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRedactionStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Redaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Redaction, len(m.redactions[documentID]))
	copy(out, m.redactions[documentID])
	// ascending page, stable within a page
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Page < out[j].Page
	})
	return out, nil
}

func (m *MockRedactionStore) GetByDocumentAndPage(ctx context.Context, documentID string, page int) ([]*domain.Redaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Redaction
	for _, r := range m.redactions[documentID] {
		if r.Page == page {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRedactionStore) Delete(ctx context.Context, documentID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.redactions[documentID]
	for i, r := range list {
		if r.ID == id {
			m.redactions[documentID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockRedactionStore) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.redactions, documentID)
	return nil
}

func (m *MockRedactionStore) CountByDocument(ctx context.Context, documentID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.redactions[documentID]), nil
}
