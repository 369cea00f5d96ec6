package mocks

import (
	"context"
	"errors"
	"io"

	"github.com/custodia-labs/blackout/internal/core/domain"
)

// MockRenderer is a mock implementation of Renderer for testing
type MockRenderer struct {
	RenderFn    func(ctx context.Context, source io.ReadSeeker, redactions []*domain.Redaction) ([]byte, error)
	PageCountFn func(ctx context.Context, source io.ReadSeeker) (int, error)
}

func (m *MockRenderer) Render(ctx context.Context, source io.ReadSeeker, redactions []*domain.Redaction) ([]byte, error) {
	if m.RenderFn != nil {
		return m.RenderFn(ctx, source, redactions)
	}
	return nil, errors.New("not implemented")
}

func (m *MockRenderer) PageCount(ctx context.Context, source io.ReadSeeker) (int, error) {
	if m.PageCountFn != nil {
		return m.PageCountFn(ctx, source)
	}
	return 0, errors.New("not implemented")
}
