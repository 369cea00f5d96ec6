package driven

import (
	"context"

	"github.com/custodia-labs/blackout/internal/core/domain"
)

// DocumentStore handles document persistence (PostgreSQL)
type DocumentStore interface {
	// Save creates or updates a document
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List retrieves all documents, newest first
	List(ctx context.Context) ([]*domain.Document, error)

	// Delete deletes a document and, through ownership, all its redactions
	Delete(ctx context.Context, id string) error

	// Count returns total document count
	Count(ctx context.Context) (int, error)
}
