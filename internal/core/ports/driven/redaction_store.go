package driven

import (
	"context"

	"github.com/custodia-labs/blackout/internal/core/domain"
)

// RedactionStore handles redaction persistence (PostgreSQL).
//
// Creation is an atomic append: the store assigns the identifier and commits
// the redaction with all its boxes in one step. Enumeration order is stable:
// ascending page, then creation order within a page.
type RedactionStore interface {
	// Create persists a new redaction and assigns its identifier.
	// The redaction's ID and CreatedAt fields are filled in on success.
	Create(ctx context.Context, r *domain.Redaction) error

	// Get retrieves one redaction scoped to a document
	Get(ctx context.Context, documentID, id string) (*domain.Redaction, error)

	// GetByDocument retrieves all redactions of a document, ordered by page
	// then creation order
	GetByDocument(ctx context.Context, documentID string) ([]*domain.Redaction, error)

	// GetByDocumentAndPage retrieves the redactions of one page, in creation
	// order
	GetByDocumentAndPage(ctx context.Context, documentID string, page int) ([]*domain.Redaction, error)

	// Delete removes a redaction and all its boxes as one unit.
	// Returns domain.ErrNotFound if the redaction does not exist.
	Delete(ctx context.Context, documentID, id string) error

	// DeleteByDocument removes all redactions of a document
	DeleteByDocument(ctx context.Context, documentID string) error

	// CountByDocument returns the redaction count for a document
	CountByDocument(ctx context.Context, documentID string) (int, error)
}
