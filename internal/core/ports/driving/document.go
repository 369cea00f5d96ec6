package driving

import (
	"context"

	"github.com/custodia-labs/blackout/internal/core/domain"
)

// RegisterDocumentRequest registers a PDF already present on disk.
// @Description Document registration request
type RegisterDocumentRequest struct {
	Title    string `json:"title" example:"Quarterly Report"`
	FilePath string `json:"file_path" example:"/data/uploads/report.pdf"`
}

// DocumentService manages the documents redactions are applied to
type DocumentService interface {
	// Register records a new document and computes its page count
	Register(ctx context.Context, req RegisterDocumentRequest) (*domain.Document, error)

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List retrieves all documents
	List(ctx context.Context) ([]*domain.Document, error)

	// Delete removes a document and all its redactions
	Delete(ctx context.Context, id string) error
}
