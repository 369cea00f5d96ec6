package driving

import (
	"context"

	"github.com/custodia-labs/blackout/internal/core/domain"
)

// FlatCoordinates is the single-rectangle payload shape, with the page
// number embedded next to the rectangle fields.
type FlatCoordinates struct {
	domain.RawBox
	Page any `json:"page"`
}

// CreateRedactionRequest is the wire payload for creating a redaction.
// Two encodings are accepted and resolved into one canonical shape before
// validation:
//
//	{"type": "area", "coordinates": {"x":.., "y":.., "width":.., "height":.., "page": 1}}
//	{"type": "text", "page": 2, "selections": [{"x":..,...}, ...]}
//
// @Description Redaction creation request (flat or multi-selection form)
type CreateRedactionRequest struct {
	Type        string           `json:"type" example:"area"`
	Page        any              `json:"page,omitempty"`
	Coordinates *FlatCoordinates `json:"coordinates,omitempty"`
	Selections  []domain.RawBox  `json:"selections,omitempty"`
}

// Resolve collapses the two request encodings into (page, rectangles).
// It performs no field validation; that is the builder's job.
func (r *CreateRedactionRequest) Resolve() (page any, boxes []domain.RawBox) {
	if r.Coordinates != nil {
		return r.Coordinates.Page, []domain.RawBox{r.Coordinates.RawBox}
	}
	return r.Page, r.Selections
}

// ExportResult is a rendered PDF plus its suggested download filename.
type ExportResult struct {
	Filename string
	Data     []byte
}

// RedactionService manages redaction marks and their export
type RedactionService interface {
	// Create validates and persists a new redaction for a document.
	// Returns a domain.ValidationError on bad input, domain.ErrNotFound if
	// the document does not exist.
	Create(ctx context.Context, documentID string, req CreateRedactionRequest) (*domain.Redaction, error)

	// ListByDocument returns all redactions of a document ordered by page
	// then creation order
	ListByDocument(ctx context.Context, documentID string) ([]*domain.Redaction, error)

	// ListByPage returns the redactions of one page of a document
	ListByPage(ctx context.Context, documentID string, page int) ([]*domain.Redaction, error)

	// Delete removes one redaction. domain.ErrNotFound is reported when the
	// redaction is absent, distinct from a successful delete.
	Delete(ctx context.Context, documentID, redactionID string) error

	// Export renders the document with all its redactions burned in and
	// returns the PDF bytes with a suggested filename.
	Export(ctx context.Context, documentID string) (*ExportResult, error)
}
