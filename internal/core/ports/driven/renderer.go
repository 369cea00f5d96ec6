package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/blackout/internal/core/domain"
)

// Renderer burns redactions into PDF documents (seehuhn.de/go/pdf).
type Renderer interface {
	// Render produces a new PDF in which every redaction is drawn as an
	// opaque black square annotation on its page. Page order is preserved;
	// within a page, annotations follow redaction creation order, then box
	// order. Pages without redactions are copied unchanged.
	//
	// The redaction is visual only: the content underneath the boxes stays
	// in the file. Callers needing true content removal must not rely on
	// this renderer.
	//
	// An unreadable source yields an error wrapping domain.ErrSourceDocument.
	Render(ctx context.Context, source io.ReadSeeker, redactions []*domain.Redaction) ([]byte, error)

	// PageCount reports the number of pages in the source document.
	PageCount(ctx context.Context, source io.ReadSeeker) (int, error)
}
