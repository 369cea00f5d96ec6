package services

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/blackout/internal/core/domain"
	"github.com/custodia-labs/blackout/internal/core/ports/driving"
)

// Export renders the document with all its redactions burned in.
//
// The output is a visual redaction: every box becomes an opaque black square
// annotation, but the page content underneath is not removed. The render is
// synchronous and bounded by page count; failures are surfaced, not retried.
func (s *redactionService) Export(ctx context.Context, documentID string) (*driving.ExportResult, error) {
	doc, err := s.documentStore.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	redactions, err := s.redactionStore.GetByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceDocument, err)
	}
	defer f.Close()

	data, err := s.renderer.Render(ctx, f, redactions)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document exported",
		"document_id", doc.ID,
		"redactions", len(redactions),
		"bytes", len(data))

	return &driving.ExportResult{
		Filename: doc.Title + "_redacted.pdf",
		Data:     data,
	}, nil
}
