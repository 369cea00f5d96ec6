package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/blackout/internal/core/domain"
	"github.com/custodia-labs/blackout/internal/core/ports/driven"
	"github.com/custodia-labs/blackout/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface
type documentService struct {
	documentStore  driven.DocumentStore
	redactionStore driven.RedactionStore
	renderer       driven.Renderer
	logger         *slog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentStore driven.DocumentStore,
	redactionStore driven.RedactionStore,
	renderer driven.Renderer,
	logger *slog.Logger,
) driving.DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{
		documentStore:  documentStore,
		redactionStore: redactionStore,
		renderer:       renderer,
		logger:         logger,
	}
}

// Register records a new document and computes its page count from the PDF.
// The page count backs the page range check on redaction creation.
func (s *documentService) Register(ctx context.Context, req driving.RegisterDocumentRequest) (*domain.Document, error) {
	if req.Title == "" {
		return nil, &domain.ValidationError{Reason: domain.InvalidField, Field: "title"}
	}
	if req.FilePath == "" {
		return nil, &domain.ValidationError{Reason: domain.InvalidField, Field: "file_path"}
	}

	f, err := os.Open(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceDocument, err)
	}
	defer f.Close()

	pageCount, err := s.renderer.PageCount(ctx, f)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		Title:     req.Title,
		FilePath:  req.FilePath,
		PageCount: pageCount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.documentStore.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document registered",
		"document_id", doc.ID,
		"title", doc.Title,
		"pages", doc.PageCount)

	return doc, nil
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.documentStore.Get(ctx, id)
}

// List retrieves all documents
func (s *documentService) List(ctx context.Context) ([]*domain.Document, error) {
	return s.documentStore.List(ctx)
}

// Delete removes a document together with all its redactions.
// The store cascades the redaction delete; the explicit call keeps the
// ownership rule visible to in-memory implementations as well.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if _, err := s.documentStore.Get(ctx, id); err != nil {
		return err
	}
	if err := s.redactionStore.DeleteByDocument(ctx, id); err != nil {
		return err
	}
	return s.documentStore.Delete(ctx, id)
}
