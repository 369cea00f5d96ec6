package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/blackout/internal/core/domain"
	"github.com/custodia-labs/blackout/internal/core/ports/driven"
	"github.com/custodia-labs/blackout/internal/core/ports/driving"
)

// Ensure redactionService implements RedactionService
var _ driving.RedactionService = (*redactionService)(nil)

const (
	createLockTTL   = 10 * time.Second
	createLockWait  = 2 * time.Second
	createLockRetry = 50 * time.Millisecond
)

// redactionService implements the RedactionService interface
type redactionService struct {
	documentStore  driven.DocumentStore
	redactionStore driven.RedactionStore
	renderer       driven.Renderer
	lock           driven.DistributedLock
	builder        domain.Builder
	logger         *slog.Logger
}

// NewRedactionService creates a new RedactionService
func NewRedactionService(
	documentStore driven.DocumentStore,
	redactionStore driven.RedactionStore,
	renderer driven.Renderer,
	lock driven.DistributedLock,
	builder domain.Builder,
	logger *slog.Logger,
) driving.RedactionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &redactionService{
		documentStore:  documentStore,
		redactionStore: redactionStore,
		renderer:       renderer,
		lock:           lock,
		builder:        builder,
		logger:         logger,
	}
}

// Create validates the request and appends the redaction to the document
// under a per-document lock, so concurrent creations serialize into atomic
// appends with store-assigned identifiers.
func (s *redactionService) Create(ctx context.Context, documentID string, req driving.CreateRedactionRequest) (*domain.Redaction, error) {
	doc, err := s.documentStore.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	page, rawBoxes := req.Resolve()
	redaction, err := s.builder.Build(req.Type, page, rawBoxes)
	if err != nil {
		return nil, err
	}
	if redaction.Page > doc.PageCount {
		return nil, &domain.ValidationError{Reason: domain.PageOutOfRange, Field: "page"}
	}
	redaction.DocumentID = doc.ID

	lockName := "redaction-create:" + doc.ID
	if err := s.acquireLock(ctx, lockName); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), lockName); err != nil {
			s.logger.Warn("failed to release creation lock", "lock", lockName, "error", err)
		}
	}()

	if err := s.redactionStore.Create(ctx, redaction); err != nil {
		return nil, err
	}

	s.logger.Info("redaction created",
		"document_id", doc.ID,
		"redaction_id", redaction.ID,
		"type", redaction.Type,
		"page", redaction.Page,
		"boxes", len(redaction.Boxes))

	return redaction, nil
}

// acquireLock polls briefly for the per-document creation lock.
func (s *redactionService) acquireLock(ctx context.Context, name string) error {
	deadline := time.Now().Add(createLockWait)
	for {
		acquired, err := s.lock.Acquire(ctx, name, createLockTTL)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		if acquired {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: creation lock %s busy", domain.ErrPersistence, name)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(createLockRetry):
		}
	}
}

// ListByDocument returns all redactions of a document
func (s *redactionService) ListByDocument(ctx context.Context, documentID string) ([]*domain.Redaction, error) {
	if _, err := s.documentStore.Get(ctx, documentID); err != nil {
		return nil, err
	}
	return s.redactionStore.GetByDocument(ctx, documentID)
}

// ListByPage returns the redactions of one page of a document
func (s *redactionService) ListByPage(ctx context.Context, documentID string, page int) ([]*domain.Redaction, error) {
	if _, err := s.documentStore.Get(ctx, documentID); err != nil {
		return nil, err
	}
	return s.redactionStore.GetByDocumentAndPage(ctx, documentID, page)
}

// Delete removes one redaction as a unit (the mark and all its boxes).
func (s *redactionService) Delete(ctx context.Context, documentID, redactionID string) error {
	if _, err := s.documentStore.Get(ctx, documentID); err != nil {
		return err
	}
	if err := s.redactionStore.Delete(ctx, documentID, redactionID); err != nil {
		return err
	}

	s.logger.Info("redaction deleted",
		"document_id", documentID,
		"redaction_id", redactionID)

	return nil
}
