package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/custodia-labs/blackout/internal/core/domain"
	"github.com/custodia-labs/blackout/internal/core/ports/driven/mocks"
)

func TestRedactionService_Export(t *testing.T) {
	documentStore := mocks.NewMockDocumentStore()
	redactionStore := mocks.NewMockRedactionStore()

	var rendered []*domain.Redaction
	renderer := &mocks.MockRenderer{
		RenderFn: func(ctx context.Context, source io.ReadSeeker, redactions []*domain.Redaction) ([]byte, error) {
			rendered = redactions
			return []byte("%PDF-fake"), nil
		},
	}
	svc := NewRedactionService(documentStore, redactionStore, renderer, mocks.NewMockDistributedLock(), domain.Builder{}, nil)

	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := &domain.Document{ID: "doc-1", Title: "Report", FilePath: path, PageCount: 3}
	_ = documentStore.Save(context.Background(), doc)

	for _, page := range []int{3, 1} {
		r := &domain.Redaction{DocumentID: "doc-1", Type: domain.RedactionArea, Page: page, Boxes: []domain.Box{{Width: 1, Height: 1}}}
		_ = redactionStore.Create(context.Background(), r)
	}

	result, err := svc.Export(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Filename != "Report_redacted.pdf" {
		t.Errorf("unexpected filename %q", result.Filename)
	}
	if string(result.Data) != "%PDF-fake" {
		t.Errorf("unexpected data %q", result.Data)
	}
	if len(rendered) != 2 {
		t.Fatalf("expected 2 redactions passed to renderer, got %d", len(rendered))
	}
	// the renderer receives redactions ordered by page
	if rendered[0].Page != 1 || rendered[1].Page != 3 {
		t.Errorf("unexpected order: %d, %d", rendered[0].Page, rendered[1].Page)
	}
}

func TestRedactionService_Export_MissingSource(t *testing.T) {
	documentStore := mocks.NewMockDocumentStore()
	svc := NewRedactionService(documentStore, mocks.NewMockRedactionStore(), &mocks.MockRenderer{}, mocks.NewMockDistributedLock(), domain.Builder{}, nil)

	doc := &domain.Document{ID: "doc-1", Title: "Gone", FilePath: "/does/not/exist.pdf", PageCount: 1}
	_ = documentStore.Save(context.Background(), doc)

	_, err := svc.Export(context.Background(), "doc-1")
	if !errors.Is(err, domain.ErrSourceDocument) {
		t.Errorf("expected ErrSourceDocument, got %v", err)
	}
}

func TestRedactionService_Export_DocumentNotFound(t *testing.T) {
	svc := NewRedactionService(mocks.NewMockDocumentStore(), mocks.NewMockRedactionStore(), &mocks.MockRenderer{}, mocks.NewMockDistributedLock(), domain.Builder{}, nil)

	_, err := svc.Export(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
