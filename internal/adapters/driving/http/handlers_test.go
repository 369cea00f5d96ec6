package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custodia-labs/blackout/internal/core/domain"
	"github.com/custodia-labs/blackout/internal/core/ports/driving"
)

// Mock services for testing

type mockDocumentService struct {
	registerFn func(ctx context.Context, req driving.RegisterDocumentRequest) (*domain.Document, error)
	getFn      func(ctx context.Context, id string) (*domain.Document, error)
	listFn     func(ctx context.Context) ([]*domain.Document, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockDocumentService) Register(ctx context.Context, req driving.RegisterDocumentRequest) (*domain.Document, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) List(ctx context.Context) ([]*domain.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return errors.New("not implemented")
}

type mockRedactionService struct {
	createFn         func(ctx context.Context, documentID string, req driving.CreateRedactionRequest) (*domain.Redaction, error)
	listByDocumentFn func(ctx context.Context, documentID string) ([]*domain.Redaction, error)
	listByPageFn     func(ctx context.Context, documentID string, page int) ([]*domain.Redaction, error)
	deleteFn         func(ctx context.Context, documentID, redactionID string) error
	exportFn         func(ctx context.Context, documentID string) (*driving.ExportResult, error)
}

func (m *mockRedactionService) Create(ctx context.Context, documentID string, req driving.CreateRedactionRequest) (*domain.Redaction, error) {
	if m.createFn != nil {
		return m.createFn(ctx, documentID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRedactionService) ListByDocument(ctx context.Context, documentID string) ([]*domain.Redaction, error) {
	if m.listByDocumentFn != nil {
		return m.listByDocumentFn(ctx, documentID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRedactionService) ListByPage(ctx context.Context, documentID string, page int) ([]*domain.Redaction, error) {
	if m.listByPageFn != nil {
		return m.listByPageFn(ctx, documentID, page)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRedactionService) Delete(ctx context.Context, documentID, redactionID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, documentID, redactionID)
	}
	return errors.New("not implemented")
}

func (m *mockRedactionService) Export(ctx context.Context, documentID string) (*driving.ExportResult, error) {
	if m.exportFn != nil {
		return m.exportFn(ctx, documentID)
	}
	return nil, errors.New("not implemented")
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// newTestServer builds a Server with routes registered but without the
// listener, so requests can be driven through the router directly.
func newTestServer(docs driving.DocumentService, redactions driving.RedactionService) *Server {
	s := &Server{
		router:           http.NewServeMux(),
		version:          "test",
		documentService:  docs,
		redactionService: redactions,
	}
	s.setupRoutes()
	return s
}

func TestHealthHandler(t *testing.T) {
	server := newTestServer(nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %s", response["status"])
	}
}

func TestReadyHandler(t *testing.T) {
	server := newTestServer(nil, nil)
	server.db = &mockPinger{}
	server.lock = &mockPinger{}

	req := httptest.NewRequest("GET", "/ready", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestReadyHandler_DatabaseDown(t *testing.T) {
	server := newTestServer(nil, nil)
	server.db = &mockPinger{err: errors.New("connection refused")}

	req := httptest.NewRequest("GET", "/ready", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	server := newTestServer(nil, nil)
	server.version = "1.2.3"

	req := httptest.NewRequest("GET", "/version", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["version"] != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %s", response["version"])
	}
}

func TestListDocuments(t *testing.T) {
	docs := &mockDocumentService{
		listFn: func(ctx context.Context) ([]*domain.Document, error) {
			return []*domain.Document{{ID: "doc-1", Title: "Report"}}, nil
		},
	}
	server := newTestServer(docs, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response []*domain.Document
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 || response[0].ID != "doc-1" {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestListDocuments_Empty(t *testing.T) {
	docs := &mockDocumentService{
		listFn: func(ctx context.Context) ([]*domain.Document, error) {
			return nil, nil
		},
	}
	server := newTestServer(docs, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	// a nil slice must still encode as an empty JSON array
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("expected empty array, got %q", body)
	}
}

func TestRegisterDocument(t *testing.T) {
	docs := &mockDocumentService{
		registerFn: func(ctx context.Context, req driving.RegisterDocumentRequest) (*domain.Document, error) {
			if req.Title != "Report" {
				t.Errorf("expected title Report, got %q", req.Title)
			}
			return &domain.Document{ID: "doc-1", Title: req.Title, FilePath: req.FilePath, PageCount: 3}, nil
		},
	}
	server := newTestServer(docs, nil)

	body := bytes.NewBufferString(`{"title": "Report", "file_path": "/data/report.pdf"}`)
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}

	var response domain.Document
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.PageCount != 3 {
		t.Errorf("expected page count 3, got %d", response.PageCount)
	}
}

func TestRegisterDocument_InvalidBody(t *testing.T) {
	server := newTestServer(&mockDocumentService{}, nil)

	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestRegisterDocument_ValidationError(t *testing.T) {
	docs := &mockDocumentService{
		registerFn: func(ctx context.Context, req driving.RegisterDocumentRequest) (*domain.Document, error) {
			return nil, &domain.ValidationError{Reason: domain.InvalidField, Field: "title"}
		},
	}
	server := newTestServer(docs, nil)

	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Field != "title" {
		t.Errorf("expected field 'title', got %q", response.Field)
	}
}

func TestGetDocument(t *testing.T) {
	docs := &mockDocumentService{
		getFn: func(ctx context.Context, id string) (*domain.Document, error) {
			if id != "doc-1" {
				t.Errorf("expected id doc-1, got %q", id)
			}
			return &domain.Document{ID: id, Title: "Report"}, nil
		},
	}
	server := newTestServer(docs, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	docs := &mockDocumentService{
		getFn: func(ctx context.Context, id string) (*domain.Document, error) {
			return nil, domain.ErrNotFound
		},
	}
	server := newTestServer(docs, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents/missing", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestDeleteDocument(t *testing.T) {
	deleted := ""
	docs := &mockDocumentService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	server := newTestServer(docs, nil)

	req := httptest.NewRequest("DELETE", "/api/v1/documents/doc-1", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if deleted != "doc-1" {
		t.Errorf("expected doc-1 deleted, got %q", deleted)
	}
}

func TestListRedactions(t *testing.T) {
	redactions := &mockRedactionService{
		listByDocumentFn: func(ctx context.Context, documentID string) ([]*domain.Redaction, error) {
			return []*domain.Redaction{{ID: "red-1", DocumentID: documentID, Page: 1}}, nil
		},
	}
	server := newTestServer(nil, redactions)

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1/redactions", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response []*domain.Redaction
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 || response[0].ID != "red-1" {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestListRedactions_ByPage(t *testing.T) {
	gotPage := 0
	redactions := &mockRedactionService{
		listByPageFn: func(ctx context.Context, documentID string, page int) ([]*domain.Redaction, error) {
			gotPage = page
			return nil, nil
		},
	}
	server := newTestServer(nil, redactions)

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1/redactions?page=2", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if gotPage != 2 {
		t.Errorf("expected page 2, got %d", gotPage)
	}
	// an empty page still returns an array, not null
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("expected empty array, got %q", body)
	}
}

func TestListRedactions_InvalidPage(t *testing.T) {
	server := newTestServer(nil, &mockRedactionService{})

	for _, page := range []string{"abc", "0", "-1", "1.5"} {
		req := httptest.NewRequest("GET", "/api/v1/documents/doc-1/redactions?page="+page, nil)
		rr := httptest.NewRecorder()

		server.router.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("page=%s: expected status 400, got %d", page, rr.Code)
		}
	}
}

func TestCreateRedaction(t *testing.T) {
	redactions := &mockRedactionService{
		createFn: func(ctx context.Context, documentID string, req driving.CreateRedactionRequest) (*domain.Redaction, error) {
			if documentID != "doc-1" {
				t.Errorf("expected document doc-1, got %q", documentID)
			}
			if req.Type != "area" {
				t.Errorf("expected type area, got %q", req.Type)
			}
			if req.Coordinates == nil {
				t.Fatal("expected flat coordinates payload")
			}
			return &domain.Redaction{ID: "red-1", DocumentID: documentID, Type: domain.RedactionArea, Page: 1}, nil
		},
	}
	server := newTestServer(nil, redactions)

	body := bytes.NewBufferString(`{"type": "area", "coordinates": {"x": 10, "y": 20, "width": 30, "height": 40, "page": 1}}`)
	req := httptest.NewRequest("POST", "/api/v1/documents/doc-1/redactions", body)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}
}

func TestCreateRedaction_ValidationError(t *testing.T) {
	redactions := &mockRedactionService{
		createFn: func(ctx context.Context, documentID string, req driving.CreateRedactionRequest) (*domain.Redaction, error) {
			return nil, &domain.ValidationError{Reason: domain.InvalidField, Field: "width"}
		},
	}
	server := newTestServer(nil, redactions)

	body := bytes.NewBufferString(`{"type": "area", "coordinates": {"x": 10, "y": 20, "width": "wat", "height": 40, "page": 1}}`)
	req := httptest.NewRequest("POST", "/api/v1/documents/doc-1/redactions", body)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Reason != string(domain.InvalidField) {
		t.Errorf("expected reason %q, got %q", domain.InvalidField, response.Reason)
	}
	if response.Field != "width" {
		t.Errorf("expected field 'width', got %q", response.Field)
	}
}

func TestCreateRedaction_DocumentNotFound(t *testing.T) {
	redactions := &mockRedactionService{
		createFn: func(ctx context.Context, documentID string, req driving.CreateRedactionRequest) (*domain.Redaction, error) {
			return nil, domain.ErrNotFound
		},
	}
	server := newTestServer(nil, redactions)

	body := bytes.NewBufferString(`{"type": "area", "coordinates": {"x": 1, "y": 2, "width": 3, "height": 4, "page": 1}}`)
	req := httptest.NewRequest("POST", "/api/v1/documents/missing/redactions", body)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestCreateRedaction_PersistenceError(t *testing.T) {
	redactions := &mockRedactionService{
		createFn: func(ctx context.Context, documentID string, req driving.CreateRedactionRequest) (*domain.Redaction, error) {
			return nil, fmt.Errorf("%w: store down", domain.ErrPersistence)
		},
	}
	server := newTestServer(nil, redactions)

	body := bytes.NewBufferString(`{"type": "area", "coordinates": {"x": 1, "y": 2, "width": 3, "height": 4, "page": 1}}`)
	req := httptest.NewRequest("POST", "/api/v1/documents/doc-1/redactions", body)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
}

func TestDeleteRedaction(t *testing.T) {
	redactions := &mockRedactionService{
		deleteFn: func(ctx context.Context, documentID, redactionID string) error {
			if documentID != "doc-1" || redactionID != "red-1" {
				t.Errorf("unexpected delete args: %s %s", documentID, redactionID)
			}
			return nil
		},
	}
	server := newTestServer(nil, redactions)

	req := httptest.NewRequest("DELETE", "/api/v1/documents/doc-1/redactions/red-1", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestDeleteRedaction_NotFound(t *testing.T) {
	redactions := &mockRedactionService{
		deleteFn: func(ctx context.Context, documentID, redactionID string) error {
			return domain.ErrNotFound
		},
	}
	server := newTestServer(nil, redactions)

	req := httptest.NewRequest("DELETE", "/api/v1/documents/doc-1/redactions/missing", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestDownload(t *testing.T) {
	pdfBytes := []byte("%PDF-1.7 fake")
	redactions := &mockRedactionService{
		exportFn: func(ctx context.Context, documentID string) (*driving.ExportResult, error) {
			return &driving.ExportResult{Filename: "Report_redacted.pdf", Data: pdfBytes}, nil
		},
	}
	server := newTestServer(nil, redactions)

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1/download", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected Content-Type application/pdf, got %s", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="Report_redacted.pdf"` {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
	if !bytes.Equal(rr.Body.Bytes(), pdfBytes) {
		t.Error("response body does not match rendered bytes")
	}
}

func TestDownload_SourceDocumentError(t *testing.T) {
	redactions := &mockRedactionService{
		exportFn: func(ctx context.Context, documentID string) (*driving.ExportResult, error) {
			return nil, fmt.Errorf("%w: truncated file", domain.ErrSourceDocument)
		},
	}
	server := newTestServer(nil, redactions)

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1/download", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	data := map[string]string{"foo": "bar"}
	writeJSON(rr, http.StatusCreated, data)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["foo"] != "bar" {
		t.Errorf("expected foo 'bar', got %s", response["foo"])
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "invalid input")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "invalid input" {
		t.Errorf("expected error 'invalid input', got %s", response["error"])
	}
}
