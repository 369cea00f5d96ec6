package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/custodia-labs/blackout/internal/core/domain"
	"github.com/custodia-labs/blackout/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error  string `json:"error" example:"invalid request body"`
	Reason string `json:"reason,omitempty" example:"invalid_field"`
	Field  string `json:"field,omitempty" example:"width"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and lock backend connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backend is unavailable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.lock != nil {
		if err := s.lock.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "lock backend unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Document endpoints

// handleListDocuments godoc
// @Summary      List documents
// @Description  Get all registered documents
// @Tags         Documents
// @Produce      json
// @Success      200  {array}   domain.Document
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documentService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if docs == nil {
		docs = []*domain.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// handleRegisterDocument godoc
// @Summary      Register document
// @Description  Register a PDF already present on disk and compute its page count
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      driving.RegisterDocumentRequest  true  "Document details"
// @Success      201      {object}  domain.Document
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      500      {object}  ErrorResponse  "Unreadable source document"
// @Router       /documents [post]
func (s *Server) handleRegisterDocument(w http.ResponseWriter, r *http.Request) {
	var req driving.RegisterDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.documentService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// handleGetDocument godoc
// @Summary      Get document
// @Description  Get a document by ID
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documentService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete document
// @Description  Delete a document and all its redactions
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documentService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Redaction endpoints

// handleListRedactions godoc
// @Summary      List redactions
// @Description  Get the redactions of a document, optionally restricted to one page
// @Tags         Redactions
// @Produce      json
// @Param        id    path      string  true   "Document ID"
// @Param        page  query     int     false  "1-based page number"
// @Success      200   {array}   domain.Redaction
// @Failure      400   {object}  ErrorResponse  "Invalid page parameter"
// @Failure      404   {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id}/redactions [get]
func (s *Server) handleListRedactions(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")

	var redactions []*domain.Redaction
	var err error

	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		page, convErr := strconv.Atoi(pageParam)
		if convErr != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		redactions, err = s.redactionService.ListByPage(r.Context(), documentID, page)
	} else {
		redactions, err = s.redactionService.ListByDocument(r.Context(), documentID)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if redactions == nil {
		redactions = []*domain.Redaction{}
	}
	writeJSON(w, http.StatusOK, redactions)
}

// handleCreateRedaction godoc
// @Summary      Create redaction
// @Description  Create a redaction on a document page. Accepts a flat single-rectangle payload or a multi-selection payload.
// @Tags         Redactions
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Document ID"
// @Param        request  body      driving.CreateRedactionRequest  true  "Redaction details"
// @Success      201      {object}  domain.Redaction
// @Failure      400      {object}  ErrorResponse  "Validation failed"
// @Failure      404      {object}  ErrorResponse  "Document not found"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id}/redactions [post]
func (s *Server) handleCreateRedaction(w http.ResponseWriter, r *http.Request) {
	var req driving.CreateRedactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	redaction, err := s.redactionService.Create(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, redaction)
}

// handleDeleteRedaction godoc
// @Summary      Delete redaction
// @Description  Delete one redaction of a document
// @Tags         Redactions
// @Produce      json
// @Param        id           path      string  true  "Document ID"
// @Param        redactionID  path      string  true  "Redaction ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "Document or redaction not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id}/redactions/{redactionID} [delete]
func (s *Server) handleDeleteRedaction(w http.ResponseWriter, r *http.Request) {
	err := s.redactionService.Delete(r.Context(), r.PathValue("id"), r.PathValue("redactionID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Export endpoint

// handleDownload godoc
// @Summary      Download redacted document
// @Description  Render the document with all its redactions burned in and return the PDF
// @Tags         Redactions
// @Produce      application/pdf
// @Param        id   path      string  true  "Document ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Render failed"
// @Router       /documents/{id}/download [get]
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	result, err := s.redactionService.Export(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// writeServiceError maps domain errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  verr.Error(),
			Reason: string(verr.Reason),
			Field:  verr.Field,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrSourceDocument):
		writeError(w, http.StatusInternalServerError, "source document unreadable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
