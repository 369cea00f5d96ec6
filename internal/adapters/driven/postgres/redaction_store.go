package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/blackout/internal/core/domain"
	"github.com/custodia-labs/blackout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.RedactionStore = (*RedactionStore)(nil)

// RedactionStore implements driven.RedactionStore using PostgreSQL.
// Boxes are stored as a JSONB array, one canonical shape for single- and
// multi-box redactions alike.
type RedactionStore struct {
	db *DB
}

// NewRedactionStore creates a new RedactionStore
func NewRedactionStore(db *DB) *RedactionStore {
	return &RedactionStore{db: db}
}

// Create persists a new redaction, assigning its identifier on commit.
// The insert is a single statement, so the append is atomic.
func (s *RedactionStore) Create(ctx context.Context, r *domain.Redaction) error {
	boxesJSON, err := json.Marshal(r.Boxes)
	if err != nil {
		return err
	}

	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()

	query := `
		INSERT INTO redactions (id, document_id, redaction_type, page, boxes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = s.db.ExecContext(ctx, query,
		r.ID,
		r.DocumentID,
		string(r.Type),
		r.Page,
		boxesJSON,
		r.CreatedAt,
	)
	if err != nil {
		r.ID = ""
		r.CreatedAt = time.Time{}
		return err
	}
	return nil
}

// Get retrieves one redaction scoped to a document
func (s *RedactionStore) Get(ctx context.Context, documentID, id string) (*domain.Redaction, error) {
	query := `
		SELECT id, document_id, redaction_type, page, boxes, created_at
		FROM redactions
		WHERE document_id = $1 AND id = $2
	`

	return s.scanRedaction(s.db.QueryRowContext(ctx, query, documentID, id))
}

func (s *RedactionStore) scanRedaction(row *sql.Row) (*domain.Redaction, error) {
	var r domain.Redaction
	var boxesJSON []byte

	err := row.Scan(
		&r.ID,
		&r.DocumentID,
		&r.Type,
		&r.Page,
		&boxesJSON,
		&r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(boxesJSON, &r.Boxes); err != nil {
		return nil, err
	}

	return &r, nil
}

// GetByDocument retrieves all redactions of a document, ordered by page then
// creation order
func (s *RedactionStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Redaction, error) {
	query := `
		SELECT id, document_id, redaction_type, page, boxes, created_at
		FROM redactions
		WHERE document_id = $1
		ORDER BY page ASC, created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanRedactions(rows)
}

// GetByDocumentAndPage retrieves the redactions of one page, in creation order
func (s *RedactionStore) GetByDocumentAndPage(ctx context.Context, documentID string, page int) ([]*domain.Redaction, error) {
	query := `
		SELECT id, document_id, redaction_type, page, boxes, created_at
		FROM redactions
		WHERE document_id = $1 AND page = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID, page)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanRedactions(rows)
}

func (s *RedactionStore) scanRedactions(rows *sql.Rows) ([]*domain.Redaction, error) {
	var redactions []*domain.Redaction
	for rows.Next() {
		var r domain.Redaction
		var boxesJSON []byte

		err := rows.Scan(
			&r.ID,
			&r.DocumentID,
			&r.Type,
			&r.Page,
			&boxesJSON,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(boxesJSON, &r.Boxes); err != nil {
			return nil, err
		}

		redactions = append(redactions, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return redactions, nil
}

// Delete removes a redaction and all its boxes as one unit
func (s *RedactionStore) Delete(ctx context.Context, documentID, id string) error {
	query := `DELETE FROM redactions WHERE document_id = $1 AND id = $2`
	result, err := s.db.ExecContext(ctx, query, documentID, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// DeleteByDocument removes all redactions of a document
func (s *RedactionStore) DeleteByDocument(ctx context.Context, documentID string) error {
	query := `DELETE FROM redactions WHERE document_id = $1`
	_, err := s.db.ExecContext(ctx, query, documentID)
	return err
}

// CountByDocument returns the redaction count for a document
func (s *RedactionStore) CountByDocument(ctx context.Context, documentID string) (int, error) {
	query := `SELECT COUNT(*) FROM redactions WHERE document_id = $1`
	var count int
	err := s.db.QueryRowContext(ctx, query, documentID).Scan(&count)
	return count, err
}
