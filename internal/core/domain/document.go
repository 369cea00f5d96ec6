package domain

import "time"

// Document represents an uploaded PDF source file.
// The file itself is immutable once registered; only its redactions change.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	FilePath  string    `json:"file_path"` // path of the source PDF on disk
	PageCount int       `json:"page_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
