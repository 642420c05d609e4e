// Package bank owns the persisted question collection: the questions
// themselves, the append-only upload log, and the stores that load,
// persist, and snapshot them.
package bank

import (
	"time"

	"github.com/quizforge/server/internal/question"
)

// ImportError describes one recoverable problem encountered during an
// import: either a whole-file failure (Row == 0) or a single bad row.
type ImportError struct {
	File    string `json:"file"`
	Row     int    `json:"row,omitempty"` // 1-indexed source line; 0 for file-level errors
	Message string `json:"message"`
}

// FileDetail is the immutable per-file outcome of an import.
type FileDetail struct {
	FileName  string        `json:"fileName"`
	Processed int           `json:"processed"`
	Added     int           `json:"added"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	Errors    []ImportError `json:"errors,omitempty"`
}

// Summary aggregates per-file outcomes across one upload.
type Summary struct {
	Processed int           `json:"processed"`
	Added     int           `json:"added"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	Errors    []ImportError `json:"errors"`
}

// Accumulate folds a file's outcome into the running summary.
func (s *Summary) Accumulate(d FileDetail) {
	s.Processed += d.Processed
	s.Added += d.Added
	s.Updated += d.Updated
	s.Skipped += d.Skipped
	s.Errors = append(s.Errors, d.Errors...)
}

// UploadRecord is one entry of the append-only upload log. Never mutated
// after creation.
type UploadRecord struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Owner     string       `json:"owner,omitempty"`
	Files     []FileDetail `json:"files"`
	Summary   Summary      `json:"summary"`
}

// Collection is the full set of persisted questions plus the upload log.
// It is shared mutable state: exactly one orchestration may mutate it at
// a time (the ingest service serializes callers).
type Collection struct {
	Questions []question.Question `json:"questions"`
	Uploads   []UploadRecord      `json:"uploads"`
}

// Add appends a question to the collection.
func (c *Collection) Add(q question.Question) {
	c.Questions = append(c.Questions, q)
}

// Update replaces the question with the same identifier in place.
// Returns false if no question carries that identifier.
func (c *Collection) Update(q question.Question) bool {
	for i := range c.Questions {
		if c.Questions[i].ID == q.ID {
			c.Questions[i] = q
			return true
		}
	}
	return false
}

// AppendUpload appends a record to the upload log.
func (c *Collection) AppendUpload(rec UploadRecord) {
	c.Uploads = append(c.Uploads, rec)
}

// Len returns the number of persisted questions.
func (c *Collection) Len() int { return len(c.Questions) }
