// Package question holds the quiz question data model and the pure
// transformation stages of the import pipeline: header mapping, header
// validation, row conversion, duplicate resolution, and merge strategies.
// Nothing in this package touches storage or HTTP.
package question

import "time"

// Source records where a question entered the system.
type Source struct {
	UploadID string `json:"uploadId,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// Candidate is the structured result of converting one canonical row.
// It has no identity yet; the merge engine decides whether it becomes a
// new Question or folds into an existing one.
type Candidate struct {
	Text         string
	Options      []string
	Answer       string // resolved correct answer text
	Type         string
	Category     string
	Difficulty   string
	Explanation  string
	Points       int
	TimeLimitSec int
	Owner        string
	Source       Source
}

// Question is a persisted entity: a Candidate plus a stable identifier
// assigned at first persistence and never reassigned.
type Question struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Options      []string  `json:"options,omitempty"`
	Answer       string    `json:"answer"`
	Type         string    `json:"type"`
	Category     string    `json:"category"`
	Difficulty   string    `json:"difficulty"`
	Explanation  string    `json:"explanation,omitempty"`
	Points       int       `json:"points"`
	TimeLimitSec int       `json:"timeLimitSec"`
	Owner        string    `json:"owner,omitempty"`
	Source       Source    `json:"source"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromCandidate builds a new Question from a candidate. The caller
// supplies the identifier so ID strategy stays out of this package.
func FromCandidate(c Candidate, id string, now time.Time) Question {
	return Question{
		ID:           id,
		Text:         c.Text,
		Options:      c.Options,
		Answer:       c.Answer,
		Type:         c.Type,
		Category:     c.Category,
		Difficulty:   c.Difficulty,
		Explanation:  c.Explanation,
		Points:       c.Points,
		TimeLimitSec: c.TimeLimitSec,
		Owner:        c.Owner,
		Source:       c.Source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Merge folds a candidate's fields into an existing question, preserving
// the existing identifier and creation time.
func (q Question) Merge(c Candidate, now time.Time) Question {
	merged := FromCandidate(c, q.ID, now)
	merged.CreatedAt = q.CreatedAt
	return merged
}
