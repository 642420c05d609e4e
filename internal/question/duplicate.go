package question

import "strings"

// DuplicateResolver decides whether a candidate is equivalent to an
// already-persisted question. The equivalence policy is deliberately
// injectable: callers must not assume which fields participate beyond
// what the chosen implementation documents.
//
// FindDuplicate must be deterministic for a given policy and must return
// the first matching question in the collection's iteration order.
type DuplicateResolver interface {
	FindDuplicate(c Candidate, existing []Question) *Question
}

// TextEquality is the reference duplicate policy: two questions are
// equivalent when their trimmed question text matches case-insensitively.
type TextEquality struct{}

// FindDuplicate returns the first question whose text matches the
// candidate's under the trimmed case-insensitive policy, or nil.
func (TextEquality) FindDuplicate(c Candidate, existing []Question) *Question {
	want := normalizeText(c.Text)
	for i := range existing {
		if normalizeText(existing[i].Text) == want {
			return &existing[i]
		}
	}
	return nil
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
