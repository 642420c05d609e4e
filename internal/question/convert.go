package question

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quizforge/server/internal/tabular"
)

// Defaults applied when a canonical row omits optional metadata.
const (
	DefaultCategory     = "General"
	DefaultDifficulty   = "Medium"
	DefaultPoints       = 10
	DefaultTimeLimitSec = 30
)

// optionColumns lists the canonical option fields in display order.
var optionColumns = []string{"option_a", "option_b", "option_c", "option_d", "option_e", "option_f"}

// ConvertRow maps one canonical row into a Candidate.
//
// The single unconditional structural requirement is non-empty question
// text. When the row carries options, its correct-answer marker must
// resolve against them (by letter, 1-based index, or exact option text);
// an unresolvable marker is an error. Every other missing field degrades
// to a documented default so partial data never blocks an otherwise
// valid question.
func ConvertRow(row tabular.Row) (Candidate, error) {
	text, _ := row.Get("question")
	if strings.TrimSpace(text) == "" {
		return Candidate{}, fmt.Errorf("question text is empty")
	}

	// Only non-empty option cells are retained, preserving column order.
	var options []string
	for _, col := range optionColumns {
		if v, ok := row.Get(col); ok && strings.TrimSpace(v) != "" {
			options = append(options, strings.TrimSpace(v))
		}
	}

	answerRaw, _ := row.Get("correct_answer")
	if answerRaw == "" {
		answerRaw, _ = row.Get("answer")
	}

	answer := strings.TrimSpace(answerRaw)
	if len(options) > 0 {
		idx, err := resolveAnswer(answer, options)
		if err != nil {
			return Candidate{}, err
		}
		answer = options[idx]
	}

	c := Candidate{
		Text:         strings.TrimSpace(text),
		Options:      options,
		Answer:       answer,
		Type:         rowString(row, "type", inferType(options)),
		Category:     rowString(row, "category", DefaultCategory),
		Difficulty:   rowString(row, "difficulty", DefaultDifficulty),
		Explanation:  rowString(row, "explanation", ""),
		Points:       rowInt(row, "points", DefaultPoints),
		TimeLimitSec: rowInt(row, "time_limit", DefaultTimeLimitSec),
	}

	return c, nil
}

// resolveAnswer maps a correct-answer marker to a 0-based option index.
// Accepted forms, tried in order: option letter ("A".."F"), 1-based
// index ("1".."6"), the option text itself (case-insensitive). A letter
// or index pointing past the option list is not fatal on its own; the
// marker still gets the text comparison, so an option whose literal
// text is "5" stays selectable.
func resolveAnswer(marker string, options []string) (int, error) {
	if marker == "" {
		return 0, fmt.Errorf("correct answer is empty but %d options are present", len(options))
	}

	if len(marker) == 1 {
		upper := strings.ToUpper(marker)
		if upper[0] >= 'A' && upper[0] <= 'Z' {
			if idx := int(upper[0] - 'A'); idx < len(options) {
				return idx, nil
			}
		}
	}

	if n, err := strconv.Atoi(marker); err == nil && n >= 1 && n <= len(options) {
		return n - 1, nil
	}

	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), marker) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("correct answer %q does not reference any option", marker)
}

// inferType guesses a question type when the row has no type column.
func inferType(options []string) string {
	switch {
	case len(options) >= 2:
		return "multiple_choice"
	default:
		return "short_answer"
	}
}

func rowString(row tabular.Row, col, fallback string) string {
	if v, ok := row.Get(col); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func rowInt(row tabular.Row, col string, fallback int) int {
	v, ok := row.Get(col)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
