package question

import (
	"reflect"
	"strings"
	"testing"
)

func TestConvertRow(t *testing.T) {
	tests := []struct {
		name        string
		row         []string // name,value pairs
		want        Candidate
		wantErr     bool
		errContains string
	}{
		{
			name: "multiple choice with letter answer",
			row: []string{
				"question", "What is Go?",
				"option_a", "A language",
				"option_b", "A board game",
				"correct_answer", "A",
				"category", "Programming",
				"difficulty", "Easy",
				"points", "5",
				"time_limit", "20",
			},
			want: Candidate{
				Text:         "What is Go?",
				Options:      []string{"A language", "A board game"},
				Answer:       "A language",
				Type:         "multiple_choice",
				Category:     "Programming",
				Difficulty:   "Easy",
				Points:       5,
				TimeLimitSec: 20,
			},
		},
		{
			name: "one-based index answer",
			row: []string{
				"question", "Q", "option_a", "first", "option_b", "second",
				"correct_answer", "2",
			},
			want: Candidate{
				Text:         "Q",
				Options:      []string{"first", "second"},
				Answer:       "second",
				Type:         "multiple_choice",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name: "answer by option text",
			row: []string{
				"question", "Q", "option_a", "yes", "option_b", "no",
				"correct_answer", "NO",
			},
			want: Candidate{
				Text:         "Q",
				Options:      []string{"yes", "no"},
				Answer:       "no",
				Type:         "multiple_choice",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name: "short answer without options",
			row: []string{
				"question", "Capital of France?",
				"correct_answer", "Paris",
			},
			want: Candidate{
				Text:         "Capital of France?",
				Answer:       "Paris",
				Type:         "short_answer",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name: "answer column accepted as fallback",
			row: []string{
				"question", "Q", "answer", "42",
			},
			want: Candidate{
				Text:         "Q",
				Answer:       "42",
				Type:         "short_answer",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name: "blank option cells dropped",
			row: []string{
				"question", "Q",
				"option_a", "first", "option_b", "  ", "option_c", "third",
				"correct_answer", "third",
			},
			want: Candidate{
				Text:         "Q",
				Options:      []string{"first", "third"},
				Answer:       "third",
				Type:         "multiple_choice",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name: "explicit type wins over inference",
			row: []string{
				"question", "Go is compiled.",
				"option_a", "True", "option_b", "False",
				"correct_answer", "A",
				"type", "true_false",
			},
			want: Candidate{
				Text:         "Go is compiled.",
				Options:      []string{"True", "False"},
				Answer:       "True",
				Type:         "true_false",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name: "non-numeric points falls back to default",
			row: []string{
				"question", "Q", "answer", "A", "points", "lots",
			},
			want: Candidate{
				Text:         "Q",
				Answer:       "A",
				Type:         "short_answer",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name: "numeric option text matched over index reading",
			row: []string{
				"question", "Q", "option_a", "5", "option_b", "7",
				"correct_answer", "5",
			},
			want: Candidate{
				Text:         "Q",
				Options:      []string{"5", "7"},
				Answer:       "5",
				Type:         "multiple_choice",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name: "valid index wins over numeric option text",
			row: []string{
				"question", "Q", "option_a", "2", "option_b", "5",
				"correct_answer", "2",
			},
			want: Candidate{
				Text:         "Q",
				Options:      []string{"2", "5"},
				Answer:       "5",
				Type:         "multiple_choice",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name: "letter option text matched when letter is out of range",
			row: []string{
				"question", "Q", "option_a", "C", "option_b", "D",
				"correct_answer", "D",
			},
			want: Candidate{
				Text:         "Q",
				Options:      []string{"C", "D"},
				Answer:       "D",
				Type:         "multiple_choice",
				Category:     DefaultCategory,
				Difficulty:   DefaultDifficulty,
				Points:       DefaultPoints,
				TimeLimitSec: DefaultTimeLimitSec,
			},
		},
		{
			name:        "empty question text rejected",
			row:         []string{"question", "  ", "correct_answer", "A"},
			wantErr:     true,
			errContains: "question text",
		},
		{
			name: "answer letter past the option list rejected",
			row: []string{
				"question", "Q", "option_a", "first", "option_b", "second",
				"correct_answer", "D",
			},
			wantErr:     true,
			errContains: "does not reference",
		},
		{
			name: "answer index past the option list rejected",
			row: []string{
				"question", "Q", "option_a", "first",
				"correct_answer", "3",
			},
			wantErr:     true,
			errContains: "does not reference",
		},
		{
			name: "answer not matching any option rejected",
			row: []string{
				"question", "Q", "option_a", "first", "option_b", "second",
				"correct_answer", "something else",
			},
			wantErr:     true,
			errContains: "does not reference",
		},
		{
			name: "empty answer with options rejected",
			row: []string{
				"question", "Q", "option_a", "first", "option_b", "second",
			},
			wantErr:     true,
			errContains: "correct answer is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertRow(makeRow(2, tt.row...))

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ConvertRow() error = nil, want error")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("ConvertRow() error = %q, want containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConvertRow() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ConvertRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
