package ingest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/quizforge/server/internal/bank"
	"github.com/quizforge/server/internal/question"
)

func newTestProcessor() *Processor {
	n := 0
	return &Processor{
		Resolver: question.TextEquality{},
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Now: func() time.Time {
			return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func csvFile(name, content string) FileUpload {
	return FileUpload{Name: name, Data: []byte(content)}
}

func TestProcessFileBasic(t *testing.T) {
	proc := newTestProcessor()
	col := &bank.Collection{}

	file := csvFile("quiz.csv",
		"question,option_a,option_b,correct_answer\n"+
			"Q1,yes,no,A\n"+
			"Q2,yes,no,B\n")

	detail := proc.ProcessFile(file, Options{MergeStrategy: question.StrategySkip}, "up-1", col)

	if detail.Processed != 2 || detail.Added != 2 || detail.Updated != 0 || detail.Skipped != 0 {
		t.Errorf("detail = %+v, want processed 2 added 2", detail)
	}
	if len(detail.Errors) != 0 {
		t.Errorf("errors = %v, want none", detail.Errors)
	}
	if col.Len() != 2 {
		t.Fatalf("collection size = %d, want 2", col.Len())
	}

	q := col.Questions[0]
	if q.Source.UploadID != "up-1" || q.Source.FileName != "quiz.csv" {
		t.Errorf("source = %+v, want upload and file recorded", q.Source)
	}
}

func TestProcessFileEmptyInput(t *testing.T) {
	proc := newTestProcessor()
	col := &bank.Collection{}

	detail := proc.ProcessFile(csvFile("empty.csv", ""), Options{}, "up-1", col)

	if len(detail.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", detail.Errors)
	}
	if detail.Errors[0].Row != 0 {
		t.Errorf("error row = %d, want 0 for a file-level error", detail.Errors[0].Row)
	}
	if detail.Processed != 0 || col.Len() != 0 {
		t.Errorf("empty file must not contribute rows: detail %+v, collection %d", detail, col.Len())
	}
}

func TestProcessFileHeadersMap(t *testing.T) {
	proc := newTestProcessor()
	col := &bank.Collection{}

	file := csvFile("quiz.csv", "Frage,Antwort\nQ1,A1\n")
	opts := Options{
		HeadersMap: map[string]string{"frage": "question", "antwort": "correct_answer"},
		Preset:     "short_answer",
	}

	detail := proc.ProcessFile(file, opts, "up-1", col)

	if detail.Added != 1 || len(detail.Errors) != 0 {
		t.Fatalf("detail = %+v, want one clean add", detail)
	}
	if got := col.Questions[0].Answer; got != "A1" {
		t.Errorf("answer = %q, want mapped correct_answer value", got)
	}
}

func TestProcessFileMissingHeaders(t *testing.T) {
	file := csvFile("quiz.csv", "question\nQ1\nQ2\n")
	opts := func(s Strictness) Options {
		return Options{Preset: "multiple_choice", Strictness: s}
	}

	t.Run("lenient records error and continues", func(t *testing.T) {
		proc := newTestProcessor()
		col := &bank.Collection{}

		detail := proc.ProcessFile(file, opts(StrictnessLenient), "up-1", col)

		var headerErr bool
		for _, e := range detail.Errors {
			if strings.Contains(e.Message, "missing required headers") {
				headerErr = true
			}
		}
		if !headerErr {
			t.Errorf("errors = %v, want a missing-headers entry", detail.Errors)
		}
		// Rows still flow through conversion after the header error.
		if detail.Processed != 2 {
			t.Errorf("processed = %d, want 2", detail.Processed)
		}
		if detail.Added != 2 {
			t.Errorf("added = %d, want 2 (rows without options still convert)", detail.Added)
		}
	})

	t.Run("strict contributes nothing but the diagnostic", func(t *testing.T) {
		proc := newTestProcessor()
		col := &bank.Collection{}

		detail := proc.ProcessFile(file, opts(StrictnessStrict), "up-1", col)

		if len(detail.Errors) != 1 || !strings.Contains(detail.Errors[0].Message, "missing required headers") {
			t.Fatalf("errors = %v, want single missing-headers entry", detail.Errors)
		}
		if detail.Processed != 0 || detail.Added != 0 || col.Len() != 0 {
			t.Errorf("strict header failure must not mutate: detail %+v, collection %d", detail, col.Len())
		}
	})
}

func TestProcessFileLenientRowErrors(t *testing.T) {
	proc := newTestProcessor()
	col := &bank.Collection{}

	file := csvFile("quiz.csv",
		"question,option_a,option_b,correct_answer\n"+
			"Q1,yes,no,A\n"+
			",yes,no,A\n"+ // empty question text
			"Q3,yes,no,Z\n"+ // unresolvable answer
			"Q4,yes,no,B\n")

	detail := proc.ProcessFile(file, Options{}, "up-1", col)

	if detail.Processed != 4 {
		t.Errorf("processed = %d, want 4 (every attempted row)", detail.Processed)
	}
	if detail.Added != 2 {
		t.Errorf("added = %d, want 2", detail.Added)
	}
	if len(detail.Errors) != 2 {
		t.Errorf("errors = %v, want 2 row errors", detail.Errors)
	}
	for _, e := range detail.Errors {
		if e.Row == 0 {
			t.Errorf("row error carries no line number: %+v", e)
		}
	}
}

func TestProcessFileMalformedRowsCountAsProcessed(t *testing.T) {
	proc := newTestProcessor()
	col := &bank.Collection{}

	file := csvFile("quiz.csv",
		"question,correct_answer\n"+
			"Q1,A1\n"+
			"Q2,A2,extra\n")

	detail := proc.ProcessFile(file, Options{}, "up-1", col)

	if detail.Processed != 2 {
		t.Errorf("processed = %d, want 2 (malformed row included)", detail.Processed)
	}
	if detail.Added != 1 || len(detail.Errors) != 1 {
		t.Errorf("detail = %+v, want one add and one error", detail)
	}
}

func TestProcessFileStrictRollback(t *testing.T) {
	proc := newTestProcessor()
	col := &bank.Collection{}
	seed := question.Question{ID: "seed", Text: "Existing question", Answer: "old"}
	col.Add(seed)

	// Second row overwrites the seed, third row fails: everything this
	// file did must be undone.
	file := csvFile("quiz.csv",
		"question,correct_answer\n"+
			"New question,A1\n"+
			"Existing question,new answer\n"+
			",broken\n")

	opts := Options{MergeStrategy: question.StrategyOverwrite, Strictness: StrictnessStrict}
	detail := proc.ProcessFile(file, opts, "up-1", col)

	if len(detail.Errors) != 1 {
		t.Fatalf("errors = %v, want single fatal error", detail.Errors)
	}
	if detail.Added != 0 || detail.Updated != 0 {
		t.Errorf("detail = %+v, want no reported mutations", detail)
	}
	if col.Len() != 1 {
		t.Fatalf("collection size = %d, want 1 after rollback", col.Len())
	}
	if got := col.Questions[0]; got.ID != "seed" || got.Answer != "old" {
		t.Errorf("seed question = %+v, want original restored", got)
	}
}

func TestProcessFileDuplicatesAcrossRows(t *testing.T) {
	proc := newTestProcessor()
	col := &bank.Collection{}

	// Second row duplicates the first within the same file.
	file := csvFile("quiz.csv",
		"question,correct_answer\n"+
			"Q1,A1\n"+
			"q1,A2\n")

	detail := proc.ProcessFile(file, Options{MergeStrategy: question.StrategySkip}, "up-1", col)

	if detail.Added != 1 || detail.Skipped != 1 {
		t.Errorf("detail = %+v, want added 1 skipped 1", detail)
	}
}
