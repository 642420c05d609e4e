package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quizforge/server/internal/bank"
	"github.com/quizforge/server/internal/question"
	"github.com/quizforge/server/internal/tabular"
)

// FileUpload is one already-read input file: the core never touches the
// filesystem or the network to obtain content.
type FileUpload struct {
	Name string
	Data []byte
}

// Processor runs the pipeline for a single file: parse, map headers,
// validate, convert, resolve duplicates, merge. Mutations are applied to
// the collection the caller passes in; under strict mode they are rolled
// back if the file fails partway.
type Processor struct {
	Resolver question.DuplicateResolver
	NewID    func() string
	Now      func() time.Time
}

// ProcessFile runs one file through the pipeline and returns its
// immutable outcome record. The collection is mutated in place so later
// files (and later rows of this file) see earlier additions during
// duplicate resolution.
func (p *Processor) ProcessFile(file FileUpload, opts Options, uploadID string, col *bank.Collection) bank.FileDetail {
	detail := bank.FileDetail{FileName: file.Name}
	strict := opts.Strictness == StrictnessStrict

	table, err := tabular.Parse(file.Data, strict)
	if err != nil {
		msg := "no data rows"
		if !errors.Is(err, tabular.ErrNoData) {
			msg = err.Error()
		}
		detail.Errors = append(detail.Errors, bank.ImportError{File: file.Name, Message: msg})
		return detail
	}

	// Malformed rows survive parsing only under lenient mode; they count
	// as processed so the summary reflects every attempted data row.
	for _, issue := range table.Issues {
		detail.Processed++
		detail.Errors = append(detail.Errors, bank.ImportError{
			File:    file.Name,
			Row:     issue.Line,
			Message: issue.Message,
		})
	}

	headers, rows := question.ApplyHeadersMap(table.Rows, opts.HeadersMap)

	if len(rows) > 0 {
		required := question.PresetRequiredHeaders(opts.Preset)
		if ok, missing := question.ValidateHeaders(headers, required); !ok {
			headerErr := bank.ImportError{
				File:    file.Name,
				Message: fmt.Sprintf("missing required headers: %s", strings.Join(missing, ", ")),
			}
			if strict {
				// All-or-nothing: the file contributes nothing but its
				// fatal diagnostic.
				return bank.FileDetail{FileName: file.Name, Errors: []bank.ImportError{headerErr}}
			}
			detail.Errors = append(detail.Errors, headerErr)
		}
	}

	// Undo state for strict mode: adds are appended at the collection's
	// tail, overwrites replace pre-existing entries we keep copies of.
	baseLen := col.Len()
	var replaced []question.Question

	for _, row := range rows {
		detail.Processed++

		candidate, err := question.ConvertRow(row)
		if err != nil {
			rowErr := bank.ImportError{File: file.Name, Row: row.Line, Message: err.Error()}
			if strict {
				p.rollback(col, baseLen, replaced)
				return bank.FileDetail{FileName: file.Name, Errors: []bank.ImportError{rowErr}}
			}
			detail.Errors = append(detail.Errors, rowErr)
			continue
		}

		candidate.Owner = opts.Owner
		candidate.Source = question.Source{UploadID: uploadID, FileName: file.Name}

		existing := p.Resolver.FindDuplicate(candidate, col.Questions)
		q, action := question.ApplyStrategy(candidate, existing, opts.MergeStrategy, p.NewID(), p.Now())

		switch action {
		case question.ActionAdded:
			col.Add(*q)
			detail.Added++
		case question.ActionUpdated:
			replaced = append(replaced, *existing)
			col.Update(*q)
			detail.Updated++
		case question.ActionSkipped:
			detail.Skipped++
		}
	}

	return detail
}

// rollback discards this file's mutations: truncate the appended tail,
// then restore any overwritten entries.
func (p *Processor) rollback(col *bank.Collection, baseLen int, replaced []question.Question) {
	col.Questions = col.Questions[:baseLen]
	for _, orig := range replaced {
		col.Update(orig)
	}
}
