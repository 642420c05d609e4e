package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/server/internal/bank"
	"github.com/quizforge/server/internal/question"
)

// Result is the aggregate outcome of one upload.
type Result struct {
	UploadID       string            `json:"uploadId"`
	Summary        bank.Summary      `json:"summary"`
	DetailsPerFile []bank.FileDetail `json:"detailsPerFile"`
}

// Orchestrator is the top-level import entry point. It loads the
// collection, snapshots it when an overwrite is pending, runs the file
// processor over every input file in order, persists the result, and
// appends the upload record.
//
// Orchestrations against the same store must not interleave; the Service
// facade enforces that with a lock.
type Orchestrator struct {
	Store    bank.Store
	Resolver question.DuplicateResolver
	NewID    func() string
	Now      func() time.Time
}

// NewOrchestrator wires an orchestrator with production defaults:
// UUID identifiers and wall-clock time.
func NewOrchestrator(store bank.Store, resolver question.DuplicateResolver) *Orchestrator {
	return &Orchestrator{
		Store:    store,
		Resolver: resolver,
		NewID:    uuid.NewString,
		Now:      time.Now,
	}
}

// Run executes one upload over a batch of files.
//
// Row- and file-level problems are captured as data in the result;
// only two conditions surface as an error: a backup failure while an
// overwrite is pending, and a persistence failure after merging. Either
// aborts the upload with no partial success reported.
func (o *Orchestrator) Run(ctx context.Context, files []FileUpload, opts Options) (*Result, error) {
	uploadID := o.NewID()

	col, err := o.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}

	// Overwrite can destroy existing data, so the pre-mutation state
	// must be on durable storage before the first merge is applied.
	if opts.MergeStrategy == question.StrategyOverwrite {
		if err := o.Store.Snapshot(ctx, uploadID, col); err != nil {
			return nil, err
		}
	}

	proc := &Processor{Resolver: o.Resolver, NewID: o.NewID, Now: o.Now}

	result := &Result{
		UploadID: uploadID,
		Summary:  bank.Summary{Errors: []bank.ImportError{}},
	}

	// Files are processed sequentially, in input order: duplicate
	// resolution for file N must see additions made by files before it
	// in the same upload.
	for _, file := range files {
		detail := proc.ProcessFile(file, opts, uploadID, col)
		result.DetailsPerFile = append(result.DetailsPerFile, detail)
		result.Summary.Accumulate(detail)
	}

	col.AppendUpload(bank.UploadRecord{
		ID:        uploadID,
		Timestamp: o.Now(),
		Owner:     opts.Owner,
		Files:     result.DetailsPerFile,
		Summary:   result.Summary,
	})

	if err := o.Store.Persist(ctx, col); err != nil {
		return nil, err
	}

	return result, nil
}
