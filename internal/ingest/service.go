package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/quizforge/server/internal/bank"
	"github.com/quizforge/server/internal/question"
)

// ErrUploadInProgress is returned when an import is requested while
// another upload against the same collection is still running. The
// collection supports exactly one writer at a time.
var ErrUploadInProgress = errors.New("another upload is in progress")

// Service is the public facade over the import pipeline. It owns the
// serialization discipline: the collection is a single critical section
// for the duration of one upload, and the service is the lock that
// makes that explicit.
type Service struct {
	mu    sync.Mutex
	store bank.Store
	orch  *Orchestrator
}

// NewService wires a service over a store with the given duplicate
// policy.
func NewService(store bank.Store, resolver question.DuplicateResolver) *Service {
	return &Service{
		store: store,
		orch:  NewOrchestrator(store, resolver),
	}
}

// Import runs one upload over a batch of files. Concurrent calls against
// the same service fail fast with ErrUploadInProgress rather than
// queueing: upload batches are operator-triggered and the caller should
// see contention, not silent waiting.
func (s *Service) Import(ctx context.Context, files []FileUpload, opts Options) (*Result, error) {
	if !s.mu.TryLock() {
		return nil, ErrUploadInProgress
	}
	defer s.mu.Unlock()

	logger := slog.Default().With("files", len(files), "strategy", string(opts.MergeStrategy))
	logger.Info("import started")

	result, err := s.orch.Run(ctx, files, opts)
	if err != nil {
		logger.Error("import failed", "error", err)
		return nil, err
	}

	logger.Info("import finished",
		"upload_id", result.UploadID,
		"processed", result.Summary.Processed,
		"added", result.Summary.Added,
		"updated", result.Summary.Updated,
		"skipped", result.Summary.Skipped,
		"errors", len(result.Summary.Errors),
	)
	return result, nil
}

// Stats is a read-only view of collection size and composition.
type Stats struct {
	Total        int            `json:"total"`
	ByCategory   map[string]int `json:"byCategory"`
	ByDifficulty map[string]int `json:"byDifficulty"`
	ByType       map[string]int `json:"byType"`
	Uploads      int            `json:"uploads"`
}

// Stats summarizes the stored collection.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	col, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:        col.Len(),
		ByCategory:   map[string]int{},
		ByDifficulty: map[string]int{},
		ByType:       map[string]int{},
		Uploads:      len(col.Uploads),
	}
	for _, q := range col.Questions {
		stats.ByCategory[q.Category]++
		stats.ByDifficulty[q.Difficulty]++
		stats.ByType[q.Type]++
	}
	return stats, nil
}

// Questions returns every stored question in collection order.
func (s *Service) Questions(ctx context.Context) ([]question.Question, error) {
	col, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return col.Questions, nil
}

// Uploads returns the upload log, most recent first.
func (s *Service) Uploads(ctx context.Context) ([]bank.UploadRecord, error) {
	col, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	uploads := make([]bank.UploadRecord, len(col.Uploads))
	copy(uploads, col.Uploads)
	sort.SliceStable(uploads, func(i, j int) bool {
		return uploads[i].Timestamp.After(uploads[j].Timestamp)
	})
	return uploads, nil
}
