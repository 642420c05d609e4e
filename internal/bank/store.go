package bank

import (
	"context"
	"errors"
)

// Store is the durable home of a Collection.
//
// Snapshot must complete before any overwrite action from the upload it
// is keyed by is applied to the stored collection; the ingest
// orchestrator enforces that ordering and treats a snapshot failure as
// fatal when a backup is mandatory.
type Store interface {
	// Load reads the full collection. A store with no prior data
	// returns an empty collection, not an error.
	Load(ctx context.Context) (*Collection, error)

	// Persist durably writes the collection.
	Persist(ctx context.Context, c *Collection) error

	// Snapshot saves the pre-mutation state of the collection keyed by
	// the upload about to mutate it, so overwrites stay reversible.
	Snapshot(ctx context.Context, uploadID string, c *Collection) error
}

// ErrPersistFailed wraps store write failures so callers can distinguish
// the one unrecoverable condition of an upload.
var ErrPersistFailed = errors.New("persist collection")

// ErrBackupFailed wraps snapshot failures that occur while a backup is
// mandatory (an overwrite action is pending).
var ErrBackupFailed = errors.New("backup collection")
