package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const collectionFile = "questions.json"

// FileStore persists the collection as a single JSON document on disk.
// Writes go through a temp file followed by rename so a crash mid-write
// never leaves a truncated collection behind.
type FileStore struct {
	dataDir   string
	backupDir string
}

// NewFileStore creates the data and backup directories if needed.
func NewFileStore(dataDir, backupDir string) (*FileStore, error) {
	for _, dir := range []string{dataDir, backupDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return &FileStore{dataDir: dataDir, backupDir: backupDir}, nil
}

// Load reads questions.json, returning an empty collection when the file
// does not exist yet.
func (s *FileStore) Load(_ context.Context) (*Collection, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return &Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}

	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return &c, nil
}

// Persist writes the collection atomically.
func (s *FileStore) Persist(_ context.Context, c *Collection) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistFailed, err)
	}

	tmp, err := os.CreateTemp(s.dataDir, collectionFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	if err := os.Rename(tmpName, s.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}

// Snapshot writes the pre-mutation collection to
// <backup dir>/questions-<uploadID>.json.
func (s *FileStore) Snapshot(_ context.Context, uploadID string, c *Collection) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrBackupFailed, err)
	}

	name := fmt.Sprintf("questions-%s.json", uploadID)
	if err := os.WriteFile(filepath.Join(s.backupDir, name), data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrBackupFailed, err)
	}
	return nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dataDir, collectionFile)
}
