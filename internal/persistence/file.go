package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
)

// FileStore keeps the snapshot in a single JSON document on disk.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore builds a store writing to the given path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the document. A missing file or malformed JSON yields the
// empty snapshot rather than an error.
func (s *FileStore) Load(_ context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("unreadable snapshot file, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return domain.NewSnapshot(), nil
	}
	snap := domain.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		s.logger.Warn("corrupt snapshot file, starting empty", zap.String("path", s.path), zap.Error(err))
		return domain.NewSnapshot(), nil
	}
	return snap, nil
}

// Save writes the document atomically via a temp file rename.
func (s *FileStore) Save(_ context.Context, snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Ping verifies the target directory is reachable.
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	_, err := os.Stat(dir)
	return err
}

// Close is a no-op for file storage.
func (s *FileStore) Close() {}
