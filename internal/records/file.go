package records

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/screening"
)

// FileStore appends one JSON document per line.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ screening.RecordStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Append(ctx context.Context, record *screening.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create record directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open record file %q: %w", s.path, err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("write record %s: %w", record.ID, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close record file %q: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
