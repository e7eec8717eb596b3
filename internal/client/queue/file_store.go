package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the backlog as a JSON file under one fixed path,
// the client-side equivalent of a single durable storage key.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]Submission, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backlog file: %w", err)
	}
	var subs []Submission
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("decode backlog file: %w", err)
	}
	return subs, nil
}

func (s *FileStore) Save(subs []Submission) error {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backlog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create backlog dir: %w", err)
	}
	// Write-then-rename keeps the backlog intact if we crash mid-save.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write backlog file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace backlog file: %w", err)
	}
	return nil
}
