package panel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"lightd/internal/common/fsutil"
	"lightd/pkg/types"
)

// SaveFile writes the serialized store to path as indented JSON.
func (s *Session) SaveFile(path string) error {
	if path == "" {
		return nil
	}
	doc := s.Serialize()
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write state %s: %w", path, err)
	}
	return nil
}

// LoadFile restores the store from a file written by SaveFile. A missing file
// is not an error; it reports false and keeps the current store.
func (s *Session) LoadFile(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open state %s: %w", path, err)
	}
	defer f.Close()
	var doc types.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return false, fmt.Errorf("decode state %s: %w", path, err)
	}
	return s.Restore(doc), nil
}
