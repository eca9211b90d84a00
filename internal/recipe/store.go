package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound is returned when no recipe has the requested id.
	ErrNotFound = errors.New("recipe not found")
	// ErrInvalidDataset is returned when a dataset fails validation at load time.
	ErrInvalidDataset = errors.New("invalid recipe dataset")
)

// Store defines the interface for loading the recipe dataset. A dataset is
// read once at start-up and never written through this interface.
type Store interface {
	Load(ctx context.Context) (*Dataset, error)
}

// FileStore reads the static JSON dataset produced at build time.
type FileStore struct {
	path string
}

// NewFileStore creates a new FileStore.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads, decodes and validates the dataset file.
func (s *FileStore) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", s.path, err)
	}

	ds, err := DecodeDataset(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", s.path, err)
	}
	return ds, nil
}

// DecodeDataset unmarshals and validates a dataset document.
func DecodeDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}
	if ds.Recipes == nil {
		ds.Recipes = []Recipe{}
	}
	if err := Validate(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}
