package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/absmach/flotilla/pkg/errors"
	"github.com/golang/snappy"
)

const artifactFile = "federated_model.json"

type fileStore struct {
	mu       sync.RWMutex
	path     string
	compress bool
}

// NewFileStore keeps the artifact as a JSON file under dir, optionally
// snappy-compressed. The file is written to a temp name and renamed so
// a crash mid-save leaves the previous artifact intact.
func NewFileStore(dir string, compress bool) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	return &fileStore{
		path:     filepath.Join(dir, artifactFile),
		compress: compress,
	}, nil
}

func (s *fileStore) Save(ctx context.Context, a Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if s.compress {
		data = snappy.Encode(nil, data)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace artifact file: %w", err)
	}

	return nil
}

func (s *fileStore) Load(ctx context.Context) (Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Artifact{}, errors.ErrNotFound
		}

		return Artifact{}, fmt.Errorf("failed to read artifact file: %w", err)
	}
	if s.compress {
		if data, err = snappy.Decode(nil, data); err != nil {
			return Artifact{}, fmt.Errorf("failed to decompress artifact: %w", err)
		}
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}

	return a, nil
}
