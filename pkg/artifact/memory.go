package artifact

import (
	"context"
	"sync"

	"github.com/absmach/flotilla/pkg/errors"
)

type memoryStore struct {
	mu    sync.RWMutex
	slot  Artifact
	saved bool
}

func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Save(ctx context.Context, a Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot = a
	s.saved = true

	return nil
}

func (s *memoryStore) Load(ctx context.Context) (Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return Artifact{}, errors.ErrNotFound
	}

	return s.slot, nil
}
