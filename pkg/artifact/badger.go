package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pkgerrors "github.com/absmach/flotilla/pkg/errors"
	"github.com/dgraph-io/badger/v4"
)

var (
	ErrDBConnection = errors.New("badger database connection error")
	ErrDBQuery      = errors.New("database query error")
	ErrUpdate       = errors.New("update error")
)

var artifactKey = []byte("artifact/latest")

type badgerStore struct {
	db *badger.DB
}

// NewBadgerStore keeps the artifact slot in an embedded badger database
// at path. Close releases the database.
func NewBadgerStore(path string) (Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}

	return &badgerStore{db: db}, nil
}

func (s *badgerStore) Save(ctx context.Context, a Artifact) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(artifactKey, data)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpdate, err)
	}

	return nil
}

func (s *badgerStore) Load(ctx context.Context) (Artifact, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(artifactKey)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)

		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return Artifact{}, pkgerrors.ErrNotFound
		}

		return Artifact{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	var a Artifact
	if err := json.Unmarshal(val, &a); err != nil {
		return Artifact{}, err
	}

	return a, nil
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
