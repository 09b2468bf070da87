package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/pkg/storage"
	"github.com/absmach/flotilla/pkg/storage/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := storage.NewInMemoryStorage()

	err := s.Create(ctx, "", "value")
	assert.Equal(t, errors.ErrEmptyKey, err)

	err = s.Create(ctx, "k1", "v1")
	require.Nil(t, err)

	err = s.Create(ctx, "k1", "v2")
	assert.Equal(t, errors.ErrEntityExists, err)

	val, err := s.Get(ctx, "k1")
	require.Nil(t, err)
	assert.Equal(t, "v1", val)

	_, err = s.Get(ctx, "missing")
	assert.Equal(t, errors.ErrNotFound, err)

	err = s.Update(ctx, "missing", "v")
	assert.Equal(t, errors.ErrNotFound, err)

	err = s.Update(ctx, "k1", "v3")
	require.Nil(t, err)
	val, err = s.Get(ctx, "k1")
	require.Nil(t, err)
	assert.Equal(t, "v3", val)

	err = s.Delete(ctx, "k1")
	require.Nil(t, err)
	_, err = s.Get(ctx, "k1")
	assert.Equal(t, errors.ErrNotFound, err)
}

func TestInMemoryStorageListPagination(t *testing.T) {
	ctx := context.Background()
	s := storage.NewInMemoryStorage()

	for i := range 10 {
		err := s.Create(ctx, fmt.Sprintf("key-%02d", i), i)
		require.Nil(t, err)
	}

	values, total, err := s.List(ctx, 0, 4)
	require.Nil(t, err)
	assert.Equal(t, uint64(10), total)
	assert.Equal(t, []any{0, 1, 2, 3}, values)

	values, total, err = s.List(ctx, 8, 4)
	require.Nil(t, err)
	assert.Equal(t, uint64(10), total)
	assert.Equal(t, []any{8, 9}, values)

	values, total, err = s.List(ctx, 20, 4)
	require.Nil(t, err)
	assert.Equal(t, uint64(10), total)
	assert.Empty(t, values)
}

func TestMemoryRepositories(t *testing.T) {
	ctx := context.Background()

	repos, err := storage.NewRepositories(storage.Config{Type: "memory"})
	require.Nil(t, err)
	assert.Nil(t, repos.Closer)

	testRun := testutil.TestRun(uuid.NewString())
	created, err := repos.Runs.Create(ctx, testRun)
	require.Nil(t, err)
	assert.Equal(t, testRun, created)

	retrieved, err := repos.Runs.Get(ctx, testRun.ID)
	require.Nil(t, err)
	assert.Equal(t, testRun, retrieved)

	retrieved.RoundsCompleted = 2
	err = repos.Runs.Update(ctx, retrieved)
	require.Nil(t, err)
	updated, err := repos.Runs.Get(ctx, testRun.ID)
	require.Nil(t, err)
	assert.Equal(t, uint64(2), updated.RoundsCompleted)

	_, err = repos.Runs.Get(ctx, "missing")
	assert.Equal(t, errors.ErrNotFound, err)

	runs, total, err := repos.Runs.List(ctx, 0, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Len(t, runs, 1)

	testClient := testutil.TestClient(uuid.NewString())
	err = repos.Clients.Create(ctx, testClient)
	require.Nil(t, err)
	err = repos.Clients.Create(ctx, testClient)
	assert.Equal(t, errors.ErrEntityExists, err)

	clients, total, err := repos.Clients.List(ctx, 0, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Len(t, clients, 1)

	err = repos.Clients.Delete(ctx, testClient.ID)
	require.Nil(t, err)
	_, err = repos.Clients.Get(ctx, testClient.ID)
	assert.Equal(t, errors.ErrNotFound, err)
}

func TestMemoryRoundRepositoryListByRunID(t *testing.T) {
	ctx := context.Background()

	repos, err := storage.NewRepositories(storage.Config{Type: "memory"})
	require.Nil(t, err)

	runID := uuid.NewString()
	otherID := uuid.NewString()
	for i := range 5 {
		_, err := repos.Rounds.Create(ctx, testutil.TestRound(fmt.Sprintf("round-%d", i), runID, uint64(i+1)))
		require.Nil(t, err)
	}
	_, err = repos.Rounds.Create(ctx, testutil.TestRound("other-round", otherID, 1))
	require.Nil(t, err)

	rounds, total, err := repos.Rounds.ListByRunID(ctx, runID, 0, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(5), total)
	require.Len(t, rounds, 5)
	for _, rd := range rounds {
		assert.Equal(t, runID, rd.RunID)
	}

	rounds, total, err = repos.Rounds.ListByRunID(ctx, runID, 2, 2)
	require.Nil(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Len(t, rounds, 2)

	rounds, total, err = repos.Rounds.ListByRunID(ctx, "unknown", 0, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), total)
	assert.Empty(t, rounds)
}

func TestNewRepositoriesUnsupportedType(t *testing.T) {
	_, err := storage.NewRepositories(storage.Config{Type: "cassandra"})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unsupported storage type")
}
