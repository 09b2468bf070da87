package artifact_test

import (
	"context"
	"testing"
	"time"

	"github.com/absmach/flotilla/pkg/artifact"
	"github.com/absmach/flotilla/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(runID string) artifact.Artifact {
	return artifact.Artifact{
		RunID:           runID,
		Parameters:      []float64{0.1, -0.2, 0.3},
		RoundsCompleted: 2,
		ClientCount:     3,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

func testStore(t *testing.T, store artifact.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	first := sample("run-1")
	require.NoError(t, store.Save(ctx, first))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// Loading does not consume the slot.
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	second := sample("run-2")
	second.RoundsCompleted = 5
	require.NoError(t, store.Save(ctx, second))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, artifact.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := artifact.NewFileStore(t.TempDir(), false)
	require.NoError(t, err)
	testStore(t, store)
}

func TestFileStoreCompressed(t *testing.T) {
	store, err := artifact.NewFileStore(t.TempDir(), true)
	require.NoError(t, err)
	testStore(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := artifact.NewFileStore(dir, false)
	require.NoError(t, err)
	want := sample("run-1")
	require.NoError(t, store.Save(ctx, want))

	reopened, err := artifact.NewFileStore(dir, false)
	require.NoError(t, err)
	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBadgerStore(t *testing.T) {
	store, err := artifact.NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		if c, ok := store.(interface{ Close() error }); ok {
			require.NoError(t, c.Close())
		}
	})

	testStore(t, store)
}

func TestNewStoreByKind(t *testing.T) {
	ctx := context.Background()

	store, closer, err := artifact.NewStore(ctx, artifact.Config{Kind: "memory"})
	require.NoError(t, err)
	assert.Nil(t, closer)
	require.NoError(t, store.Save(ctx, sample("run-1")))

	store, closer, err = artifact.NewStore(ctx, artifact.Config{Kind: "file", FileDir: t.TempDir()})
	require.NoError(t, err)
	assert.Nil(t, closer)
	require.NotNil(t, store)

	store, closer, err = artifact.NewStore(ctx, artifact.Config{Kind: "badger", BadgerPath: t.TempDir()})
	require.NoError(t, err)
	require.NotNil(t, closer)
	require.NotNil(t, store)
	require.NoError(t, closer.Close())

	_, _, err = artifact.NewStore(ctx, artifact.Config{Kind: "tape"})
	assert.Error(t, err)
}
