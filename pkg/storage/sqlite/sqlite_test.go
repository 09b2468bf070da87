package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/absmach/flotilla/pkg/storage/sqlite"
	"github.com/absmach/flotilla/pkg/storage/testutil"
	"github.com/absmach/flotilla/run"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDB    *sqlite.Database
	invalidID = "invalid-id-that-does-not-exist"
)

func TestMain(m *testing.M) {
	tmpDir := os.TempDir()
	dbPath := filepath.Join(tmpDir, "test_"+uuid.NewString()+".db")

	var err error
	testDB, err = sqlite.NewDatabase(dbPath)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	testDB.Close()
	os.Remove(dbPath)

	os.Exit(code)
}

func TestRunRepository_Create(t *testing.T) {
	repo := sqlite.NewRunRepository(testDB)

	cases := []struct {
		desc string
		run  run.Run
		err  error
	}{
		{
			desc: "create new run successfully",
			run:  testutil.TestRun(uuid.NewString()),
			err:  nil,
		},
		{
			desc: "create run with empty name",
			run: func() run.Run {
				r := testutil.TestRun(uuid.NewString())
				r.Name = ""
				return r
			}(),
			err: nil,
		},
		{
			desc: "create run with nil parameters",
			run: func() run.Run {
				r := testutil.TestRun(uuid.NewString())
				r.Parameters = nil
				return r
			}(),
			err: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			ctx := context.Background()
			created, err := repo.Create(ctx, tc.run)
			assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v, got %v", tc.desc, tc.err, err))
			if err == nil {
				assert.Equal(t, tc.run.ID, created.ID)
				assert.Equal(t, tc.run.Name, created.Name)
				assert.Equal(t, tc.run.Status, created.Status)

				repo.Delete(ctx, tc.run.ID)
			}
		})
	}
}

func TestRunRepository_Get(t *testing.T) {
	repo := sqlite.NewRunRepository(testDB)
	ctx := context.Background()

	testRun := testutil.TestRun(uuid.NewString())
	_, err := repo.Create(ctx, testRun)
	require.Nil(t, err)
	defer repo.Delete(ctx, testRun.ID)

	cases := []struct {
		desc  string
		runID string
		err   error
	}{
		{
			desc:  "get existing run",
			runID: testRun.ID,
			err:   nil,
		},
		{
			desc:  "get non-existing run",
			runID: invalidID,
			err:   sqlite.ErrRunNotFound,
		},
		{
			desc:  "get with empty ID",
			runID: "",
			err:   sqlite.ErrRunNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			retrieved, err := repo.Get(ctx, tc.runID)
			assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v, got %v", tc.desc, tc.err, err))
			if err == nil {
				assert.Equal(t, testRun.ID, retrieved.ID)
				assert.Equal(t, testRun.Name, retrieved.Name)
				assert.Equal(t, testRun.Status, retrieved.Status)
				assert.Equal(t, testRun.Config, retrieved.Config)
				assert.Equal(t, testRun.Parameters, retrieved.Parameters)
			}
		})
	}
}

func TestRunRepository_Update(t *testing.T) {
	repo := sqlite.NewRunRepository(testDB)
	ctx := context.Background()

	testRun := testutil.TestRun(uuid.NewString())
	_, err := repo.Create(ctx, testRun)
	require.Nil(t, err)
	defer repo.Delete(ctx, testRun.ID)

	testRun.Name = "updated-name"
	testRun.Status = run.WaitingForQuorum
	testRun.CurrentRound = 1
	testRun.Parameters = []float64{1.5, -2.5}
	testRun.Error = "transient failure"
	testRun.UpdatedAt = time.Now()

	err = repo.Update(ctx, testRun)
	require.Nil(t, err)

	retrieved, err := repo.Get(ctx, testRun.ID)
	require.Nil(t, err)
	assert.Equal(t, "updated-name", retrieved.Name)
	assert.Equal(t, run.WaitingForQuorum, retrieved.Status)
	assert.Equal(t, uint64(1), retrieved.CurrentRound)
	assert.Equal(t, []float64{1.5, -2.5}, retrieved.Parameters)
	assert.Equal(t, "transient failure", retrieved.Error)
}

func TestRunRepository_List(t *testing.T) {
	repo := sqlite.NewRunRepository(testDB)
	ctx := context.Background()

	ids := make([]string, 0, 5)
	for i := range 5 {
		r := testutil.TestRun(uuid.NewString())
		r.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		_, err := repo.Create(ctx, r)
		require.Nil(t, err)
		ids = append(ids, r.ID)
	}
	defer func() {
		for _, id := range ids {
			repo.Delete(ctx, id)
		}
	}()

	runs, total, err := repo.List(ctx, 0, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Len(t, runs, 5)

	runs, total, err = repo.List(ctx, 2, 2)
	require.Nil(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Len(t, runs, 2)

	runs, total, err = repo.List(ctx, 10, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Empty(t, runs)
}

func TestRunRepository_Delete(t *testing.T) {
	repo := sqlite.NewRunRepository(testDB)
	ctx := context.Background()

	testRun := testutil.TestRun(uuid.NewString())
	_, err := repo.Create(ctx, testRun)
	require.Nil(t, err)

	err = repo.Delete(ctx, testRun.ID)
	require.Nil(t, err)

	_, err = repo.Get(ctx, testRun.ID)
	assert.Equal(t, sqlite.ErrRunNotFound, err)
}

func TestRoundRepository_CreateAndList(t *testing.T) {
	runs := sqlite.NewRunRepository(testDB)
	rounds := sqlite.NewRoundRepository(testDB)
	ctx := context.Background()

	parent := testutil.TestRun(uuid.NewString())
	_, err := runs.Create(ctx, parent)
	require.Nil(t, err)
	defer runs.Delete(ctx, parent.ID)

	other := testutil.TestRun(uuid.NewString())
	_, err = runs.Create(ctx, other)
	require.Nil(t, err)
	defer runs.Delete(ctx, other.ID)

	for i := range 3 {
		rd := testutil.TestRound(uuid.NewString(), parent.ID, uint64(i+1))
		_, err := rounds.Create(ctx, rd)
		require.Nil(t, err)
	}
	otherRound := testutil.TestRound(uuid.NewString(), other.ID, 1)
	_, err = rounds.Create(ctx, otherRound)
	require.Nil(t, err)

	listed, total, err := rounds.ListByRunID(ctx, parent.ID, 0, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, listed, 3)
	for i, rd := range listed {
		assert.Equal(t, uint64(i+1), rd.Number)
		assert.Equal(t, parent.ID, rd.RunID)
		assert.Equal(t, []string{"client-1", "client-2"}, rd.Selected)
	}

	listed, total, err = rounds.ListByRunID(ctx, parent.ID, 1, 1)
	require.Nil(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, listed, 1)
	assert.Equal(t, uint64(2), listed[0].Number)

	listed, total, err = rounds.ListByRunID(ctx, invalidID, 0, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), total)
	assert.Empty(t, listed)
}

func TestClientRepository_Create(t *testing.T) {
	repo := sqlite.NewClientRepository(testDB)

	cases := []struct {
		desc   string
		client run.Client
		err    error
	}{
		{
			desc:   "create new client successfully",
			client: testutil.TestClient(uuid.NewString()),
			err:    nil,
		},
		{
			desc: "create client with nil alive history",
			client: func() run.Client {
				c := testutil.TestClient(uuid.NewString())
				c.AliveHistory = nil
				return c
			}(),
			err: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			ctx := context.Background()
			err := repo.Create(ctx, tc.client)
			assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v, got %v", tc.desc, tc.err, err))
			if err == nil {
				repo.Delete(ctx, tc.client.ID)
			}
		})
	}
}

func TestClientRepository_Get(t *testing.T) {
	repo := sqlite.NewClientRepository(testDB)
	ctx := context.Background()

	testClient := testutil.TestClient(uuid.NewString())
	err := repo.Create(ctx, testClient)
	require.Nil(t, err)
	defer repo.Delete(ctx, testClient.ID)

	cases := []struct {
		desc     string
		clientID string
		err      error
	}{
		{
			desc:     "get existing client",
			clientID: testClient.ID,
			err:      nil,
		},
		{
			desc:     "get non-existing client",
			clientID: invalidID,
			err:      sqlite.ErrClientNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			retrieved, err := repo.Get(ctx, tc.clientID)
			assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v, got %v", tc.desc, tc.err, err))
			if err == nil {
				assert.Equal(t, testClient.ID, retrieved.ID)
				assert.Equal(t, testClient.Name, retrieved.Name)
				assert.Equal(t, testClient.Alive, retrieved.Alive)
				assert.Len(t, retrieved.AliveHistory, 2)
			}
		})
	}
}

func TestClientRepository_Update(t *testing.T) {
	repo := sqlite.NewClientRepository(testDB)
	ctx := context.Background()

	testClient := testutil.TestClient(uuid.NewString())
	err := repo.Create(ctx, testClient)
	require.Nil(t, err)
	defer repo.Delete(ctx, testClient.ID)

	testClient.UpdateCount = 7
	testClient.Alive = false

	err = repo.Update(ctx, testClient)
	require.Nil(t, err)

	retrieved, err := repo.Get(ctx, testClient.ID)
	require.Nil(t, err)
	assert.Equal(t, uint64(7), retrieved.UpdateCount)
	assert.False(t, retrieved.Alive)
}

func TestClientRepository_List(t *testing.T) {
	repo := sqlite.NewClientRepository(testDB)
	ctx := context.Background()

	ids := make([]string, 0, 4)
	for range 4 {
		c := testutil.TestClient(uuid.NewString())
		err := repo.Create(ctx, c)
		require.Nil(t, err)
		ids = append(ids, c.ID)
	}
	defer func() {
		for _, id := range ids {
			repo.Delete(ctx, id)
		}
	}()

	clients, total, err := repo.List(ctx, 0, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(4), total)
	assert.Len(t, clients, 4)

	clients, total, err = repo.List(ctx, 2, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(4), total)
	assert.Len(t, clients, 2)
}
