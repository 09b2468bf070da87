package sdk_test

import (
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/absmach/flotilla/aggregator/api"
	"github.com/absmach/flotilla/aggregator/mocks"
	"github.com/absmach/flotilla/pkg/artifact"
	pkgerrors "github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/pkg/sdk"
	"github.com/absmach/flotilla/run"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupSDK(t *testing.T) (sdk.SDK, *mocks.MockService) {
	t.Helper()

	svc := new(mocks.MockService)
	srv := httptest.NewServer(api.MakeHandler(svc, slog.Default(), "test-instance"))
	t.Cleanup(srv.Close)

	return sdk.NewSDK(sdk.Config{AggregatorURL: srv.URL}), svc
}

func TestStartRun(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("StartRun", mock.Anything, mock.MatchedBy(func(cfg run.Config) bool {
		return cfg.TotalRounds == 2 && cfg.MinFitClients == 3 && cfg.RegistrationTimeout == 30*time.Second
	})).Return(run.Run{ID: "r-1", Name: "misty-breeze", Status: run.Pending}, nil)

	r, err := s.StartRun(sdk.RunConfig{
		TotalRounds:         2,
		MinFitClients:       3,
		RegistrationTimeout: 30 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "r-1", r.ID)
	assert.Equal(t, "misty-breeze", r.Name)
	assert.Equal(t, string(run.Pending), r.Status)
	svc.AssertExpectations(t)
}

func TestStartRunConflict(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("StartRun", mock.Anything, mock.Anything).Return(run.Run{}, pkgerrors.ErrRunActive)

	_, err := s.StartRun(sdk.RunConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestGetRun(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("GetRun", mock.Anything, "r-1").Return(run.Run{
		ID:              "r-1",
		Status:          run.TrainingComplete,
		RoundsCompleted: 2,
		Parameters:      []float64{0.1, 0.2},
	}, nil)
	svc.On("GetRun", mock.Anything, "missing").Return(run.Run{}, pkgerrors.ErrNotFound)

	r, err := s.GetRun("r-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), r.RoundsCompleted)
	assert.Equal(t, []float64{0.1, 0.2}, r.Parameters)

	_, err = s.GetRun("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("ListRuns", mock.Anything, uint64(0), uint64(10)).Return(run.RunPage{
		Limit: 10,
		Total: 1,
		Runs:  []run.Run{{ID: "r-1"}},
	}, nil)

	page, err := s.ListRuns(0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), page.Total)
	require.Len(t, page.Runs, 1)
	assert.Equal(t, "r-1", page.Runs[0].ID)
}

func TestStopRun(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("StopRun", mock.Anything, "r-1").Return(nil)
	svc.On("StopRun", mock.Anything, "idle").Return(pkgerrors.ErrNoActiveRun)

	require.NoError(t, s.StopRun("r-1"))

	err := s.StopRun("idle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestListRounds(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("ListRounds", mock.Anything, "r-1", uint64(0), uint64(5)).Return(run.RoundPage{
		Limit: 5,
		Total: 2,
		Rounds: []run.Round{
			{RunID: "r-1", Number: 1, UpdateCount: 3},
			{RunID: "r-1", Number: 2, UpdateCount: 3},
		},
	}, nil)

	page, err := s.ListRounds("r-1", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), page.Total)
	require.Len(t, page.Rounds, 2)
	assert.Equal(t, uint64(3), page.Rounds[0].UpdateCount)
}

func TestRegisterClient(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("Register", mock.Anything, mock.MatchedBy(func(c run.Client) bool {
		return c.ID == "client-1" && c.Name == "alpha"
	})).Return(run.Client{ID: "client-1", Name: "alpha", Alive: true}, nil)

	c, err := s.RegisterClient(sdk.Client{ID: "client-1", Name: "alpha"})
	require.NoError(t, err)
	assert.True(t, c.Alive)
	svc.AssertExpectations(t)
}

func TestGetClient(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("GetClient", mock.Anything, "client-1").Return(run.Client{ID: "client-1", UpdateCount: 4}, nil)

	c, err := s.GetClient("client-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), c.UpdateCount)
}

func TestListClients(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("ListClients", mock.Anything, uint64(5), uint64(20)).Return(run.ClientPage{
		Offset:  5,
		Limit:   20,
		Total:   1,
		Clients: []run.Client{{ID: "client-1"}},
	}, nil)

	page, err := s.ListClients(5, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), page.Total)
}

func TestDeregisterClient(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("DeregisterClient", mock.Anything, "client-1").Return(nil)

	require.NoError(t, s.DeregisterClient("client-1"))
	svc.AssertExpectations(t)
}

func TestSubmitUpdate(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("SubmitUpdate", mock.Anything, mock.MatchedBy(func(u fl.ClientUpdate) bool {
		return u.ClientID == "client-1" && u.RoundNumber == 1 && u.NumSamples == 10
	})).Return(nil)

	err := s.SubmitUpdate(sdk.ClientUpdate{
		ClientID:    "client-1",
		RoundNumber: 1,
		Parameters:  []float64{0.1, 0.2},
		NumSamples:  10,
	})
	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestSubmitUpdateCBOR(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	data, err := cbor.Marshal(fl.ClientUpdate{
		ClientID:    "client-1",
		RoundNumber: 1,
		Parameters:  []float64{0.1},
		NumSamples:  10,
	})
	require.NoError(t, err)

	svc.On("SubmitUpdateCBOR", mock.Anything, data).Return(nil)

	require.NoError(t, s.SubmitUpdateCBOR(data))
	svc.AssertExpectations(t)
}

func TestGetArtifact(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("GetArtifact", mock.Anything).Return(artifact.Artifact{
		RunID:           "r-1",
		Parameters:      []float64{0.4, 0.5},
		RoundsCompleted: 2,
		ClientCount:     3,
	}, nil)
	a, err := s.GetArtifact()
	require.NoError(t, err)
	assert.Equal(t, "r-1", a.RunID)
	assert.Equal(t, uint64(3), a.ClientCount)
	assert.Equal(t, []float64{0.4, 0.5}, a.Parameters)
}

func TestGetArtifactNotFound(t *testing.T) {
	t.Parallel()

	s, svc := setupSDK(t)

	svc.On("GetArtifact", mock.Anything).Return(artifact.Artifact{}, pkgerrors.ErrNotFound)

	_, err := s.GetArtifact()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
