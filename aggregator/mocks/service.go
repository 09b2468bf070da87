package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/absmach/flotilla/pkg/artifact"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/run"
)

// MockService is a mock implementation of the aggregator.Service interface
type MockService struct {
	mock.Mock
}

// StartRun starts a new federated run
func (m *MockService) StartRun(ctx context.Context, cfg run.Config) (run.Run, error) {
	args := m.Called(ctx, cfg)
	return args.Get(0).(run.Run), args.Error(1)
}

// GetRun retrieves a run by ID
func (m *MockService) GetRun(ctx context.Context, runID string) (run.Run, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).(run.Run), args.Error(1)
}

// ListRuns lists runs with pagination
func (m *MockService) ListRuns(ctx context.Context, offset, limit uint64) (run.RunPage, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).(run.RunPage), args.Error(1)
}

// StopRun stops the active run
func (m *MockService) StopRun(ctx context.Context, runID string) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}

// ListRounds lists the recorded rounds of a run
func (m *MockService) ListRounds(ctx context.Context, runID string, offset, limit uint64) (run.RoundPage, error) {
	args := m.Called(ctx, runID, offset, limit)
	return args.Get(0).(run.RoundPage), args.Error(1)
}

// Register registers a client or refreshes its liveliness
func (m *MockService) Register(ctx context.Context, c run.Client) (run.Client, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(run.Client), args.Error(1)
}

// GetClient retrieves a client by ID
func (m *MockService) GetClient(ctx context.Context, clientID string) (run.Client, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(run.Client), args.Error(1)
}

// ListClients lists clients with pagination
func (m *MockService) ListClients(ctx context.Context, offset, limit uint64) (run.ClientPage, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).(run.ClientPage), args.Error(1)
}

// DeregisterClient removes a client from the fleet
func (m *MockService) DeregisterClient(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

// SubmitUpdate submits a client model update
func (m *MockService) SubmitUpdate(ctx context.Context, update fl.ClientUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

// SubmitUpdateCBOR submits a CBOR encoded client model update
func (m *MockService) SubmitUpdateCBOR(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// GetArtifact retrieves the stored model artifact
func (m *MockService) GetArtifact(ctx context.Context) (artifact.Artifact, error) {
	args := m.Called(ctx)
	return args.Get(0).(artifact.Artifact), args.Error(1)
}

// Subscribe attaches the MQTT handlers
func (m *MockService) Subscribe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Shutdown stops the service
func (m *MockService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// RecoverInterruptedRuns marks interrupted runs as failed
func (m *MockService) RecoverInterruptedRuns(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
