package sdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const runsEndpoint = "/runs"

// RunConfig mirrors the aggregator's run configuration. Zero fields are
// filled with server-side defaults. Timeouts travel as nanoseconds.
type RunConfig struct {
	ClientCount         uint64        `json:"client_count,omitempty"`
	TotalRounds         uint64        `json:"total_rounds,omitempty"`
	MinFitClients       uint64        `json:"min_fit_clients,omitempty"`
	SelectionFraction   float64       `json:"selection_fraction,omitempty"`
	LocalEpochs         uint64        `json:"local_epochs,omitempty"`
	LearningRate        float64       `json:"learning_rate,omitempty"`
	ParameterDim        uint64        `json:"parameter_dim,omitempty"`
	InitialParameters   []float64     `json:"initial_parameters,omitempty"`
	RegistrationTimeout time.Duration `json:"registration_timeout,omitempty"`
	RoundTimeout        time.Duration `json:"round_timeout,omitempty"`
	MaxRetries          uint64        `json:"max_retries,omitempty"`
}

type Run struct {
	ID                string    `json:"id,omitempty"`
	Name              string    `json:"name,omitempty"`
	Status            string    `json:"status,omitempty"`
	Config            RunConfig `json:"config"`
	CurrentRound      uint64    `json:"current_round,omitempty"`
	RoundsCompleted   uint64    `json:"rounds_completed,omitempty"`
	Parameters        []float64 `json:"parameters,omitempty"`
	RegisteredClients uint64    `json:"registered_clients,omitempty"`
	Error             string    `json:"error,omitempty"`
	StartTime         time.Time `json:"start_time"`
	FinishTime        time.Time `json:"finish_time"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type RunPage struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
	Total  uint64 `json:"total"`
	Runs   []Run  `json:"runs"`
}

type Round struct {
	ID          string    `json:"id,omitempty"`
	RunID       string    `json:"run_id,omitempty"`
	Number      uint64    `json:"number"`
	Attempts    uint64    `json:"attempts"`
	Selected    []string  `json:"selected,omitempty"`
	UpdateCount uint64    `json:"update_count"`
	SampleCount uint64    `json:"sample_count"`
	StartTime   time.Time `json:"start_time"`
	FinishTime  time.Time `json:"finish_time"`
}

type RoundPage struct {
	Offset uint64  `json:"offset"`
	Limit  uint64  `json:"limit"`
	Total  uint64  `json:"total"`
	Rounds []Round `json:"rounds"`
}

func (sdk *flotSDK) StartRun(cfg RunConfig) (Run, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return Run{}, err
	}

	url := sdk.aggregatorURL + runsEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, data, CTJSON, http.StatusCreated)
	if err != nil {
		return Run{}, err
	}

	var r Run
	if err := json.Unmarshal(body, &r); err != nil {
		return Run{}, err
	}

	return r, nil
}

func (sdk *flotSDK) GetRun(id string) (Run, error) {
	url := sdk.aggregatorURL + runsEndpoint + "/" + id

	body, err := sdk.processRequest(http.MethodGet, url, nil, CTJSON, http.StatusOK)
	if err != nil {
		return Run{}, err
	}

	var r Run
	if err := json.Unmarshal(body, &r); err != nil {
		return Run{}, err
	}

	return r, nil
}

func (sdk *flotSDK) ListRuns(offset, limit uint64) (RunPage, error) {
	url := sdk.aggregatorURL + runsEndpoint + pageQuery(offset, limit)

	body, err := sdk.processRequest(http.MethodGet, url, nil, CTJSON, http.StatusOK)
	if err != nil {
		return RunPage{}, err
	}

	var p RunPage
	if err := json.Unmarshal(body, &p); err != nil {
		return RunPage{}, err
	}

	return p, nil
}

func (sdk *flotSDK) StopRun(id string) error {
	url := sdk.aggregatorURL + runsEndpoint + "/" + id + "/stop"

	if _, err := sdk.processRequest(http.MethodPost, url, nil, CTJSON, http.StatusOK); err != nil {
		return err
	}

	return nil
}

func (sdk *flotSDK) ListRounds(runID string, offset, limit uint64) (RoundPage, error) {
	url := sdk.aggregatorURL + runsEndpoint + "/" + runID + "/rounds" + pageQuery(offset, limit)

	body, err := sdk.processRequest(http.MethodGet, url, nil, CTJSON, http.StatusOK)
	if err != nil {
		return RoundPage{}, err
	}

	var p RoundPage
	if err := json.Unmarshal(body, &p); err != nil {
		return RoundPage{}, err
	}

	return p, nil
}

func pageQuery(offset, limit uint64) string {
	queries := make([]string, 0)
	if offset > 0 {
		queries = append(queries, fmt.Sprintf("offset=%d", offset))
	}
	if limit > 0 {
		queries = append(queries, fmt.Sprintf("limit=%d", limit))
	}
	if len(queries) == 0 {
		return ""
	}

	return "?" + strings.Join(queries, "&")
}
