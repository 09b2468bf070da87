package sdk

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	updatesEndpoint  = "/updates"
	artifactEndpoint = "/artifact"
)

type ClientUpdate struct {
	ClientID    string    `json:"client_id"`
	RoundNumber uint64    `json:"round_number"`
	Parameters  []float64 `json:"parameters"`
	NumSamples  uint64    `json:"num_samples"`
}

type Artifact struct {
	RunID           string    `json:"run_id"`
	Parameters      []float64 `json:"parameters"`
	RoundsCompleted uint64    `json:"rounds_completed"`
	ClientCount     uint64    `json:"client_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func (sdk *flotSDK) SubmitUpdate(update ClientUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}

	url := sdk.aggregatorURL + updatesEndpoint

	if _, err := sdk.processRequest(http.MethodPost, url, data, CTJSON, http.StatusOK); err != nil {
		return err
	}

	return nil
}

func (sdk *flotSDK) SubmitUpdateCBOR(data []byte) error {
	url := sdk.aggregatorURL + updatesEndpoint + "/cbor"

	if _, err := sdk.processRequest(http.MethodPost, url, data, CTCBOR, http.StatusOK); err != nil {
		return err
	}

	return nil
}

func (sdk *flotSDK) GetArtifact() (Artifact, error) {
	url := sdk.aggregatorURL + artifactEndpoint

	body, err := sdk.processRequest(http.MethodGet, url, nil, CTJSON, http.StatusOK)
	if err != nil {
		return Artifact{}, err
	}

	var a Artifact
	if err := json.Unmarshal(body, &a); err != nil {
		return Artifact{}, err
	}

	return a, nil
}
