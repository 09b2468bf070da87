package sdk

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

const (
	CTJSON string = "application/json"
	CTCBOR string = "application/cbor"
)

type SDK interface {
	// StartRun starts a federated run.
	//
	// example:
	//  cfg := sdk.RunConfig{
	//    TotalRounds:   5,
	//    MinFitClients: 2,
	//  }
	//  run, _ := sdk.StartRun(cfg)
	//  fmt.Println(run)
	StartRun(cfg RunConfig) (Run, error)

	// GetRun gets a run by id.
	//
	// example:
	//  run, _ := sdk.GetRun("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	//  fmt.Println(run)
	GetRun(id string) (Run, error)

	// ListRuns lists runs.
	//
	// example:
	//  runPage, _ := sdk.ListRuns(0, 10)
	//  fmt.Println(runPage)
	ListRuns(offset uint64, limit uint64) (RunPage, error)

	// StopRun stops the active run.
	//
	// example:
	//  _ = sdk.StopRun("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	StopRun(id string) error

	// ListRounds lists the recorded rounds of a run.
	//
	// example:
	//  roundPage, _ := sdk.ListRounds("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040", 0, 10)
	//  fmt.Println(roundPage)
	ListRounds(runID string, offset uint64, limit uint64) (RoundPage, error)

	// RegisterClient registers a client with the aggregator.
	//
	// example:
	//  client := sdk.Client{
	//    ID: "client-1",
	//  }
	//  client, _ := sdk.RegisterClient(client)
	//  fmt.Println(client)
	RegisterClient(c Client) (Client, error)

	// GetClient gets a client by id.
	//
	// example:
	//  client, _ := sdk.GetClient("client-1")
	//  fmt.Println(client)
	GetClient(id string) (Client, error)

	// ListClients lists registered clients.
	//
	// example:
	//  clientPage, _ := sdk.ListClients(0, 10)
	//  fmt.Println(clientPage)
	ListClients(offset uint64, limit uint64) (ClientPage, error)

	// DeregisterClient removes a client from the fleet.
	//
	// example:
	//  _ = sdk.DeregisterClient("client-1")
	DeregisterClient(id string) error

	// SubmitUpdate submits a client model update for the active round.
	//
	// example:
	//  update := sdk.ClientUpdate{
	//    ClientID:    "client-1",
	//    RoundNumber: 1,
	//    Parameters:  []float64{0.1, 0.2},
	//    NumSamples:  10,
	//  }
	//  _ = sdk.SubmitUpdate(update)
	SubmitUpdate(update ClientUpdate) error

	// SubmitUpdateCBOR submits a CBOR encoded client model update.
	//
	// example:
	//  _ = sdk.SubmitUpdateCBOR(data)
	SubmitUpdateCBOR(data []byte) error

	// GetArtifact gets the stored model artifact.
	//
	// example:
	//  artifact, _ := sdk.GetArtifact()
	//  fmt.Println(artifact)
	GetArtifact() (Artifact, error)
}

type flotSDK struct {
	aggregatorURL string
	client        *http.Client
}

type Config struct {
	AggregatorURL   string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &flotSDK{
		aggregatorURL: cfg.AggregatorURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *flotSDK) processRequest(method, reqURL string, data []byte, contentType string, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", contentType)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		return []byte{}, fmt.Errorf("unexpected response code: %d", resp.StatusCode)
	}

	return body, nil
}
