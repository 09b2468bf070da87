package fl

import "time"

// ParameterBroadcast carries the global parameters pushed to each
// selected client at the start of a round.
type ParameterBroadcast struct {
	RoundNumber uint64    `json:"round_number"`
	Parameters  []float64 `json:"parameters"`
}

// ClientUpdate carries one client's locally trained parameters back to
// the aggregator, weighted by the number of rows it trained on.
type ClientUpdate struct {
	ClientID    string    `json:"client_id"`
	RoundNumber uint64    `json:"round_number"`
	Parameters  []float64 `json:"parameters"`
	NumSamples  uint64    `json:"num_samples"`
	ReceivedAt  time.Time `json:"received_at"`
}

func (u ClientUpdate) Validate() error {
	if u.ClientID == "" {
		return ErrMissingClientID
	}
	if len(u.Parameters) == 0 {
		return ErrNoParameters
	}
	if u.NumSamples == 0 {
		return ErrNoSamples
	}

	return nil
}

type Aggregator interface {
	Aggregate(updates []ClientUpdate) ([]float64, error)
}
