package client

import (
	"github.com/absmach/flotilla/dataset"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/trainer"
)

// Client is one training participant bound to its private shard. The
// same type backs both deployment modes: wrapped by Service when it
// talks to the aggregator over a broker, or driven directly by the
// simulation loop.
type Client struct {
	id      string
	name    string
	shard   dataset.Shard
	trainer trainer.Trainer
}

func New(id, name string, shard dataset.Shard, t trainer.Trainer) *Client {
	return &Client{
		id:      id,
		name:    name,
		shard:   shard,
		trainer: t,
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) Name() string {
	return c.name
}

// Samples returns the size of the client's shard, the weight its
// updates carry during aggregation.
func (c *Client) Samples() uint64 {
	return uint64(c.shard.Len())
}

// Step trains on the broadcast parameters and returns the update to
// send back. The broadcast is not mutated.
func (c *Client) Step(b fl.ParameterBroadcast) (fl.ClientUpdate, error) {
	params, samples, err := c.trainer.Train(b.Parameters, c.shard)
	if err != nil {
		return fl.ClientUpdate{}, err
	}

	return fl.ClientUpdate{
		ClientID:    c.id,
		RoundNumber: b.RoundNumber,
		Parameters:  params,
		NumSamples:  samples,
	}, nil
}
