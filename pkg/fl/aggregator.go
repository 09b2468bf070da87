package fl

import "fmt"

// FedAvgAggregator combines client updates into new global parameters
// by sample-weighted averaging: each position is the sum of the clients'
// values scaled by their sample counts, divided by the total samples.
type FedAvgAggregator struct{}

func NewFedAvgAggregator() Aggregator {
	return &FedAvgAggregator{}
}

func (f *FedAvgAggregator) Aggregate(updates []ClientUpdate) ([]float64, error) {
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	dim := len(updates[0].Parameters)
	aggregated := make([]float64, dim)
	var totalSamples uint64

	for _, update := range updates {
		if len(update.Parameters) != dim {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(update.Parameters), dim)
		}

		weight := float64(update.NumSamples)
		totalSamples += update.NumSamples
		for i, v := range update.Parameters {
			aggregated[i] += v * weight
		}
	}

	if totalSamples == 0 {
		return nil, ErrNoSamples
	}
	weightNorm := float64(totalSamples)
	for i := range aggregated {
		aggregated[i] /= weightNorm
	}

	return aggregated, nil
}
