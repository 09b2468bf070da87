package dataset

import (
	"fmt"

	"github.com/absmach/flotilla/pkg/errors"
)

// Dataset is a labeled design matrix: one feature row and one binary
// label per example.
type Dataset struct {
	Features [][]float64 `json:"features"`
	Labels   []float64   `json:"labels"`
}

func (d Dataset) Len() int {
	return len(d.Features)
}

// AsShard views the whole dataset as a single shard, the way a lone
// client or a centralized baseline trains.
func (d Dataset) AsShard() Shard {
	return Shard{Features: d.Features, Labels: d.Labels}
}

// Shard is the contiguous slice of a dataset assigned to one client.
type Shard struct {
	Features [][]float64 `json:"features"`
	Labels   []float64   `json:"labels"`
}

func (s Shard) Len() int {
	return len(s.Features)
}

// AsDataset views the shard as a standalone dataset, e.g. to write it
// out as a client's data file.
func (s Shard) AsDataset() Dataset {
	return Dataset{Features: s.Features, Labels: s.Labels}
}

// Partition splits a dataset into clientCount contiguous shards of
// near-equal size. Shard i covers rows [i*chunk, (i+1)*chunk); the last
// shard absorbs the remainder so that every row lands in exactly one
// shard. The split is deterministic: the same dataset and count always
// produce the same shards.
func Partition(d Dataset, clientCount int) ([]Shard, error) {
	if clientCount < 1 {
		return nil, fmt.Errorf("%w: client count %d", errors.ErrInvalidPartition, clientCount)
	}
	if len(d.Features) != len(d.Labels) {
		return nil, fmt.Errorf("%w: %d feature rows for %d labels", errors.ErrInvalidPartition, len(d.Features), len(d.Labels))
	}
	if d.Len() < clientCount {
		return nil, fmt.Errorf("%w: %d clients for %d rows", errors.ErrInvalidPartition, clientCount, d.Len())
	}

	chunk := d.Len() / clientCount
	shards := make([]Shard, clientCount)
	for i := range clientCount {
		start := i * chunk
		end := start + chunk
		if i == clientCount-1 {
			end = d.Len()
		}
		shards[i] = Shard{
			Features: d.Features[start:end],
			Labels:   d.Labels[start:end],
		}
	}

	return shards, nil
}
