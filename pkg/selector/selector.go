package selector

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/absmach/flotilla/run"
)

var ErrNoClients = errors.New("no clients available for selection")

// Selector picks the clients that train in one round.
type Selector interface {
	Select(roundNumber uint64, clients []run.Client, fraction float64, minFit uint64) ([]run.Client, error)
}

type fractionSelector struct{}

// NewFraction selects ceil(fraction*n) clients per round, never fewer
// than minFit and never more than are registered. Selection is
// deterministic: candidates are ordered by ID and, when only a subset
// trains, shuffled with the round number as seed so successive rounds
// rotate through the population.
func NewFraction() Selector {
	return &fractionSelector{}
}

func (s *fractionSelector) Select(roundNumber uint64, clients []run.Client, fraction float64, minFit uint64) ([]run.Client, error) {
	if len(clients) == 0 {
		return nil, ErrNoClients
	}

	sorted := make([]run.Client, len(clients))
	copy(sorted, clients)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	count := uint64(math.Ceil(fraction * float64(len(sorted))))
	if count < minFit {
		count = minFit
	}
	if count > uint64(len(sorted)) {
		count = uint64(len(sorted))
	}
	if count == uint64(len(sorted)) {
		return sorted, nil
	}

	rng := rand.New(rand.NewSource(int64(roundNumber)))
	rng.Shuffle(len(sorted), func(i, j int) {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	})
	picked := sorted[:count]
	sort.Slice(picked, func(i, j int) bool {
		return picked[i].ID < picked[j].ID
	})

	return picked, nil
}
