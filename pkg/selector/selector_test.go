package selector_test

import (
	"fmt"
	"testing"

	"github.com/absmach/flotilla/pkg/selector"
	"github.com/absmach/flotilla/run"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clients(n int) []run.Client {
	out := make([]run.Client, n)
	for i := range n {
		out[i] = run.Client{ID: fmt.Sprintf("client-%02d", i)}
	}

	return out
}

func TestSelectNoClients(t *testing.T) {
	_, err := selector.NewFraction().Select(1, nil, 1.0, 1)
	assert.ErrorIs(t, err, selector.ErrNoClients)
}

func TestSelectFullFraction(t *testing.T) {
	got, err := selector.NewFraction().Select(1, clients(5), 1.0, 2)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID)
	}
}

func TestSelectFractionCeil(t *testing.T) {
	// ceil(0.3 * 10) = 3, above the min-fit floor of 2.
	got, err := selector.NewFraction().Select(1, clients(10), 0.3, 2)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSelectMinFitFloor(t *testing.T) {
	// ceil(0.1 * 10) = 1, lifted to the floor.
	got, err := selector.NewFraction().Select(1, clients(10), 0.1, 4)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestSelectFloorCappedAtPopulation(t *testing.T) {
	got, err := selector.NewFraction().Select(1, clients(3), 0.5, 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSelectDeterministicPerRound(t *testing.T) {
	sel := selector.NewFraction()

	first, err := sel.Select(7, clients(10), 0.3, 2)
	require.NoError(t, err)
	second, err := sel.Select(7, clients(10), 0.3, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSelectRotatesAcrossRounds(t *testing.T) {
	sel := selector.NewFraction()

	picks := map[string]bool{}
	for round := uint64(1); round <= 20; round++ {
		got, err := sel.Select(round, clients(10), 0.3, 2)
		require.NoError(t, err)
		for _, c := range got {
			picks[c.ID] = true
		}
	}

	// Twenty seeded 3-of-10 draws reach well beyond any single subset.
	assert.Greater(t, len(picks), 3)
}

func TestSelectIgnoresInputOrder(t *testing.T) {
	sel := selector.NewFraction()
	cs := clients(6)
	reversed := make([]run.Client, len(cs))
	for i, c := range cs {
		reversed[len(cs)-1-i] = c
	}

	first, err := sel.Select(3, cs, 0.5, 2)
	require.NoError(t, err)
	second, err := sel.Select(3, reversed, 0.5, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
