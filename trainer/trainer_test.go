package trainer_test

import (
	"testing"

	"github.com/absmach/flotilla/dataset"
	"github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyShard() dataset.Shard {
	return dataset.Shard{
		Features: [][]float64{
			{0.1, 0.2}, {0.2, 0.1}, {0.15, 0.25},
			{0.8, 0.9}, {0.9, 0.7}, {0.85, 0.95},
		},
		Labels: []float64{0, 0, 0, 1, 1, 1},
	}
}

func TestTrainEmptyShard(t *testing.T) {
	tr := trainer.New(1, 0.01)
	_, _, err := tr.Train([]float64{0, 0, 0}, dataset.Shard{})
	assert.ErrorIs(t, err, errors.ErrEmptyShard)
}

func TestTrainDimensionMismatch(t *testing.T) {
	tr := trainer.New(1, 0.01)
	_, _, err := tr.Train([]float64{0, 0}, tinyShard())
	assert.ErrorIs(t, err, errors.ErrInvalidData)
}

func TestTrainPure(t *testing.T) {
	tr := trainer.New(3, 0.1)
	params := []float64{0.5, -0.5, 0.1}

	out, n, err := tr.Train(params, tinyShard())
	require.NoError(t, err)
	assert.Equal(t, uint64(6), n)
	assert.Equal(t, []float64{0.5, -0.5, 0.1}, params)
	assert.NotEqual(t, params, out)
}

func TestTrainDeterministic(t *testing.T) {
	tr := trainer.New(5, 0.05)
	params := make([]float64, len(dataset.Columns)+1)
	shard := dataset.Synthetic(20, 11).AsShard()

	first, _, err := tr.Train(params, shard)
	require.NoError(t, err)
	second, _, err := tr.Train(params, shard)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTrainEpochsCompose(t *testing.T) {
	shard := tinyShard()
	params := []float64{0, 0, 0}

	twice, _, err := trainer.New(2, 0.1).Train(params, shard)
	require.NoError(t, err)

	step := trainer.New(1, 0.1)
	once, _, err := step.Train(params, shard)
	require.NoError(t, err)
	again, _, err := step.Train(once, shard)
	require.NoError(t, err)

	assert.Equal(t, twice, again)
}

func TestTrainReducesLoss(t *testing.T) {
	shard := tinyShard()
	params := []float64{0, 0, 0}

	before, err := trainer.Loss(params, shard)
	require.NoError(t, err)

	out, _, err := trainer.New(50, 0.5).Train(params, shard)
	require.NoError(t, err)
	after, err := trainer.Loss(out, shard)
	require.NoError(t, err)

	assert.Less(t, after, before)
}

func TestPredict(t *testing.T) {
	p, err := trainer.Predict([]float64{0, 0, 0}, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)

	_, err = trainer.Predict([]float64{0, 0}, []float64{3, 4, 5})
	assert.ErrorIs(t, err, errors.ErrInvalidData)
}
