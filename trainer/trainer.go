package trainer

import (
	"fmt"
	"math"

	"github.com/absmach/flotilla/dataset"
	"github.com/absmach/flotilla/pkg/errors"
)

// Trainer runs local gradient descent for a logistic model. Parameters
// are a flat vector [w_0..w_{d-1}, b] with the bias last, so a model
// over d features has d+1 parameters.
type Trainer struct {
	Epochs       uint64
	LearningRate float64
}

func New(epochs uint64, learningRate float64) Trainer {
	return Trainer{
		Epochs:       epochs,
		LearningRate: learningRate,
	}
}

// Train runs full-batch gradient descent on the shard and returns the
// updated parameters together with the number of rows trained on. The
// input vector is never mutated and the result depends only on the
// arguments, so repeated calls agree bit for bit.
func (t Trainer) Train(params []float64, shard dataset.Shard) ([]float64, uint64, error) {
	if shard.Len() == 0 {
		return nil, 0, errors.ErrEmptyShard
	}
	dim := len(shard.Features[0]) + 1
	if len(params) != dim {
		return nil, 0, fmt.Errorf("%w: %d parameters for %d features", errors.ErrInvalidData, len(params), dim-1)
	}

	out := make([]float64, dim)
	copy(out, params)

	n := float64(shard.Len())
	grad := make([]float64, dim)
	for range t.Epochs {
		for i := range grad {
			grad[i] = 0
		}
		for i, x := range shard.Features {
			residual := sigmoid(dot(out, x)) - shard.Labels[i]
			for j, xj := range x {
				grad[j] += residual * xj
			}
			grad[dim-1] += residual
		}
		for j := range out {
			out[j] -= t.LearningRate * grad[j] / n
		}
	}

	return out, uint64(shard.Len()), nil
}

// Predict returns the positive-class probability for one feature row.
func Predict(params, features []float64) (float64, error) {
	if len(params) != len(features)+1 {
		return 0, fmt.Errorf("%w: %d parameters for %d features", errors.ErrInvalidData, len(params), len(features))
	}

	return sigmoid(dot(params, features)), nil
}

// Loss returns the mean logistic loss of the parameters over a shard.
func Loss(params []float64, shard dataset.Shard) (float64, error) {
	if shard.Len() == 0 {
		return 0, errors.ErrEmptyShard
	}

	const eps = 1e-12
	var sum float64
	for i, x := range shard.Features {
		p, err := Predict(params, x)
		if err != nil {
			return 0, err
		}
		y := shard.Labels[i]
		sum -= y*math.Log(p+eps) + (1-y)*math.Log(1-p+eps)
	}

	return sum / float64(shard.Len()), nil
}

// dot applies the weights in params to one feature row, excluding the
// trailing bias term.
func dot(params, features []float64) float64 {
	z := 0.0
	for j, xj := range features {
		z += params[j] * xj
	}

	return z + params[len(params)-1]
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
