package eval

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitopt/internal/ga"
	"bitopt/internal/objective"
)

func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}

func TestEvaluateQuadratic(t *testing.T) {
	e := NewEvaluator(objective.Quadratic, 5, 1)
	pop := []ga.Chromosome{"00100", "00000", "00001", "01000"}

	fitness, probs, err := e.Evaluate(pop)
	require.NoError(t, err)
	assert.Equal(t, []float64{31, 15, 22, 15}, fitness)
	assert.InDelta(t, 1.0, sum(probs), 1e-9)
	// min is 15, so every value shifts by 15
	assert.InDelta(t, 46.0/143, probs[0], 1e-12)
	assert.InDelta(t, 30.0/143, probs[1], 1e-12)

	best := e.Best()
	assert.True(t, best.Found)
	assert.Equal(t, ga.Chromosome("00100"), best.Chromosome)
	assert.Equal(t, int64(4), best.Value)
	assert.Equal(t, 31.0, best.Fitness)
}

func TestEvaluateNegativeFitness(t *testing.T) {
	obj := objective.Func(func(x int64) float64 { return -float64(x) - 1 })
	e := NewEvaluator(obj, 3, 1)

	_, probs, err := e.Evaluate([]ga.Chromosome{"000", "001", "111"})
	require.NoError(t, err)
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
	}
	assert.InDelta(t, 1.0, sum(probs), 1e-9)
	assert.Equal(t, 0.0, probs[2], "the minimum shifts to zero")
}

func TestEvaluateUniformFallback(t *testing.T) {
	obj := objective.Func(func(int64) float64 { return -3 })
	e := NewEvaluator(obj, 4, 1)

	_, probs, err := e.Evaluate([]ga.Chromosome{"0000", "0101", "1111"})
	require.NoError(t, err)
	for _, p := range probs {
		assert.InDelta(t, 1.0/3, p, 1e-15)
	}
}

func TestEvaluateTiePrefersLater(t *testing.T) {
	obj := objective.Func(func(int64) float64 { return 7 })
	e := NewEvaluator(obj, 2, 1)

	_, _, err := e.Evaluate([]ga.Chromosome{"00", "01", "10"})
	require.NoError(t, err)
	assert.Equal(t, ga.Chromosome("10"), e.Best().Chromosome)

	_, _, err = e.Evaluate([]ga.Chromosome{"11", "00"})
	require.NoError(t, err)
	assert.Equal(t, ga.Chromosome("00"), e.Best().Chromosome, "equal fitness in a later generation replaces the record")
}

func TestBestIsMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	e := NewEvaluator(objective.Quadratic, 5, 1)

	prev := math.Inf(-1)
	for gen := 0; gen < 50; gen++ {
		pop := ga.NewPopulation(4, 5, rng)
		_, probs, err := e.Evaluate(pop.Chromosomes)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sum(probs), 1e-9)

		best := e.Best().Fitness
		assert.GreaterOrEqual(t, best, prev)
		assert.LessOrEqual(t, best, 31.0)
		prev = best
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	obj := objective.Func(func(x int64) float64 { return float64(x % 7) })

	seq := NewEvaluator(obj, 10, 1)
	par := NewEvaluator(obj, 10, 4)
	for gen := 0; gen < 10; gen++ {
		pop := ga.NewPopulation(33, 10, rng)
		f1, p1, err := seq.Evaluate(pop.Chromosomes)
		require.NoError(t, err)
		f2, p2, err := par.Evaluate(pop.Chromosomes)
		require.NoError(t, err)

		assert.Equal(t, f1, f2)
		assert.Equal(t, p1, p2)
		assert.Equal(t, seq.Best(), par.Best())
	}
}

type failing struct{ at int64 }

var errBoom = errors.New("boom")

func (f failing) Evaluate(x int64) (float64, error) {
	if x == f.at {
		return 0, errBoom
	}
	return float64(x), nil
}

func TestEvaluatePropagatesObjectiveError(t *testing.T) {
	for _, workers := range []int{1, 3} {
		e := NewEvaluator(failing{at: 2}, 2, workers)
		_, _, err := e.Evaluate([]ga.Chromosome{"00", "01", "10", "11"})
		assert.ErrorIs(t, err, errBoom, "workers=%d", workers)
	}
}

func TestEvaluateRejectsNonFinite(t *testing.T) {
	obj := objective.Func(func(x int64) float64 { return math.NaN() })
	e := NewEvaluator(obj, 2, 1)
	_, _, err := e.Evaluate([]ga.Chromosome{"00"})
	assert.ErrorIs(t, err, ErrInvalidFitness)
}

func TestEvaluateRejectsMalformed(t *testing.T) {
	e := NewEvaluator(objective.Quadratic, 5, 1)
	_, _, err := e.Evaluate([]ga.Chromosome{"0010"})
	assert.ErrorIs(t, err, ga.ErrInvalidChromosome)

	_, _, err = e.Evaluate(nil)
	assert.ErrorIs(t, err, ga.ErrInvalidArgument)
}

func TestProbabilities(t *testing.T) {
	p := Probabilities([]float64{1, 3}, 1)
	assert.InDelta(t, 2.0/6, p[0], 1e-12)
	assert.InDelta(t, 4.0/6, p[1], 1e-12)
}

func TestProbabilitiesHugeFitness(t *testing.T) {
	obj := objective.Func(func(x int64) float64 {
		return 1e308 - 1e300*float64(x)
	})
	e := NewEvaluator(obj, 5, 1)
	_, probs, err := e.Evaluate([]ga.Chromosome{"00000", "00001", "11111"})
	require.NoError(t, err)

	for _, p := range probs {
		assert.False(t, math.IsNaN(p) || math.IsInf(p, 0))
	}
	assert.InDelta(t, 1.0, sum(probs), 1e-9)
	assert.Greater(t, probs[0], probs[2])

	_, err = ga.NewRoulette(probs)
	assert.NoError(t, err)
}
