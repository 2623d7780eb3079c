package ga

import (
	"fmt"
	"math"
	"sort"
)

// ProbabilityTolerance is how far a probability vector may sum from 1.
const ProbabilityTolerance = 1e-9

// Roulette is a weighted wheel built once per generation and spun for
// every parent draw.
type Roulette struct {
	cumulative []float64
}

// NewRoulette validates probs and precomputes the cumulative wheel.
func NewRoulette(probs []float64) (*Roulette, error) {
	if len(probs) == 0 {
		return nil, fmt.Errorf("%w: empty probability vector", ErrInvalidArgument)
	}

	cum := make([]float64, len(probs))
	sum := 0.0
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: probability %d is %v", ErrInvalidArgument, i, p)
		}
		sum += p
		cum[i] = sum
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return nil, fmt.Errorf("%w: probabilities sum to %v", ErrInvalidArgument, sum)
	}

	return &Roulette{cumulative: cum}, nil
}

// Len returns the number of slots on the wheel
func (r *Roulette) Len() int {
	return len(r.cumulative)
}

// Spin returns the index of one weighted draw.
func (r *Roulette) Spin(rng Source) int {
	total := r.cumulative[len(r.cumulative)-1]
	x := rng.Float64() * total
	i := sort.Search(len(r.cumulative), func(i int) bool { return r.cumulative[i] > x })
	if i == len(r.cumulative) {
		// rounding at the top of the wheel; land on the last non-empty slot
		i = len(r.cumulative) - 1
		for i > 0 && r.cumulative[i] == r.cumulative[i-1] {
			i--
		}
	}
	return i
}

// Select draws one chromosome from pop with replacement.
func (r *Roulette) Select(pop []Chromosome, rng Source) (Chromosome, error) {
	if len(pop) != len(r.cumulative) {
		return "", fmt.Errorf("%w: %d chromosomes for %d probabilities", ErrInvalidArgument, len(pop), len(r.cumulative))
	}
	return pop[r.Spin(rng)], nil
}

// Select performs a single roulette-wheel draw.
func Select(pop []Chromosome, probs []float64, rng Source) (Chromosome, error) {
	wheel, err := NewRoulette(probs)
	if err != nil {
		return "", err
	}
	return wheel.Select(pop, rng)
}
