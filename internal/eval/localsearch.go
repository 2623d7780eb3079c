package eval

import (
	"fmt"

	"bitopt/internal/ga"
)

// LocalSearch refines individuals by steepest ascent over randomly sampled
// integer neighbourhoods.
type LocalSearch struct {
	eval          *Evaluator
	MaxJump       int
	NeighbourSize int
	Iterations    int
}

// NewLocalSearch creates a local search that scores candidates through e.
// It does not touch e's best record.
func NewLocalSearch(e *Evaluator, maxJump, neighbourSize, iterations int) (*LocalSearch, error) {
	if maxJump < 1 {
		return nil, fmt.Errorf("%w: max local search jump %d < 1", ga.ErrInvalidArgument, maxJump)
	}
	if neighbourSize < 1 {
		return nil, fmt.Errorf("%w: neighbour size %d < 1", ga.ErrInvalidArgument, neighbourSize)
	}
	if iterations < 0 {
		return nil, fmt.Errorf("%w: local search iterations %d < 0", ga.ErrInvalidArgument, iterations)
	}
	return &LocalSearch{
		eval:          e,
		MaxJump:       maxJump,
		NeighbourSize: neighbourSize,
		Iterations:    iterations,
	}, nil
}

// Neighbours samples NeighbourSize integers around val, each val+step or
// val-step with step uniform in [1, MaxJump].
func (ls *LocalSearch) Neighbours(val int64, rng ga.Source) []int64 {
	out := make([]int64, ls.NeighbourSize)
	for i := range out {
		up := rng.Intn(2) == 1
		step := int64(1 + rng.Intn(ls.MaxJump))
		if up {
			out[i] = val + step
		} else {
			out[i] = val - step
		}
	}
	return out
}

// Climb runs Iterations steps from val and returns where it ended with its
// fitness. A neighbour is taken only on strict improvement, so the returned
// fitness is never below the starting fitness. The result may lie outside
// the chromosome domain.
func (ls *LocalSearch) Climb(val int64, rng ga.Source) (int64, float64, error) {
	bestFit, err := ls.eval.Fitness(val)
	if err != nil {
		return 0, 0, err
	}

	for it := 0; it < ls.Iterations; it++ {
		stepBest := val
		for _, n := range ls.Neighbours(val, rng) {
			fit, err := ls.eval.Fitness(n)
			if err != nil {
				return 0, 0, err
			}
			if fit > bestFit {
				stepBest = n
				bestFit = fit
			}
		}
		val = stepBest
	}

	return val, bestFit, nil
}

// Refine decodes c, climbs, and encodes the result back, clamped to the
// chromosome domain.
func (ls *LocalSearch) Refine(c ga.Chromosome, rng ga.Source) (ga.Chromosome, error) {
	val, err := ga.Decode(c, ls.eval.length)
	if err != nil {
		return "", err
	}
	val, _, err = ls.Climb(val, rng)
	if err != nil {
		return "", err
	}
	return ga.Encode(val, ls.eval.length), nil
}

// RefineAll refines every chromosome in place
func (ls *LocalSearch) RefineAll(chroms []ga.Chromosome, rng ga.Source) error {
	for i, c := range chroms {
		refined, err := ls.Refine(c, rng)
		if err != nil {
			return fmt.Errorf("refine chromosome %d: %w", i, err)
		}
		chroms[i] = refined
	}
	return nil
}
