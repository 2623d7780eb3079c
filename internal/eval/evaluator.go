package eval

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"bitopt/internal/ga"
	"bitopt/internal/objective"
)

// ErrInvalidFitness is returned when the objective yields NaN or an infinity.
var ErrInvalidFitness = errors.New("invalid fitness")

// BestRecord is the best chromosome observed so far across a run.
type BestRecord struct {
	Chromosome ga.Chromosome `json:"chromosome"`
	Value      int64         `json:"value"`
	Fitness    float64       `json:"fitness"`
	Found      bool          `json:"found"`
}

// offer replaces the record when fitness is at least the current best, so
// later individuals win ties.
func (b *BestRecord) offer(c ga.Chromosome, value int64, fitness float64) {
	if !b.Found || fitness >= b.Fitness {
		b.Chromosome = c
		b.Value = value
		b.Fitness = fitness
		b.Found = true
	}
}

// Evaluator scores populations against an objective and keeps the best
// record for the run.
type Evaluator struct {
	objective objective.Objective
	length    int
	workers   int
	best      BestRecord
}

// NewEvaluator creates a new evaluator. workers > 1 evaluates chromosomes
// concurrently; the result is identical to sequential evaluation.
func NewEvaluator(obj objective.Objective, length, workers int) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{
		objective: obj,
		length:    length,
		workers:   workers,
	}
}

// Best returns the best record observed so far
func (e *Evaluator) Best() BestRecord {
	return e.best
}

// Fitness evaluates the objective at x
func (e *Evaluator) Fitness(x int64) (float64, error) {
	f, err := e.objective.Evaluate(x)
	if err != nil {
		return 0, fmt.Errorf("objective(%d): %w", x, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: objective(%d) = %v", ErrInvalidFitness, x, f)
	}
	return f, nil
}

// Evaluate scores every chromosome and derives the selection probabilities:
// fitness shifted by |min| and normalized, or uniform when the shifted
// fitness sums to zero. The best record is updated in population order.
func (e *Evaluator) Evaluate(pop []ga.Chromosome) (fitness, probs []float64, err error) {
	if len(pop) == 0 {
		return nil, nil, fmt.Errorf("%w: empty population", ga.ErrInvalidArgument)
	}

	values := make([]int64, len(pop))
	for i, c := range pop {
		values[i], err = ga.Decode(c, e.length)
		if err != nil {
			return nil, nil, err
		}
	}

	fitness = make([]float64, len(pop))
	if e.workers > 1 {
		err = e.evaluateParallel(values, fitness)
	} else {
		for i, v := range values {
			if fitness[i], err = e.Fitness(v); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, nil, err
	}

	// sequential reduction keeps the tie-break identical in both modes
	minFit := math.Inf(1)
	for i, f := range fitness {
		if f < minFit {
			minFit = f
		}
		e.best.offer(pop[i], values[i], f)
	}

	return fitness, Probabilities(fitness, minFit), nil
}

// Probabilities shifts fitness by |minFit| and normalizes it to sum to 1.
// Terms are scaled by the largest magnitude first so that finite fitness
// never overflows the sum.
func Probabilities(fitness []float64, minFit float64) []float64 {
	scale := math.Abs(minFit)
	for _, f := range fitness {
		scale = math.Max(scale, math.Abs(f))
	}

	probs := make([]float64, len(fitness))
	sum := 0.0
	if scale > 0 {
		shift := math.Abs(minFit) / scale
		for i, f := range fitness {
			probs[i] = f/scale + shift
			sum += probs[i]
		}
	}

	if sum == 0 {
		for i := range probs {
			probs[i] = 1 / float64(len(probs))
		}
		return probs
	}

	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func (e *Evaluator) evaluateParallel(values []int64, fitness []float64) error {
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)
	errs := make([]error, len(values))

	for i, v := range values {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, v int64) {
			defer wg.Done()
			defer func() { <-sem }()
			fitness[i], errs[i] = e.Fitness(v)
		}(i, v)
	}
	wg.Wait()

	// report the first failure in population order
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
