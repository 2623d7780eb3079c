// Package engine runs the generational loop shared by the pure GA, the GA
// with mutation, and the memetic variant.
//
// Each generation evaluates the population, breeds a replacement through
// roulette selection and single-point crossover, then (depending on the
// variant) mutates and locally refines every individual. All randomness
// comes from the single source handed to New.
package engine

import (
	"context"
	"fmt"

	"bitopt/internal/eval"
	"bitopt/internal/ga"
	"bitopt/internal/objective"
)

// State is the lifecycle position of an Engine
type State int

const (
	Initialized State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Reason explains why a run stopped
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMaxGenerations
	ReasonConverged
	ReasonCanceled
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMaxGenerations:
		return "max_generations"
	case ReasonConverged:
		return "converged"
	case ReasonCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of one generation handed to observers.
// Fitness belongs to the population that was evaluated at the start of the
// generation; Population is the one produced by it. Generation 0 carries
// only the initial population.
type Snapshot struct {
	Generation int
	Population []ga.Chromosome
	Fitness    []float64
	Best       eval.BestRecord
}

// Observer receives a snapshot after every generation.
type Observer interface {
	ObserveGeneration(s Snapshot)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) ObserveGeneration(s Snapshot) { f(s) }

// Result is what a finished run reports.
type Result struct {
	Population  []ga.Chromosome
	Best        eval.BestRecord
	Generations int
	Converged   bool
	Reason      Reason
}

// Engine owns the population and drives the generational loop.
type Engine struct {
	cfg       Config
	rng       ga.Source
	evaluator *eval.Evaluator
	crossover *ga.Crossover
	mutation  *ga.Mutation
	local     *eval.LocalSearch
	observers []Observer

	pop       *ga.Population
	gen       int
	state     State
	converged bool
	reason    Reason
}

// Option configures an Engine
type Option func(*Engine)

// WithObserver registers o to receive every generation snapshot
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithPopulation replaces the random initial population.
func WithPopulation(chroms []ga.Chromosome) Option {
	return func(e *Engine) {
		e.pop = &ga.Population{Chromosomes: append([]ga.Chromosome(nil), chroms...), Length: e.cfg.ChromosomeLength}
	}
}

// New validates cfg and draws the initial population from rng.
func New(cfg Config, obj objective.Objective, rng ga.Source, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: nil objective", ga.ErrInvalidArgument)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ga.ErrInvalidArgument)
	}

	e := &Engine{
		cfg:       cfg,
		rng:       rng,
		evaluator: eval.NewEvaluator(obj, cfg.ChromosomeLength, cfg.Workers),
		state:     Initialized,
	}

	var err error
	if e.crossover, err = ga.NewCrossover(cfg.CrossoverRate); err != nil {
		return nil, err
	}
	if cfg.Variant.Mutates() {
		if e.mutation, err = ga.NewMutation(cfg.MutationRate); err != nil {
			return nil, err
		}
	}
	if cfg.Variant == VariantMemetic {
		e.local, err = eval.NewLocalSearch(e.evaluator, cfg.MaxLocalSearchJump, cfg.NeighbourSize, cfg.LocalSearchIterations)
		if err != nil {
			return nil, err
		}
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.pop == nil {
		e.pop = ga.NewPopulation(cfg.PopulationSize, cfg.ChromosomeLength, rng)
	}
	if err := e.checkPopulation(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Engine) checkPopulation() error {
	if e.pop.Size() != e.cfg.PopulationSize {
		return fmt.Errorf("%w: population has %d chromosomes, want %d", ga.ErrInvalidArgument, e.pop.Size(), e.cfg.PopulationSize)
	}
	if _, err := e.pop.Values(); err != nil {
		return err
	}
	return nil
}

// Population returns a copy of the current population
func (e *Engine) Population() []ga.Chromosome {
	return e.pop.Clone().Chromosomes
}

// Generation returns the number of completed generations
func (e *Engine) Generation() int { return e.gen }

// State returns the lifecycle state
func (e *Engine) State() State { return e.state }

// Best returns the best record observed so far
func (e *Engine) Best() eval.BestRecord { return e.evaluator.Best() }

// Config returns the run configuration
func (e *Engine) Config() Config { return e.cfg }

// Step runs one generation. It is a no-op once the engine has terminated.
func (e *Engine) Step() error {
	if e.state == Terminated {
		return nil
	}
	if e.state == Initialized {
		e.state = Running
	}

	// 1. Evaluate and build the wheel
	fitness, probs, err := e.evaluator.Evaluate(e.pop.Chromosomes)
	if err != nil {
		return fmt.Errorf("generation %d: evaluate: %w", e.gen+1, err)
	}
	wheel, err := ga.NewRoulette(probs)
	if err != nil {
		return fmt.Errorf("generation %d: selection: %w", e.gen+1, err)
	}

	// 2. Selection + crossover
	next, err := e.crossover.Breed(e.pop.Chromosomes, wheel, e.cfg.PopulationSize, e.rng)
	if err != nil {
		return fmt.Errorf("generation %d: breed: %w", e.gen+1, err)
	}
	e.pop.Chromosomes = next

	// 3. Convergence (pure GA only, before any mutation)
	if e.cfg.Variant == VariantGA && e.pop.Converged() {
		e.converged = true
	}

	// 4. Mutation
	if e.mutation != nil {
		e.mutation.MutateAll(e.pop.Chromosomes, e.rng)
	}

	// 5. Local search
	if e.local != nil {
		if err := e.local.RefineAll(e.pop.Chromosomes, e.rng); err != nil {
			return fmt.Errorf("generation %d: local search: %w", e.gen+1, err)
		}
	}

	e.gen++
	e.notify(fitness)

	switch {
	case e.converged:
		e.terminate(ReasonConverged)
	case e.gen >= e.cfg.MaxGenerations:
		e.terminate(ReasonMaxGenerations)
	}
	return nil
}

// Run steps until the generation ceiling or convergence. ctx is checked
// between generations.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if e.state == Initialized && e.gen == 0 {
		e.notify(nil)
	}

	for e.state != Terminated {
		if err := ctx.Err(); err != nil {
			e.terminate(ReasonCanceled)
			return e.Result(), err
		}
		if err := e.Step(); err != nil {
			return e.Result(), err
		}
	}

	return e.Result(), nil
}

// Result reports the current outcome
func (e *Engine) Result() *Result {
	return &Result{
		Population:  e.Population(),
		Best:        e.evaluator.Best(),
		Generations: e.gen,
		Converged:   e.converged,
		Reason:      e.reason,
	}
}

func (e *Engine) terminate(r Reason) {
	e.state = Terminated
	e.reason = r
}

func (e *Engine) notify(fitness []float64) {
	if len(e.observers) == 0 {
		return
	}
	s := Snapshot{
		Generation: e.gen,
		Population: e.Population(),
		Fitness:    append([]float64(nil), fitness...),
		Best:       e.evaluator.Best(),
	}
	for _, o := range e.observers {
		o.ObserveGeneration(s)
	}
}
