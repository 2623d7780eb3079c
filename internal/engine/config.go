package engine

import (
	"fmt"
	"strings"

	"bitopt/internal/ga"
)

// Variant selects which operators run each generation.
type Variant int

const (
	VariantGA         Variant = iota // selection + crossover, stops on convergence
	VariantGAMutation                // adds single-bit mutation
	VariantMemetic                   // adds mutation and local search
)

func (v Variant) String() string {
	switch v {
	case VariantGA:
		return "ga"
	case VariantGAMutation:
		return "ga-mutation"
	case VariantMemetic:
		return "memetic"
	default:
		return "unknown"
	}
}

// ParseVariant maps a variant name to its Variant
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ga", "pure", "":
		return VariantGA, nil
	case "ga-mutation", "mutation":
		return VariantGAMutation, nil
	case "memetic", "ma":
		return VariantMemetic, nil
	default:
		return VariantGA, fmt.Errorf("%w: unknown variant %q", ga.ErrInvalidArgument, s)
	}
}

// Mutates reports whether the variant applies mutation
func (v Variant) Mutates() bool {
	return v == VariantGAMutation || v == VariantMemetic
}

// Config holds the parameters of a single run. It is not modified after New.
type Config struct {
	Variant          Variant
	CrossoverRate    float64
	MutationRate     float64 // ga-mutation and memetic only
	MaxGenerations   int
	ChromosomeLength int
	PopulationSize   int

	// memetic only
	MaxLocalSearchJump    int
	NeighbourSize         int
	LocalSearchIterations int

	// Workers > 1 evaluates fitness concurrently.
	Workers int
}

// Validate rejects malformed configurations.
func (c *Config) Validate() error {
	if c.Variant < VariantGA || c.Variant > VariantMemetic {
		return fmt.Errorf("%w: variant %d", ga.ErrInvalidArgument, c.Variant)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("%w: crossover rate %v outside [0,1]", ga.ErrInvalidArgument, c.CrossoverRate)
	}
	if c.MaxGenerations < 1 {
		return fmt.Errorf("%w: max generations %d < 1", ga.ErrInvalidArgument, c.MaxGenerations)
	}
	if c.ChromosomeLength < 1 || c.ChromosomeLength > ga.MaxLength {
		return fmt.Errorf("%w: chromosome length %d outside [1, %d]", ga.ErrInvalidArgument, c.ChromosomeLength, ga.MaxLength)
	}
	if c.PopulationSize < 1 {
		return fmt.Errorf("%w: population size %d < 1", ga.ErrInvalidArgument, c.PopulationSize)
	}
	if c.Variant.Mutates() && (c.MutationRate < 0 || c.MutationRate > 1) {
		return fmt.Errorf("%w: mutation rate %v outside [0,1]", ga.ErrInvalidArgument, c.MutationRate)
	}
	if c.Variant == VariantMemetic {
		if c.MaxLocalSearchJump < 1 {
			return fmt.Errorf("%w: max local search jump %d < 1", ga.ErrInvalidArgument, c.MaxLocalSearchJump)
		}
		if c.NeighbourSize < 1 {
			return fmt.Errorf("%w: neighbour size %d < 1", ga.ErrInvalidArgument, c.NeighbourSize)
		}
		if c.LocalSearchIterations < 0 {
			return fmt.Errorf("%w: local search iterations %d < 0", ga.ErrInvalidArgument, c.LocalSearchIterations)
		}
	}
	return nil
}
