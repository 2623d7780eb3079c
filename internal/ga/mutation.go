package ga

import "fmt"

// Mutation flips one random bit per chromosome with probability Rate.
type Mutation struct {
	Rate float64
}

// NewMutation creates a single-bit-flip mutation operator
func NewMutation(rate float64) (*Mutation, error) {
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("%w: mutation rate %v outside [0,1]", ErrInvalidArgument, rate)
	}
	return &Mutation{Rate: rate}, nil
}

// Mutate returns c with one uniformly chosen locus flipped, or c itself.
func (m *Mutation) Mutate(c Chromosome, rng Source) Chromosome {
	if rng.Float64() >= m.Rate || len(c) == 0 {
		return c
	}
	return c.Flip(rng.Intn(len(c)))
}

// MutateAll applies Mutate to every chromosome in place
func (m *Mutation) MutateAll(chroms []Chromosome, rng Source) {
	for i, c := range chroms {
		chroms[i] = m.Mutate(c, rng)
	}
}
