package ga

import "fmt"

// MaxSplit is the widest split window used by single-point crossover,
// independent of chromosome length.
const MaxSplit = 4

// SplitLocus draws a crossover point in [1, MaxSplit], narrowed to
// [1, length-1] for short chromosomes. A 1-bit chromosome always splits at 1,
// which leaves both parents intact.
func SplitLocus(length int, rng Source) int {
	hi := MaxSplit
	if length < MaxSplit {
		hi = length - 1
	}
	if hi < 1 {
		return length
	}
	return 1 + rng.Intn(hi)
}

// SinglePoint performs single-point crossover at split
func SinglePoint(p1, p2 Chromosome, split int) (Chromosome, Chromosome) {
	c1 := p1[:split] + p2[split:]
	c2 := p2[:split] + p1[split:]
	return c1, c2
}

// Crossover recombines selected parents into the next generation.
type Crossover struct {
	Rate float64
}

// NewCrossover creates a crossover operator gated by rate
func NewCrossover(rate float64) (*Crossover, error) {
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("%w: crossover rate %v outside [0,1]", ErrInvalidArgument, rate)
	}
	return &Crossover{Rate: rate}, nil
}

// Pair resolves one selected pair. The parents are recombined only when the
// rate draw succeeds and they differ; otherwise both pass through verbatim.
func (x *Crossover) Pair(p1, p2 Chromosome, rng Source) (Chromosome, Chromosome) {
	doCross := rng.Float64() < x.Rate
	if !doCross || p1 == p2 {
		return p1, p2
	}
	return SinglePoint(p1, p2, SplitLocus(len(p1), rng))
}

// Extra produces the single additional individual of an odd-sized
// population. second is only called when the rate draw succeeds.
func (x *Crossover) Extra(p1 Chromosome, second func() (Chromosome, error), rng Source) (Chromosome, error) {
	if rng.Float64() >= x.Rate {
		return p1, nil
	}
	p2, err := second()
	if err != nil {
		return "", err
	}
	c1, c2 := SinglePoint(p1, p2, SplitLocus(len(p1), rng))
	if rng.Intn(2) == 0 {
		return c1, nil
	}
	return c2, nil
}

// Breed builds a population of size n from repeated roulette draws: n/2
// resolved pairs, then one extra individual when n is odd.
func (x *Crossover) Breed(pop []Chromosome, wheel *Roulette, n int, rng Source) ([]Chromosome, error) {
	next := make([]Chromosome, 0, n)
	draw := func() (Chromosome, error) { return wheel.Select(pop, rng) }

	for i := 0; i < n/2; i++ {
		p1, err := draw()
		if err != nil {
			return nil, err
		}
		p2, err := draw()
		if err != nil {
			return nil, err
		}
		c1, c2 := x.Pair(p1, p2, rng)
		next = append(next, c1, c2)
	}

	if n%2 == 1 {
		p1, err := draw()
		if err != nil {
			return nil, err
		}
		child, err := x.Extra(p1, draw, rng)
		if err != nil {
			return nil, err
		}
		next = append(next, child)
	}

	return next, nil
}
