package ga

import (
	"fmt"
	"math/rand"
	"strings"
)

// Source is the slice of *rand.Rand the operators draw from.
type Source interface {
	Float64() float64
	Intn(n int) int
}

var _ Source = (*rand.Rand)(nil)

// Population manages the chromosomes of one generation
type Population struct {
	Chromosomes []Chromosome
	Length      int
}

// NewPopulation creates a new random population
func NewPopulation(size, length int, rng Source) *Population {
	p := &Population{
		Chromosomes: make([]Chromosome, size),
		Length:      length,
	}

	for i := 0; i < size; i++ {
		p.Chromosomes[i] = RandomChromosome(length, rng)
	}

	return p
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Chromosomes)
}

// Converged reports whether every chromosome is bit-identical.
func (p *Population) Converged() bool {
	if len(p.Chromosomes) == 0 {
		return false
	}
	first := p.Chromosomes[0]
	for _, c := range p.Chromosomes[1:] {
		if c != first {
			return false
		}
	}
	return true
}

// Distinct returns the number of different chromosomes in the population
func (p *Population) Distinct() int {
	seen := make(map[Chromosome]struct{}, len(p.Chromosomes))
	for _, c := range p.Chromosomes {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// Clone creates a copy that shares no backing array with p
func (p *Population) Clone() *Population {
	chroms := make([]Chromosome, len(p.Chromosomes))
	copy(chroms, p.Chromosomes)
	return &Population{Chromosomes: chroms, Length: p.Length}
}

// Values decodes every chromosome.
func (p *Population) Values() ([]int64, error) {
	vals := make([]int64, len(p.Chromosomes))
	for i, c := range p.Chromosomes {
		v, err := Decode(c, p.Length)
		if err != nil {
			return nil, fmt.Errorf("chromosome %d: %w", i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func (p *Population) String() string {
	parts := make([]string, len(p.Chromosomes))
	for i, c := range p.Chromosomes {
		parts[i] = "'" + string(c) + "'"
	}
	return "[" + strings.Join(parts, " ") + "]"
}
