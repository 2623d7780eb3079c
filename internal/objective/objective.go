// Package objective provides the functions the optimizer maximizes.
//
// An Objective maps an integer to a real fitness. Local search probes
// integers outside the chromosome domain, so an Objective used with the
// memetic variant must be defined for every int64 it can be handed; wrap
// bit-oriented objectives with Clamped to get that for free.
package objective

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var (
	// ErrUnknownObjective is returned by New for an unrecognized name.
	ErrUnknownObjective = errors.New("unknown objective")
	// ErrInvalidObjective is returned by New for bad objective parameters.
	ErrInvalidObjective = errors.New("invalid objective")
)

// Objective is a scalar function to maximize.
type Objective interface {
	Evaluate(x int64) (float64, error)
}

// Func adapts an infallible function to Objective.
type Func func(x int64) float64

// Evaluate calls f(x)
func (f Func) Evaluate(x int64) (float64, error) {
	return f(x), nil
}

// Polynomial evaluates sum(c[i] * x^i); coefficients are in ascending power.
type Polynomial []float64

// Evaluate computes the polynomial with Horner's rule
func (p Polynomial) Evaluate(x int64) (float64, error) {
	fx := float64(x)
	sum := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		sum = sum*fx + p[i]
	}
	return sum, nil
}

// Quadratic is -x^2 + 8x + 15, maximized at x=4 with f=31.
var Quadratic = Polynomial{15, 8, -1}

// OneMax counts set bits among the low length bits.
type OneMax struct {
	Length int
}

func (o OneMax) Evaluate(x int64) (float64, error) {
	return float64(bits.OnesCount64(uint64(x) & mask(o.Length))), nil
}

// DeceptiveTrap scores consecutive blocks of K bits, MSB first. A full block
// scores K; otherwise the block scores K-ones-1, pulling search away from
// the optimum.
type DeceptiveTrap struct {
	K      int
	Length int
}

func (dt DeceptiveTrap) Evaluate(x int64) (fitness float64, err error) {
	u := uint64(x) & mask(dt.Length)
	for i := 0; i < dt.Length/dt.K; i++ {
		shift := uint(dt.Length - (i+1)*dt.K)
		t := bits.OnesCount64((u >> shift) & mask(dt.K))
		if t == dt.K {
			fitness += float64(t)
		} else {
			fitness += float64(dt.K - t - 1)
		}
	}
	return
}

// Clamped evaluates inner at x clamped to [0, 2^length-1].
func Clamped(inner Objective, length int) Objective {
	return clamped{inner: inner, max: int64(1)<<uint(length) - 1}
}

type clamped struct {
	inner Objective
	max   int64
}

func (c clamped) Evaluate(x int64) (float64, error) {
	if x < 0 {
		x = 0
	} else if x > c.max {
		x = c.max
	}
	return c.inner.Evaluate(x)
}

func mask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<uint(n) - 1
}

// Spec names a built-in objective and its parameters.
type Spec struct {
	Name         string    `yaml:"name" json:"name"`
	Coefficients []float64 `yaml:"coefficients" json:"coefficients,omitempty"`
	TrapSize     int       `yaml:"trap_size" json:"trap_size,omitempty"`
}

// New builds the objective named by spec for chromosomes of length bits.
func New(spec Spec, length int) (Objective, error) {
	switch strings.ToLower(spec.Name) {
	case "", "quadratic":
		if len(spec.Coefficients) > 0 {
			return Polynomial(spec.Coefficients), nil
		}
		return Quadratic, nil
	case "polynomial":
		if len(spec.Coefficients) == 0 {
			return nil, fmt.Errorf("%w: polynomial needs coefficients", ErrInvalidObjective)
		}
		return Polynomial(spec.Coefficients), nil
	case "onemax":
		return Clamped(OneMax{Length: length}, length), nil
	case "trap":
		k := spec.TrapSize
		if k <= 0 || k > length {
			return nil, fmt.Errorf("%w: trap size %d outside [1, %d]", ErrInvalidObjective, k, length)
		}
		return Clamped(DeceptiveTrap{K: k, Length: length}, length), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownObjective, spec.Name)
	}
}
