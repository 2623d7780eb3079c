package ga

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxLength is the longest supported chromosome. Decoded values and their
// local-search neighbours must fit in an int64.
const MaxLength = 62

var (
	// ErrInvalidChromosome is returned when a bit string cannot be decoded.
	ErrInvalidChromosome = errors.New("invalid chromosome")
	// ErrInvalidArgument is returned for malformed operator inputs or config.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Chromosome is a fixed-length bit string, most significant bit first.
type Chromosome string

// Len returns the number of bits
func (c Chromosome) Len() int {
	return len(c)
}

// Bit reports whether the bit at locus i is set
func (c Chromosome) Bit(i int) bool {
	return c[i] == '1'
}

// Flip returns a copy of c with the bit at locus i inverted.
func (c Chromosome) Flip(i int) Chromosome {
	b := []byte(c)
	if b[i] == '0' {
		b[i] = '1'
	} else {
		b[i] = '0'
	}
	return Chromosome(b)
}

// Ones counts the set bits
func (c Chromosome) Ones() int {
	return strings.Count(string(c), "1")
}

// Decode interprets c as an unsigned binary integer of exactly length bits.
func Decode(c Chromosome, length int) (int64, error) {
	if len(c) != length {
		return 0, fmt.Errorf("%w: %q has %d bits, want %d", ErrInvalidChromosome, string(c), len(c), length)
	}
	if length < 1 || length > MaxLength {
		return 0, fmt.Errorf("%w: length %d outside [1, %d]", ErrInvalidChromosome, length, MaxLength)
	}
	var v int64
	for i := 0; i < len(c); i++ {
		switch c[i] {
		case '0':
			v <<= 1
		case '1':
			v = v<<1 | 1
		default:
			return 0, fmt.Errorf("%w: %q contains %q at %d", ErrInvalidChromosome, string(c), c[i], i)
		}
	}
	return v, nil
}

// Encode converts value to a chromosome of exactly length bits. Values
// outside [0, 2^length-1] are clamped to the nearest bound.
func Encode(value int64, length int) Chromosome {
	value = Clamp(value, length)
	s := strconv.FormatInt(value, 2)
	if pad := length - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return Chromosome(s)
}

// Clamp limits value to the domain representable with length bits.
func Clamp(value int64, length int) int64 {
	if value < 0 {
		return 0
	}
	if max := MaxValue(length); value > max {
		return max
	}
	return value
}

// MaxValue returns 2^length - 1
func MaxValue(length int) int64 {
	return int64(1)<<uint(length) - 1
}

// RandomChromosome draws each bit uniformly.
func RandomChromosome(length int, rng Source) Chromosome {
	b := make([]byte, length)
	for i := range b {
		if rng.Intn(2) == 1 {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return Chromosome(b)
}
