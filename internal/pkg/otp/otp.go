package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	// DefaultDigits is the code length used when none is configured.
	DefaultDigits = 6
	// MinDigits is the shortest accepted code length.
	MinDigits = 4
	// MaxDigits is the longest accepted code length.
	MaxDigits = 10
)

// Generator produces numeric passcodes.
type Generator interface {
	Generate() (string, error)
}

// Numeric is a Generator backed by a cryptographically secure random source.
type Numeric struct {
	digits int
	limit  *big.Int
	format string
	rand   io.Reader
}

// NewNumeric returns a generator of n-digit codes. Values outside
// [MinDigits, MaxDigits] fall back to DefaultDigits.
func NewNumeric(n int) *Numeric {
	return newNumeric(n, rand.Reader)
}

func newNumeric(n int, src io.Reader) *Numeric {
	if n < MinDigits || n > MaxDigits {
		n = DefaultDigits
	}

	return &Numeric{
		digits: n,
		limit:  new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil),
		format: fmt.Sprintf("%%0%dd", n),
		rand:   src,
	}
}

// Digits returns the configured code length.
func (g *Numeric) Digits() int {
	return g.digits
}

// Generate returns a new zero-padded code. It fails only when the random
// source does.
func (g *Numeric) Generate() (string, error) {
	v, err := rand.Int(g.rand, g.limit)
	if err != nil {
		return "", fmt.Errorf("otp: read random source: %w", err)
	}
	return fmt.Sprintf(g.format, v), nil
}
