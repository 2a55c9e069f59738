package otp

import (
	"crypto/rand"
	"errors"
	"io"
)

// ErrInvalidLength is returned for a non-positive code length.
var ErrInvalidLength = errors.New("otp: code length must be positive")

// Generator creates random codes of a requested length.
type Generator interface {
	Generate(length int) (string, error)
}

// NumericGenerator draws decimal digits from a cryptographically secure source.
type NumericGenerator struct {
	rand io.Reader
}

// NewNumericGenerator reads from crypto/rand.
func NewNumericGenerator() *NumericGenerator {
	return &NumericGenerator{rand: rand.Reader}
}

// NewNumericGeneratorWithReader is used by tests to inject a deterministic source.
func NewNumericGeneratorWithReader(r io.Reader) *NumericGenerator {
	return &NumericGenerator{rand: r}
}

// Generate returns exactly length digits. Bytes >= 250 are discarded so every
// digit is equally likely.
func (g *NumericGenerator) Generate(length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}

	code := make([]byte, 0, length)
	buf := make([]byte, length+length/2)

	for len(code) < length {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", err
		}

		for _, b := range buf {
			if b >= 250 {
				continue
			}
			code = append(code, '0'+b%10)
			if len(code) == length {
				break
			}
		}
	}

	return string(code), nil
}
