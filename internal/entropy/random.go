// Package entropy supplies random bearings for conflict repair.
// The default source draws from crypto/rand; tests use a seeded source so
// repaired layouts are reproducible.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
)

// BearingSource yields bearings in degrees [0, 360).
type BearingSource interface {
	Bearing() float64
}

// CryptoSource draws bearings from crypto/rand. The zero value is ready
// to use.
type CryptoSource struct{}

func (CryptoSource) Bearing() float64 {
	return cryptoFloat() * 360
}

// cryptoFloat returns a uniform float64 in [0, 1) from crypto/rand.
func cryptoFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; 0.5 keeps the
		// repair pass moving if it somehow does.
		return 0.5
	}
	// Use 53 bits for a uniform float64.
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// SeededSource yields a deterministic bearing sequence from a seed.
type SeededSource struct {
	rng *mathrand.Rand
}

// NewSeededSource creates a deterministic source for tests and replays.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{rng: mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) Bearing() float64 {
	return s.rng.Float64() * 360
}
