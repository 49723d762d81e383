// Package rng provides small fixed-width pseudo-random generators whose
// output is identical on every platform and Go release.
//
// Noise lookups must never depend on math/rand: its seeded sequences are
// tied to the runtime and the derived helpers (IntN, Shuffle) are free to
// change. Everything here is plain 64-bit integer arithmetic.
package rng

import "math/bits"

// Golden-ratio increment used by SplitMix64.
const splitMixGamma = 0x9e3779b97f4a7c15

// float64Unit is 2^-53, the spacing of the 53-bit mantissa grid in [0,1).
const float64Unit = 1.0 / (1 << 53)

// SplitMix64 is Steele, Lea and Flood's splitting generator. It is tiny,
// has no bad seeds, and a single call is a strong 64-bit mixer, which
// makes it a good fit for seeding from small values such as a hash byte.
type SplitMix64 struct {
	state uint64
}

// NewSplitMix64 returns a generator seeded with seed.
func NewSplitMix64(seed uint64) *SplitMix64 {
	return &SplitMix64{state: seed}
}

// MakeSplitMix64 returns a generator by value, for callers that keep it on
// the stack in hot loops.
func MakeSplitMix64(seed uint64) SplitMix64 {
	return SplitMix64{state: seed}
}

// Uint64 returns the next 64 pseudo-random bits.
func (s *SplitMix64) Uint64() uint64 {
	s.state += splitMixGamma
	return Mix64(s.state)
}

// Float64 returns a uniform value in [0,1) built from the top 53 bits.
func (s *SplitMix64) Float64() float64 {
	return float64(s.Uint64()>>11) * float64Unit
}

// IntN returns a uniform value in [0,n). Panics if n <= 0.
func (s *SplitMix64) IntN(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to IntN")
	}
	bound := uint64(n)
	hi, lo := bits.Mul64(s.Uint64(), bound)
	if lo < bound {
		thresh := -bound % bound
		for lo < thresh {
			hi, lo = bits.Mul64(s.Uint64(), bound)
		}
	}
	return int(hi)
}

// Mix64 is the SplitMix64 finalizer on its own.
func Mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
