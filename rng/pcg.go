package rng

import "math/bits"

const (
	pcgMultiplier = 6364136223846793005
)

// PCG32 is the 64-bit state / 32-bit output member of the PCG family
// (LCG transition, XSH-RR output), also known as Lcg64Xsh32.
type PCG32 struct {
	state     uint64
	increment uint64
}

// NewPCG32 expands seed through SplitMix64 into a state and a stream so
// that nearby seeds start far apart.
func NewPCG32(seed uint64) *PCG32 {
	sm := MakeSplitMix64(seed)
	state := sm.Uint64()
	stream := sm.Uint64()
	return NewPCG32Stream(state, stream)
}

// NewPCG32Stream seeds the generator the way the PCG reference does:
// the stream selects the (odd) increment, then the state is mixed in
// between two steps.
func NewPCG32Stream(state, stream uint64) *PCG32 {
	p := &PCG32{increment: stream<<1 | 1}
	p.step()
	p.state += state
	p.step()
	return p
}

func (p *PCG32) step() {
	p.state = p.state*pcgMultiplier + p.increment
}

// Uint32 returns the next 32 pseudo-random bits.
func (p *PCG32) Uint32() uint32 {
	old := p.state
	p.step()
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Uint64 returns two consecutive outputs, low word first.
func (p *PCG32) Uint64() uint64 {
	lo := uint64(p.Uint32())
	hi := uint64(p.Uint32())
	return hi<<32 | lo
}

// IntN returns a uniform value in [0,n) using Lemire's multiply-shift
// with rejection. n must fit in 32 bits. Panics if n <= 0.
func (p *PCG32) IntN(n int) int {
	if n <= 0 || uint64(n) > 1<<32-1 {
		panic("rng: invalid argument to IntN")
	}
	bound := uint32(n)
	m := uint64(p.Uint32()) * uint64(bound)
	if uint32(m) < bound {
		thresh := -bound % bound
		for uint32(m) < thresh {
			m = uint64(p.Uint32()) * uint64(bound)
		}
	}
	return int(m >> 32)
}

// Shuffle performs a Fisher-Yates shuffle over n elements, walking from
// the end of the slice toward the front.
func (p *PCG32) Shuffle(n int, swap func(i, j int)) {
	if n < 0 {
		panic("rng: invalid argument to Shuffle")
	}
	for i := n - 1; i > 0; i-- {
		j := p.IntN(i + 1)
		swap(i, j)
	}
}
