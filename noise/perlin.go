package noise

import (
	"math"

	"github.com/pthm-cable/cellnoise/permutation"
)

// Perlin is Ken Perlin's improved gradient noise sliced at z = 0. It walks
// the lattice the classical way, p[p[X]+Y] over a table read modulo 256,
// so with permutation.Reference it reproduces the reference
// implementation's noise(x, y, 0).
type Perlin struct {
	table *permutation.Table
}

// NewPerlin returns gradient noise over table. Panics if table is nil.
func NewPerlin(table *permutation.Table) *Perlin {
	if table == nil {
		panic("noise: NewPerlin called with nil table")
	}
	return &Perlin{table: table}
}

// Noise2D returns a value in roughly [-1, 1]. It is exactly 0 on lattice
// points.
func (p *Perlin) Noise2D(x, y float64) float64 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	X := uint8(int64(fx))
	Y := int(uint8(int64(fy)))

	// Relative position in the cell
	x -= fx
	y -= fy

	u := fade(x)
	v := fade(y)

	a := int(p.table.At(X)) + Y
	b := int(p.table.At(X+1)) + Y

	aa := p.corner(a)
	ab := p.corner(a + 1)
	ba := p.corner(b)
	bb := p.corner(b + 1)

	return lerp(v,
		lerp(u, grad(aa, x, y), grad(ba, x-1, y)),
		lerp(u, grad(ab, x, y-1), grad(bb, x-1, y-1)))
}

// corner is p[p[i]] with z = 0, indices wrapping like the doubled table.
func (p *Perlin) corner(i int) uint8 {
	return p.table.At(p.table.At(uint8(i)))
}

// Sample implements Source.
func (p *Perlin) Sample(q Vec2) Sample {
	return Sample{Value: p.Noise2D(q.X, q.Y)}
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad is the classical 16 case gradient with z = 0.
func grad(hash uint8, x, y float64) float64 {
	h := hash & 15

	u := y
	if h < 8 {
		u = x
	}

	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	}

	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
