package noise

import "github.com/ojrac/opensimplex-go"

// Warp displaces sample positions with smooth simplex noise before they
// reach a cellular source, bending the straight Voronoi edges.
type Warp struct {
	Amplitude float64 // maximum displacement in noise units
	Frequency float64 // simplex frequency relative to sample space

	x, y opensimplex.Noise
}

// NewWarp returns a warp whose x and y displacement fields come from two
// simplex generators seeded seed and seed+1.
func NewWarp(seed int64, amplitude, frequency float64) *Warp {
	return &Warp{
		Amplitude: amplitude,
		Frequency: frequency,
		x:         opensimplex.New(seed),
		y:         opensimplex.New(seed + 1),
	}
}

// Apply returns p displaced by the warp field. A nil warp or zero
// amplitude returns p unchanged.
func (w *Warp) Apply(p Vec2) Vec2 {
	if w == nil || w.Amplitude == 0 {
		return p
	}
	fx := p.X * w.Frequency
	fy := p.Y * w.Frequency
	return Vec2{
		X: p.X + w.Amplitude*w.x.Eval2(fx, fy),
		Y: p.Y + w.Amplitude*w.y.Eval2(fx, fy),
	}
}
