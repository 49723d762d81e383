package noise

import "math"

// octaveShift offsets each octave so stacked octaves do not reuse the same
// feature points at the origin.
var octaveShift = Vec2{X: 37.21, Y: 91.73}

// Fractal layers several octaves of Worley distance, the cellular version
// of FBM: amplitude starts at 0.5 and is multiplied by Gain per octave,
// frequency by Lacunarity.
type Fractal struct {
	Evaluator  *Evaluator
	Rank       int
	Octaves    int     // at least 1
	Lacunarity float64 // frequency multiplier per octave
	Gain       float64 // amplitude multiplier per octave
	Contrast   float64 // exponent applied to the sum; 0 or 1 disables
}

// Value returns the layered distance at p.
func (f *Fractal) Value(p Vec2) float64 {
	v, _ := f.layered(p)
	return v
}

// Sample implements Source. The cell reported is the base octave's.
func (f *Fractal) Sample(p Vec2) Sample {
	v, base := f.layered(p)
	return Sample{Value: v, Cell: base.Cell, HasCell: true}
}

// layered sums the octaves at p and returns the base octave's result
// alongside.
func (f *Fractal) layered(p Vec2) (float64, Result) {
	octaves := f.Octaves
	if octaves < 1 {
		octaves = 1
	}

	var base Result
	sum := 0.0
	amp := 0.5
	freq := 1.0
	for o := 0; o < octaves; o++ {
		q := p.Scale(freq).Add(octaveShift.Scale(float64(o)))
		r := f.Evaluator.Evaluate(q, f.Rank)
		if o == 0 {
			base = r
		}
		sum += amp * r.Distance
		freq *= f.Lacunarity
		amp *= f.Gain
	}

	if f.Contrast > 0 && f.Contrast != 1 {
		sum = math.Pow(sum, f.Contrast)
	}
	return sum, base
}
