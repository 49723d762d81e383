package noise

import "github.com/pthm-cable/cellnoise/rng"

// FeaturePoint is the single random point a cell contributes.
type FeaturePoint struct {
	Cell   Cell
	Offset Vec2  // position inside Cell, components in [0,1)
	Hash   uint8 // table hash of Cell that seeded Offset
}

// Position returns the feature point in world space.
func (f FeaturePoint) Position() Vec2 {
	return f.Cell.Origin().Add(f.Offset)
}

// FeatureOffset maps a cell hash to the feature point's offset inside the
// cell. The byte is widened to a 64-bit SplitMix64 seed and two draws are
// taken, x first. Offsets are not kept away from the cell edges, so two
// neighbouring points can sit almost on top of each other.
func FeatureOffset(h uint8) Vec2 {
	g := rng.MakeSplitMix64(uint64(h))
	x := g.Float64()
	y := g.Float64()
	return Vec2{x, y}
}

// offsetTable caches FeatureOffset for every possible hash byte. There are
// only 256 distinct offsets, and the evaluator hot loop reads this instead
// of reseeding a generator nine times per sample.
var offsetTable = func() (t [256]Vec2) {
	for i := range t {
		t[i] = FeatureOffset(uint8(i))
	}
	return t
}()

// jittered pulls an offset toward the cell centre. jitter == 1 returns the
// offset untouched.
func jittered(o Vec2, jitter float64) Vec2 {
	if jitter == 1 {
		return o
	}
	return Vec2{
		0.5 + (o.X-0.5)*jitter,
		0.5 + (o.Y-0.5)*jitter,
	}
}
