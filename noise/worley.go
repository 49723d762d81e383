// Package noise evaluates cellular (Worley) noise and a few companions
// built on the same permutation table.
//
// Every unit cell owns one feature point whose offset is derived from the
// table hash of the cell index. A query floors the sample into its cell,
// scans the surrounding (2r+1)^2 cells, ranks their feature points by
// distance and returns the one at the requested rank (0 is nearest).
package noise

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/pthm-cable/cellnoise/permutation"
)

// DefaultRadius scans the 3x3 block around the sample's cell. That finds
// the nearest and second nearest feature points with high probability but
// not certainty (a point two cells away can beat a badly placed
// neighbour); raise Radius when higher ranks must be exact.
const DefaultRadius = 1

// Options configures an Evaluator. The zero value is Euclidean, radius 1,
// full jitter.
type Options struct {
	Metric Metric
	Radius int     // neighbourhood radius in cells; 0 means DefaultRadius
	Jitter float64 // spread of feature offsets in (0,1]; 0 means 1
}

// DefaultOptions returns the classic 3x3 Euclidean configuration.
func DefaultOptions() Options {
	return Options{Metric: Euclidean, Radius: DefaultRadius, Jitter: 1}
}

// Result is one ranked feature point.
type Result struct {
	Distance float64
	Position Vec2  // feature point in world space
	Cell     Cell  // cell that owns the feature point
	Hash     uint8 // table hash of Cell
}

// Feature returns the result as a FeaturePoint.
func (r Result) Feature() FeaturePoint {
	return FeaturePoint{Cell: r.Cell, Offset: r.Position.Sub(r.Cell.Origin()), Hash: r.Hash}
}

// Evaluator ranks feature points around sample positions. It holds no
// mutable state, so one instance can serve any number of goroutines.
type Evaluator struct {
	table  *permutation.Table
	metric Metric
	radius int32
	jitter float64
	size   int
}

// NewEvaluator returns an evaluator over table. Panics if table is nil,
// Radius is negative or Jitter is outside [0,1].
func NewEvaluator(table *permutation.Table, opts Options) *Evaluator {
	if table == nil {
		panic("noise: NewEvaluator called with nil table")
	}
	if opts.Radius < 0 {
		panic(fmt.Sprintf("noise: negative radius %d", opts.Radius))
	}
	if opts.Jitter < 0 || opts.Jitter > 1 {
		panic(fmt.Sprintf("noise: jitter %v outside [0,1]", opts.Jitter))
	}

	radius := opts.Radius
	if radius == 0 {
		radius = DefaultRadius
	}
	jitter := opts.Jitter
	if jitter == 0 {
		jitter = 1
	}
	side := 2*radius + 1

	return &Evaluator{
		table:  table,
		metric: opts.Metric,
		radius: int32(radius),
		jitter: jitter,
		size:   side * side,
	}
}

// Evaluate is the one-shot form: 3x3 neighbourhood, full jitter.
// Panics if rank is outside [0,9).
func Evaluate(sample Vec2, table *permutation.Table, metric Metric, rank int) Result {
	return NewEvaluator(table, Options{Metric: metric}).Evaluate(sample, rank)
}

// Table returns the permutation table the evaluator hashes with.
func (e *Evaluator) Table() *permutation.Table { return e.table }

// Metric returns the configured distance metric.
func (e *Evaluator) Metric() Metric { return e.metric }

// Radius returns the neighbourhood radius in cells.
func (e *Evaluator) Radius() int { return int(e.radius) }

// Size returns the number of feature points ranked per query, which is
// also the exclusive upper bound on rank.
func (e *Evaluator) Size() int { return e.size }

// Evaluate returns the feature point at rank for sample. Panics if rank is
// outside [0, Size()).
//
// Cell indices are int32, so Result.Cell is only meaningful while both
// coordinates lie in [-2^31, 2^31). Distance and Position are computed in
// float64 and stay in the sample's frame beyond that; Cell and Feature do
// not.
func (e *Evaluator) Evaluate(sample Vec2, rank int) Result {
	e.checkRank(rank)
	if e.size <= 9 {
		var stack [9]Result
		return e.RankInto(sample, stack[:0])[rank]
	}
	return e.RankInto(sample, make([]Result, 0, e.size))[rank]
}

// Rank returns every feature point in the neighbourhood, nearest first.
func (e *Evaluator) Rank(sample Vec2) []Result {
	return e.RankInto(sample, make([]Result, 0, e.size))
}

// RankInto is Rank writing into buf[:0], growing it if needed. Ties keep
// scan order (row by row from the lower-left neighbour), so output is
// stable across runs.
func (e *Evaluator) RankInto(sample Vec2, buf []Result) []Result {
	cell := sample.Floor()
	frac := sample.Frac()
	base := Vec2{math.Floor(sample.X), math.Floor(sample.Y)}
	r := e.radius

	buf = buf[:0]
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			n := cell.Add(dx, dy)
			h := e.table.Hash2(n.X, n.Y)
			off := jittered(offsetTable[h], e.jitter)

			local := Vec2{float64(dx) + off.X, float64(dy) + off.Y}
			buf = append(buf, Result{
				Distance: e.metric.Distance(frac, local),
				Position: Vec2{base.X + float64(dx) + off.X, base.Y + float64(dy) + off.Y},
				Cell:     n,
				Hash:     h,
			})
		}
	}

	slices.SortStableFunc(buf, func(a, b Result) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return buf
}

// Feature returns the feature point owned by cell.
func (e *Evaluator) Feature(cell Cell) FeaturePoint {
	h := e.table.Hash2(cell.X, cell.Y)
	return FeaturePoint{Cell: cell, Offset: jittered(offsetTable[h], e.jitter), Hash: h}
}

func (e *Evaluator) checkRank(rank int) {
	if rank < 0 || rank >= e.size {
		panic(fmt.Sprintf("noise: rank %d outside [0,%d)", rank, e.size))
	}
}
