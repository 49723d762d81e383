package noise

// Sample is a scalar noise value and, for cellular sources, the cell whose
// feature point produced it.
type Sample struct {
	Value   float64
	Cell    Cell
	HasCell bool
}

// Source is anything that can be sampled at a point. Implementations must
// be safe for concurrent use.
type Source interface {
	Sample(p Vec2) Sample
}

// worleySource samples one rank of an evaluator.
type worleySource struct {
	e    *Evaluator
	rank int
}

// Source returns a Source yielding the rank-th distance. Panics if rank is
// out of range.
func (e *Evaluator) Source(rank int) Source {
	e.checkRank(rank)
	return worleySource{e: e, rank: rank}
}

func (s worleySource) Sample(p Vec2) Sample {
	r := s.e.Evaluate(p, s.rank)
	return Sample{Value: r.Distance, Cell: r.Cell, HasCell: true}
}

// Warped applies a domain warp before delegating.
type Warped struct {
	Source Source
	Warp   *Warp
}

func (w Warped) Sample(p Vec2) Sample {
	return w.Source.Sample(w.Warp.Apply(p))
}
