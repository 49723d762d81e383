package sampler

import (
	"testing"

	"github.com/pthm-cable/cellnoise/noise"
	"github.com/pthm-cable/cellnoise/permutation"
)

func worleySource(seed uint64) noise.Source {
	return noise.NewEvaluator(permutation.New(seed), noise.DefaultOptions()).Source(0)
}

func TestGridPoint(t *testing.T) {
	g := Grid{Width: 4, Height: 3, Step: 0.5, Origin: noise.V(-1, 2)}
	if g.Len() != 12 {
		t.Errorf("Len = %d, want 12", g.Len())
	}
	if p := g.Point(0, 0); p != noise.V(-1, 2) {
		t.Errorf("Point(0,0) = %v", p)
	}
	if p := g.Point(3, 2); p != noise.V(0.5, 3) {
		t.Errorf("Point(3,2) = %v", p)
	}
}

func TestSampleMatchesDirectEvaluation(t *testing.T) {
	tbl := permutation.Reference()
	e := noise.NewEvaluator(tbl, noise.DefaultOptions())
	g := Grid{Width: 16, Height: 8, Step: 0.25}

	s := New(2)
	defer s.Close()
	f := s.Sample(e.Source(0), g)

	if f.At(0, 0) != 0.2892007788599862 {
		t.Errorf("origin sample = %v, want golden 0.2892007788599862", f.At(0, 0))
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			want := e.Evaluate(g.Point(x, y), 0)
			if f.At(x, y) != want.Distance {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, f.At(x, y), want.Distance)
			}
			if c, ok := f.CellAt(x, y); !ok || c != want.Cell {
				t.Fatalf("(%d,%d) cell = %v, want %v", x, y, c, want.Cell)
			}
		}
	}
}

func TestSampleIndependentOfWorkerCount(t *testing.T) {
	src := worleySource(0x5EED)
	g := Grid{Width: 97, Height: 83, Step: 0.07, Origin: noise.V(-3, -3)}
	if g.Len() < parallelThreshold {
		t.Fatalf("grid too small to exercise the pool: %d", g.Len())
	}

	single := New(1)
	ref := single.Sample(src, g)

	for _, workers := range []int{2, 3, 8, 0} {
		s := New(workers)
		got := s.Sample(src, g)
		s.Close()

		for i := range ref.Values {
			if got.Values[i] != ref.Values[i] || got.Cells[i] != ref.Cells[i] {
				t.Fatalf("workers=%d: sample %d differs", workers, i)
			}
		}
	}
}

func TestSamplerReuseAfterClose(t *testing.T) {
	src := worleySource(1)
	g := Grid{Width: 80, Height: 80, Step: 0.1}

	s := New(4)
	first := s.Sample(src, g)
	s.Close()
	s.Close()
	second := s.Sample(src, g)
	s.Close()

	for i := range first.Values {
		if first.Values[i] != second.Values[i] {
			t.Fatalf("sample %d differs after restart", i)
		}
	}
}

func TestSampleWithoutCells(t *testing.T) {
	s := New(1)
	f := s.Sample(noise.NewPerlin(permutation.Reference()), Grid{Width: 5, Height: 5, Step: 0.3})
	if f.Cells != nil {
		t.Error("Perlin field should not carry cells")
	}
	if _, ok := f.CellAt(1, 1); ok {
		t.Error("CellAt reported a cell for Perlin")
	}
	if f.At(0, 0) != 0 {
		t.Errorf("Perlin at lattice origin = %v, want 0", f.At(0, 0))
	}
}

func TestSampleEmptyGrid(t *testing.T) {
	f := New(2).Sample(worleySource(1), Grid{})
	if len(f.Values) != 0 || f.Cells != nil {
		t.Errorf("empty grid produced %d values", len(f.Values))
	}
}

func BenchmarkSample256(b *testing.B) {
	src := worleySource(1)
	g := Grid{Width: 256, Height: 256, Step: 1.0 / 32}
	s := New(0)
	defer s.Close()

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		s.Sample(src, g)
	}
}
