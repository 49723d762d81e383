// Package sampler evaluates a noise source over a regular grid, spreading
// rows across a pool of worker goroutines that share one immutable source.
package sampler

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/cellnoise/noise"
)

// parallelThreshold is the minimum sample count to use the worker pool.
// Below this, a single goroutine is faster than the dispatch overhead.
const parallelThreshold = 4096

// Grid describes a rectangle of sample points. Sample (x, y) sits at
// Origin + (x*Step, y*Step).
type Grid struct {
	Width  int
	Height int
	Step   float64
	Origin noise.Vec2
}

// Len returns the number of samples in the grid.
func (g Grid) Len() int {
	return g.Width * g.Height
}

// Point returns the noise-space position of sample (x, y).
func (g Grid) Point(x, y int) noise.Vec2 {
	return noise.Vec2{
		X: g.Origin.X + float64(x)*g.Step,
		Y: g.Origin.Y + float64(y)*g.Step,
	}
}

// Field holds one sampled grid in row-major order.
type Field struct {
	Grid   Grid
	Values []float64
	Cells  []noise.Cell // feature cell per sample; nil for sources without one
}

// At returns the value at (x, y).
func (f *Field) At(x, y int) float64 {
	return f.Values[y*f.Grid.Width+x]
}

// CellAt returns the feature cell at (x, y). ok is false when the source
// does not report cells.
func (f *Field) CellAt(x, y int) (noise.Cell, bool) {
	if f.Cells == nil {
		return noise.Cell{}, false
	}
	return f.Cells[y*f.Grid.Width+x], true
}

// workChunk is a band of rows for a worker to fill.
type workChunk struct {
	src        noise.Source
	field      *Field
	start, end int
}

// Sampler owns a persistent worker pool. A Sampler is not safe for
// concurrent Sample calls; the sources it evaluates must be.
type Sampler struct {
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// New returns a sampler with the given number of workers. workers < 1
// uses runtime.GOMAXPROCS(0).
func New(workers int) *Sampler {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Sampler{numWorkers: workers}
}

// Workers returns the pool size.
func (s *Sampler) Workers() int {
	return s.numWorkers
}

// Sample evaluates src at every point of g. The result does not depend on
// the number of workers.
func (s *Sampler) Sample(src noise.Source, g Grid) *Field {
	field := &Field{
		Grid:   g,
		Values: make([]float64, g.Len()),
	}
	if g.Len() == 0 {
		return field
	}

	// Probe the first sample to learn whether the source reports cells.
	if src.Sample(g.Point(0, 0)).HasCell {
		field.Cells = make([]noise.Cell, g.Len())
	}

	if g.Len() < parallelThreshold || s.numWorkers == 1 {
		fillRows(src, field, 0, g.Height)
		return field
	}

	s.sampleParallel(src, field)
	return field
}

// sampleParallel dispatches one band of rows per worker and waits.
func (s *Sampler) sampleParallel(src noise.Source, field *Field) {
	if !s.running {
		s.startWorkers()
	}

	rows := field.Grid.Height
	chunkSize := (rows + s.numWorkers - 1) / s.numWorkers

	chunksDispatched := 0
	for w := 0; w < s.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		if start >= end {
			continue
		}

		s.workChan <- workChunk{src: src, field: field, start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-s.doneChan
	}
}

// startWorkers launches persistent worker goroutines.
func (s *Sampler) startWorkers() {
	s.workChan = make(chan workChunk, s.numWorkers)
	s.doneChan = make(chan struct{}, s.numWorkers)
	s.stopChan = make(chan struct{})
	s.running = true

	for i := 0; i < s.numWorkers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// worker processes chunks until stopped.
func (s *Sampler) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopChan:
			return
		case chunk, ok := <-s.workChan:
			if !ok {
				return
			}
			fillRows(chunk.src, chunk.field, chunk.start, chunk.end)
			s.doneChan <- struct{}{}
		}
	}
}

// Close stops the worker pool. The sampler can be reused afterwards; the
// pool restarts on the next large Sample call.
func (s *Sampler) Close() {
	if !s.running {
		return
	}

	close(s.stopChan)
	s.wg.Wait()
	close(s.workChan)
	close(s.doneChan)
	s.running = false
}

// fillRows evaluates rows [start, end) of field.
func fillRows(src noise.Source, field *Field, start, end int) {
	g := field.Grid
	for y := start; y < end; y++ {
		row := y * g.Width
		for x := 0; x < g.Width; x++ {
			smp := src.Sample(g.Point(x, y))
			field.Values[row+x] = smp.Value
			if field.Cells != nil {
				field.Cells[row+x] = smp.Cell
			}
		}
	}
}
