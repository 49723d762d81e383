// Package telemetry summarises sampled noise fields and records runs as
// CSV and YAML.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/cellnoise/config"
	"github.com/pthm-cable/cellnoise/permutation"
	"github.com/pthm-cable/cellnoise/sampler"
)

// sampleBatch bounds how many sample rows are buffered per CSV write.
const sampleBatch = 4096

// SampleRecord is one row of samples.csv.
type SampleRecord struct {
	Pass  int     `csv:"pass"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	Value float64 `csv:"value"`
	CellX int32   `csv:"cell_x"`
	CellY int32   `csv:"cell_y"`
}

// csvFile is an output file whose header is written with the first record.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	// Subsequent writes skip headers
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles run output in a directory.
type OutputManager struct {
	dir string

	stats     *csvFile
	perf      *csvFile
	histogram *csvFile
	samples   *csvFile // nil unless sample dumps are enabled
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled); every method is a no-op
// on a nil manager.
func NewOutputManager(dir string, writeSamples bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	type target struct {
		name string
		dst  **csvFile
	}
	names := []target{
		{"stats.csv", &om.stats},
		{"perf.csv", &om.perf},
		{"histogram.csv", &om.histogram},
	}
	if writeSamples {
		names = append(names, target{"samples.csv", &om.samples})
	}

	for _, n := range names {
		f, err := os.Create(filepath.Join(dir, n.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", n.name, err)
		}
		*n.dst = &csvFile{f: f}
	}

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTable saves the permutation table grid used for the run.
func (om *OutputManager) WriteTable(t *permutation.Table) error {
	if om == nil {
		return nil
	}
	path := filepath.Join(om.dir, "table.txt")
	if err := os.WriteFile(path, []byte(t.String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing table.txt: %w", err)
	}
	return nil
}

// WriteStats appends a field stats record to stats.csv and its histogram
// to histogram.csv.
func (om *OutputManager) WriteStats(s FieldStats) error {
	if om == nil {
		return nil
	}

	if err := om.stats.write([]FieldStats{s}); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}

	if len(s.Histogram) == 0 {
		return nil
	}
	bins := make([]HistogramBin, len(s.Histogram))
	for i, b := range s.Histogram {
		b.Pass = s.Pass
		bins[i] = b
	}
	if err := om.histogram.write(bins); err != nil {
		return fmt.Errorf("writing histogram: %w", err)
	}
	return nil
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, pass int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(pass)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteSamples appends every sample of field to samples.csv. It does
// nothing when sample dumps are disabled.
func (om *OutputManager) WriteSamples(field *sampler.Field, pass int) error {
	if om == nil || om.samples == nil {
		return nil
	}

	g := field.Grid
	batch := make([]SampleRecord, 0, sampleBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := om.samples.write(batch); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := g.Point(x, y)
			rec := SampleRecord{Pass: pass, X: p.X, Y: p.Y, Value: field.At(x, y)}
			if c, ok := field.CellAt(x, y); ok {
				rec.CellX, rec.CellY = c.X, c.Y
			}
			batch = append(batch, rec)
			if len(batch) == sampleBatch {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return flush()
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files, returning the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.stats, om.perf, om.histogram, om.samples} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
