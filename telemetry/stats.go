package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cellnoise/noise"
)

// FieldStats holds aggregated statistics for one sampled field.
type FieldStats struct {
	Pass   int    `csv:"pass"`
	Source string `csv:"source"`
	Seed   uint64 `csv:"seed"`
	Metric string `csv:"metric"`
	Rank   int    `csv:"rank"`

	Samples   int `csv:"samples"`
	NonFinite int `csv:"non_finite"` // NaN or Inf samples, excluded below

	// Value distribution
	Min  float64 `csv:"min"`
	Max  float64 `csv:"max"`
	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	P10  float64 `csv:"p10"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`

	// Distinct feature cells seen (Voronoi regions); 0 for cell-less sources
	Regions int `csv:"regions"`

	// Histogram over [Min, Max]; not part of the CSV row
	Histogram []HistogramBin `csv:"-"`
}

// HistogramBin is one bucket of a value histogram.
type HistogramBin struct {
	Pass  int     `csv:"pass"`
	Lo    float64 `csv:"lo"`
	Hi    float64 `csv:"hi"`
	Count int     `csv:"count"`
}

// ComputeFieldStats summarises values. cells may be nil. bins <= 0 skips
// the histogram.
func ComputeFieldStats(values []float64, cells []noise.Cell, bins int) FieldStats {
	s := FieldStats{Samples: len(values)}

	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.NonFinite++
			continue
		}
		finite = append(finite, v)
	}

	if cells != nil {
		seen := make(map[noise.Cell]struct{})
		for _, c := range cells {
			seen[c] = struct{}{}
		}
		s.Regions = len(seen)
	}

	if len(finite) == 0 {
		return s
	}

	sort.Float64s(finite)

	s.Min = floats.Min(finite)
	s.Max = floats.Max(finite)
	s.Mean, s.Std = stat.MeanStdDev(finite, nil)
	if len(finite) == 1 {
		s.Std = 0
	}
	s.P10 = stat.Quantile(0.10, stat.Empirical, finite, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, finite, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, finite, nil)

	if bins > 0 && s.Max > s.Min {
		s.Histogram = histogram(finite, s.Min, s.Max, bins)
	}

	return s
}

// histogram buckets sorted values into bins equal-width bins over
// [lo, hi]. The top divider is nudged up so hi lands in the last bin.
func histogram(sorted []float64, lo, hi float64, bins int) []HistogramBin {
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]HistogramBin, bins)
	for i := range out {
		out[i] = HistogramBin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("pass", s.Pass),
		slog.String("source", s.Source),
		slog.Uint64("seed", s.Seed),
		slog.String("metric", s.Metric),
		slog.Int("rank", s.Rank),
		slog.Int("samples", s.Samples),
		slog.Int("non_finite", s.NonFinite),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Int("regions", s.Regions),
	)
}

// LogStats logs the field stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("field", "stats", s)
	if len(s.Histogram) == 0 {
		return
	}
	counts := make([]int, len(s.Histogram))
	for i, b := range s.Histogram {
		counts[i] = b.Count
	}
	slog.Debug("histogram", "pass", s.Pass, "lo", s.Min, "hi", s.Max, "counts", counts)
}
