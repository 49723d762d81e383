package telemetry

import (
	"log/slog"
	"math"
	"time"
)

// Phase names for one sampling pass.
const (
	PhaseTable  = "table"
	PhaseSample = "sample"
	PhaseStats  = "stats"
	PhaseOutput = "output"
)

var phaseOrder = []string{PhaseTable, PhaseSample, PhaseStats, PhaseOutput}

// PerfSample holds timing data for a single pass.
type PerfSample struct {
	PassDuration time.Duration
	Samples      int
	Phases       map[string]time.Duration
}

// PerfCollector tracks pass timings over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	currentCount  int
	passStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging the last windowSize passes.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 8
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartPass begins timing a new pass over n samples.
func (p *PerfCollector) StartPass(n int) {
	p.passStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.currentCount = n
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndPass closes the running phase and records the pass.
func (p *PerfCollector) EndPass() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		PassDuration: now.Sub(p.passStart),
		Samples:      p.currentCount,
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.lastPhase = ""
}

// PerfStats holds aggregated timing statistics.
type PerfStats struct {
	Passes int

	AvgPassDuration time.Duration
	MinPassDuration time.Duration
	MaxPassDuration time.Duration

	// Phase breakdown (average durations and share of pass time)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Throughput over the sample phase
	SamplesPerSecond float64
	NanosPerSample   float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total time.Duration
	var minPass, maxPass time.Duration
	var totalSamples int
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.PassDuration
		totalSamples += s.Samples

		if i == 0 || s.PassDuration < minPass {
			minPass = s.PassDuration
		}
		if s.PassDuration > maxPass {
			maxPass = s.PassDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec, nsPer float64
	if sampleTime := phaseSum[PhaseSample]; sampleTime > 0 && totalSamples > 0 {
		perSec = float64(totalSamples) / sampleTime.Seconds()
		nsPer = float64(sampleTime.Nanoseconds()) / float64(totalSamples)
	}

	return PerfStats{
		Passes:           p.sampleCount,
		AvgPassDuration:  avg,
		MinPassDuration:  minPass,
		MaxPassDuration:  maxPass,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		SamplesPerSecond: perSec,
		NanosPerSample:   nsPer,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"passes", s.Passes,
		"avg_pass_us", s.AvgPassDuration.Microseconds(),
		"min_pass_us", s.MinPassDuration.Microseconds(),
		"max_pass_us", s.MaxPassDuration.Microseconds(),
		"samples_per_sec", int(s.SamplesPerSecond),
		"ns_per_sample", s.NanosPerSample,
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", roundPct(pct))
		}
	}

	slog.Info("perf", attrs...)
}

// roundPct rounds a percentage to one decimal place.
func roundPct(pct float64) float64 {
	return math.Round(pct*10) / 10
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("passes", s.Passes),
		slog.Int64("avg_pass_us", s.AvgPassDuration.Microseconds()),
		slog.Int64("min_pass_us", s.MinPassDuration.Microseconds()),
		slog.Int64("max_pass_us", s.MaxPassDuration.Microseconds()),
		slog.Float64("samples_per_sec", s.SamplesPerSecond),
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Pass           int     `csv:"pass"`
	AvgPassUS      int64   `csv:"avg_pass_us"`
	MinPassUS      int64   `csv:"min_pass_us"`
	MaxPassUS      int64   `csv:"max_pass_us"`
	SamplesPerSec  float64 `csv:"samples_per_sec"`
	NanosPerSample float64 `csv:"ns_per_sample"`
	TablePct       float64 `csv:"table_pct"`
	SamplePct      float64 `csv:"sample_pct"`
	StatsPct       float64 `csv:"stats_pct"`
	OutputPct      float64 `csv:"output_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(pass int) PerfStatsCSV {
	return PerfStatsCSV{
		Pass:           pass,
		AvgPassUS:      s.AvgPassDuration.Microseconds(),
		MinPassUS:      s.MinPassDuration.Microseconds(),
		MaxPassUS:      s.MaxPassDuration.Microseconds(),
		SamplesPerSec:  s.SamplesPerSecond,
		NanosPerSample: s.NanosPerSample,
		TablePct:       s.PhasePct[PhaseTable],
		SamplePct:      s.PhasePct[PhaseSample],
		StatsPct:       s.PhasePct[PhaseStats],
		OutputPct:      s.PhasePct[PhaseOutput],
	}
}
