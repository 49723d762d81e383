package main

import (
	"fmt"

	"github.com/pthm-cable/cellnoise/config"
	"github.com/pthm-cable/cellnoise/noise"
	"github.com/pthm-cable/cellnoise/permutation"
)

// session is everything built from one config: the table, the evaluator
// over it and the source the sampler reads.
type session struct {
	table     *permutation.Table
	evaluator *noise.Evaluator
	source    noise.Source
}

// buildTable returns the reference table or a seeded one.
func buildTable(seed uint64, reference bool) *permutation.Table {
	if reference {
		return permutation.Reference()
	}
	return permutation.New(seed)
}

// newSession builds the noise source described by cfg. cfg must already
// be validated.
func newSession(cfg *config.Config) (*session, error) {
	metric, err := noise.ParseMetric(cfg.Noise.Metric)
	if err != nil {
		return nil, fmt.Errorf("building evaluator: %w", err)
	}

	table := buildTable(cfg.Noise.Seed, cfg.Noise.ReferenceTable)
	e := noise.NewEvaluator(table, noise.Options{
		Metric: metric,
		Radius: cfg.Noise.Radius,
		Jitter: cfg.Noise.Jitter,
	})

	var src noise.Source
	switch cfg.Noise.Source {
	case "worley":
		src = e.Source(cfg.Noise.Rank)
	case "fractal":
		src = &noise.Fractal{
			Evaluator:  e,
			Rank:       cfg.Noise.Rank,
			Octaves:    cfg.Fractal.Octaves,
			Lacunarity: cfg.Fractal.Lacunarity,
			Gain:       cfg.Fractal.Gain,
			Contrast:   cfg.Fractal.Contrast,
		}
	case "perlin":
		src = noise.NewPerlin(table)
	default:
		return nil, fmt.Errorf("%w: noise.source %q", config.ErrInvalid, cfg.Noise.Source)
	}

	if cfg.Warp.Enabled {
		src = noise.Warped{
			Source: src,
			Warp:   noise.NewWarp(cfg.Warp.Seed, cfg.Warp.Amplitude, cfg.Warp.Frequency),
		}
	}

	return &session{table: table, evaluator: e, source: src}, nil
}
