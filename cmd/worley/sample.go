package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/cellnoise/config"
	"github.com/pthm-cable/cellnoise/noise"
	"github.com/pthm-cable/cellnoise/sampler"
	"github.com/pthm-cable/cellnoise/telemetry"
)

const sampleLongDesc string = `Sample the configured grid and report field statistics.

Settings come from the embedded defaults, overlaid by --config and then by
any flags given explicitly.

Examples:
  worley sample --log-stats
  worley sample --config run.yaml --output out/
  worley sample --seed 7 --rank 1 --metric manhattan --repeat 10`

const sampleShortDesc string = "Sample a noise field"

type sampleCommander struct {
	configPath string
	outputDir  string
	seed       uint64
	rank       int
	metric     string
	logStats   bool
	repeat     int
}

func newSampleCmd() *cobra.Command {
	cmder := &sampleCommander{}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: sampleShortDesc,
		Long:  sampleLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cmder.loadConfig(cmd)
			if err != nil {
				return err
			}
			return cmder.run(cfg)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to config.yaml (empty = use defaults)")
	cmd.Flags().StringVarP(&cmder.outputDir, "output", "o", "", "Output directory for CSV logs and config snapshot")
	cmd.Flags().Uint64Var(&cmder.seed, "seed", 0, "Permutation table seed (overrides config)")
	cmd.Flags().IntVar(&cmder.rank, "rank", 0, "Distance rank, 0 = nearest (overrides config)")
	cmd.Flags().StringVar(&cmder.metric, "metric", "", "Distance metric (overrides config)")
	cmd.Flags().BoolVar(&cmder.logStats, "log-stats", false, "Log field and perf stats via slog")
	cmd.Flags().IntVar(&cmder.repeat, "repeat", 1, "Number of sampling passes")

	return cmd
}

// loadConfig loads the config file and applies flags the user set.
func (c *sampleCommander) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Noise.Seed = c.seed
		cfg.Noise.ReferenceTable = false
	}
	if flags.Changed("rank") {
		cfg.Noise.Rank = c.rank
	}
	if flags.Changed("metric") {
		cfg.Noise.Metric = c.metric
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c.repeat < 1 {
		return nil, fmt.Errorf("--repeat must be at least 1, got %d", c.repeat)
	}
	return cfg, nil
}

func (c *sampleCommander) run(cfg *config.Config) error {
	om, err := telemetry.NewOutputManager(c.outputDir, cfg.Telemetry.WriteSamples)
	if err != nil {
		return err
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	s := sampler.New(cfg.Sampler.Workers)
	defer s.Close()

	grid := sampler.Grid{
		Width:  cfg.Grid.Width,
		Height: cfg.Grid.Height,
		Step:   cfg.Derived.Step,
		Origin: noise.Vec2{X: cfg.Grid.OriginX, Y: cfg.Grid.OriginY},
	}
	pc := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	slog.Info("starting sampling",
		"source", cfg.Noise.Source,
		"seed", cfg.Noise.Seed,
		"reference_table", cfg.Noise.ReferenceTable,
		"metric", cfg.Noise.Metric,
		"rank", cfg.Noise.Rank,
		"width", grid.Width,
		"height", grid.Height,
		"cells_across", cfg.Derived.CellsAcross,
		"workers", s.Workers(),
		"passes", c.repeat,
	)

	var last telemetry.FieldStats
	for pass := 0; pass < c.repeat; pass++ {
		pc.StartPass(grid.Len())

		pc.StartPhase(telemetry.PhaseTable)
		sess, err := newSession(cfg)
		if err != nil {
			return err
		}

		pc.StartPhase(telemetry.PhaseSample)
		field := s.Sample(sess.source, grid)

		pc.StartPhase(telemetry.PhaseStats)
		stats := telemetry.ComputeFieldStats(field.Values, field.Cells, cfg.Telemetry.Histogram)
		stats.Pass = pass
		stats.Source = cfg.Noise.Source
		stats.Seed = cfg.Noise.Seed
		stats.Metric = sess.evaluator.Metric().String()
		stats.Rank = cfg.Noise.Rank

		pc.StartPhase(telemetry.PhaseOutput)
		if pass == 0 {
			if err := om.WriteTable(sess.table); err != nil {
				return err
			}
		}
		if err := om.WriteStats(stats); err != nil {
			return err
		}
		if err := om.WriteSamples(field, pass); err != nil {
			return err
		}
		pc.EndPass()

		perf := pc.Stats()
		if err := om.WritePerf(perf, pass); err != nil {
			return err
		}
		if c.logStats {
			stats.LogStats()
			perf.LogStats()
		}
		last = stats
	}

	slog.Info("sampling complete",
		"passes", c.repeat,
		"mean", last.Mean,
		"regions", last.Regions,
		"output_dir", om.Dir(),
	)
	return om.Close()
}
