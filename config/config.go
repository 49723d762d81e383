// Package config provides configuration loading for noise sampling runs.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid wraps every validation failure from Load.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all parameters for a sampling session. Each Config is
// independent; nothing here is process-wide.
type Config struct {
	Noise     NoiseConfig     `yaml:"noise"`
	Fractal   FractalConfig   `yaml:"fractal"`
	Warp      WarpConfig      `yaml:"warp"`
	Grid      GridConfig      `yaml:"grid"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// NoiseConfig selects the table and the evaluator settings.
type NoiseConfig struct {
	Source         string  `yaml:"source"`          // worley, fractal or perlin
	Seed           uint64  `yaml:"seed"`            // permutation table seed
	ReferenceTable bool    `yaml:"reference_table"` // use Perlin's fixed table instead of Seed
	Metric         string  `yaml:"metric"`          // euclidean, manhattan, chebyshev
	Rank           int     `yaml:"rank"`            // 0 = nearest feature point
	Radius         int     `yaml:"radius"`          // neighbourhood radius in cells (1 = 3x3)
	Jitter         float64 `yaml:"jitter"`          // feature offset spread in (0,1]
}

// FractalConfig holds layered Worley parameters, used when source is fractal.
type FractalConfig struct {
	Octaves    int     `yaml:"octaves"`    // layers (detail level)
	Lacunarity float64 `yaml:"lacunarity"` // frequency multiplier per octave
	Gain       float64 `yaml:"gain"`       // amplitude multiplier per octave
	Contrast   float64 `yaml:"contrast"`   // exponent applied to the sum (0 = off)
}

// WarpConfig holds simplex domain warp parameters.
type WarpConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Seed      int64   `yaml:"seed"`
	Amplitude float64 `yaml:"amplitude"` // maximum displacement in noise units
	Frequency float64 `yaml:"frequency"`
}

// GridConfig describes the sampled rectangle.
type GridConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Scale   float64 `yaml:"scale"` // samples per noise unit
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
}

// SamplerConfig holds worker pool settings.
type SamplerConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// TelemetryConfig holds stats and output settings.
type TelemetryConfig struct {
	PerfWindow   int  `yaml:"perf_window"`   // passes averaged by the perf collector
	WriteSamples bool `yaml:"write_samples"` // dump every sample to samples.csv
	Histogram    int  `yaml:"histogram"`     // histogram bins in stats (0 = none)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Step        float64 // noise units between samples (1 / Grid.Scale)
	Samples     int     // Grid.Width * Grid.Height
	CellsAcross float64 // unit cells spanned horizontally
}

// Default returns the embedded defaults. Panics if they do not parse,
// which would be a build defect.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks ranges that would otherwise panic deep in the noise
// packages.
func (c *Config) Validate() error {
	switch c.Noise.Source {
	case "worley", "fractal", "perlin":
	default:
		return fmt.Errorf("%w: noise.source %q", ErrInvalid, c.Noise.Source)
	}
	if c.Noise.Radius < 0 {
		return fmt.Errorf("%w: noise.radius %d", ErrInvalid, c.Noise.Radius)
	}
	radius := c.Noise.Radius
	if radius == 0 {
		radius = 1
	}
	side := 2*radius + 1
	if c.Noise.Rank < 0 || c.Noise.Rank >= side*side {
		return fmt.Errorf("%w: noise.rank %d outside [0,%d)", ErrInvalid, c.Noise.Rank, side*side)
	}
	if c.Noise.Jitter < 0 || c.Noise.Jitter > 1 {
		return fmt.Errorf("%w: noise.jitter %v outside [0,1]", ErrInvalid, c.Noise.Jitter)
	}
	if c.Grid.Width < 0 || c.Grid.Height < 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	}
	if c.Grid.Scale <= 0 {
		return fmt.Errorf("%w: grid.scale %v", ErrInvalid, c.Grid.Scale)
	}
	if c.Noise.Source == "fractal" && c.Fractal.Octaves < 1 {
		return fmt.Errorf("%w: fractal.octaves %d", ErrInvalid, c.Fractal.Octaves)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Step = 1 / c.Grid.Scale
	c.Derived.Samples = c.Grid.Width * c.Grid.Height
	c.Derived.CellsAcross = float64(c.Grid.Width) * c.Derived.Step
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
