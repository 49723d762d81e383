package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Noise.Seed != 0x5EED {
		t.Errorf("seed = %#x, want 0x5EED", cfg.Noise.Seed)
	}
	if cfg.Noise.Source != "worley" || cfg.Noise.Metric != "euclidean" {
		t.Errorf("source/metric = %q/%q", cfg.Noise.Source, cfg.Noise.Metric)
	}
	if cfg.Noise.Radius != 1 || cfg.Noise.Rank != 0 {
		t.Errorf("radius/rank = %d/%d", cfg.Noise.Radius, cfg.Noise.Rank)
	}
	if cfg.Derived.Samples != 512*512 {
		t.Errorf("derived samples = %d", cfg.Derived.Samples)
	}
	if cfg.Derived.Step != 1.0/32 {
		t.Errorf("derived step = %v", cfg.Derived.Step)
	}
	if cfg.Derived.CellsAcross != 16 {
		t.Errorf("cells across = %v, want 16", cfg.Derived.CellsAcross)
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := writeFile(t, `
noise:
  metric: manhattan
  rank: 1
grid:
  width: 64
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Noise.Metric != "manhattan" || cfg.Noise.Rank != 1 {
		t.Errorf("override not applied: %+v", cfg.Noise)
	}
	if cfg.Noise.Seed != 0x5EED {
		t.Errorf("unrelated default lost: seed = %d", cfg.Noise.Seed)
	}
	if cfg.Grid.Width != 64 || cfg.Grid.Height != 512 {
		t.Errorf("grid = %dx%d, want 64x512", cfg.Grid.Width, cfg.Grid.Height)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"rank too high", "noise:\n  rank: 9\n"},
		{"negative radius", "noise:\n  radius: -1\n"},
		{"bad jitter", "noise:\n  jitter: 1.5\n"},
		{"bad source", "noise:\n  source: value\n"},
		{"zero scale", "grid:\n  scale: 0\n"},
		{"fractal octaves", "noise:\n  source: fractal\nfractal:\n  octaves: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadRankWithWiderRadius(t *testing.T) {
	cfg, err := Load(writeFile(t, "noise:\n  radius: 2\n  rank: 20\n"))
	if err != nil {
		t.Fatalf("rank 20 with radius 2 should be valid: %v", err)
	}
	if cfg.Noise.Rank != 20 {
		t.Errorf("rank = %d", cfg.Noise.Rank)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "noise: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Noise.Seed = 99
	cfg.Warp.Enabled = true

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot: %v", err)
	}
	if loaded.Noise.Seed != 99 || !loaded.Warp.Enabled {
		t.Errorf("snapshot lost overrides: %+v %+v", loaded.Noise, loaded.Warp)
	}
	if loaded.Derived != cfg.Derived {
		t.Errorf("derived = %+v, want %+v", loaded.Derived, cfg.Derived)
	}
}
