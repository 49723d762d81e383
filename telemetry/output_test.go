package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/cellnoise/config"
	"github.com/pthm-cable/cellnoise/noise"
	"github.com/pthm-cable/cellnoise/permutation"
	"github.com/pthm-cable/cellnoise/sampler"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", true)
	if err != nil || om != nil {
		t.Fatalf("empty dir: om=%v err=%v", om, err)
	}
	// Nil manager methods are no-ops
	if err := om.WriteStats(FieldStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteSamples(&sampler.Field{}, 0); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should report no dir and close cleanly")
	}
}

func TestOutputManagerStatsHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir, false)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	s := ComputeFieldStats([]float64{1, 2, 3, 4}, nil, 2)
	for pass := 0; pass < 3; pass++ {
		s.Pass = pass
		if err := om.WriteStats(s); err != nil {
			t.Fatalf("WriteStats: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, "stats.csv"))
	if len(lines) != 4 {
		t.Fatalf("stats.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "pass,source,seed,metric,rank,samples") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Contains(lines[0], "Histogram") {
		t.Error("histogram leaked into stats.csv")
	}

	hist := readLines(t, filepath.Join(dir, "histogram.csv"))
	if len(hist) != 1+3*2 {
		t.Errorf("histogram.csv has %d lines, want 7", len(hist))
	}

	if _, err := os.Stat(filepath.Join(dir, "samples.csv")); !os.IsNotExist(err) {
		t.Error("samples.csv created with sample dumps disabled")
	}
}

func TestOutputManagerSamples(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, true)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	e := noise.NewEvaluator(permutation.Reference(), noise.DefaultOptions())
	g := sampler.Grid{Width: 3, Height: 2, Step: 0.5}
	field := sampler.New(1).Sample(e.Source(0), g)

	if err := om.WriteSamples(field, 7); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, filepath.Join(dir, "samples.csv"))
	if len(lines) != 1+6 {
		t.Fatalf("samples.csv has %d lines, want 7", len(lines))
	}
	if lines[0] != "pass,x,y,value,cell_x,cell_y" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "7,0,0,0.2892007788599862,-1,0") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestOutputManagerConfigAndTable(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not reload: %v", err)
	}

	if err := om.WriteTable(permutation.Reference()); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	lines := readLines(t, filepath.Join(dir, "table.txt"))
	if len(lines) != 18 {
		t.Errorf("table.txt has %d lines, want 18", len(lines))
	}
}
