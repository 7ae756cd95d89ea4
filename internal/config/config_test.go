package config

import (
	"os"
	"path/filepath"
	"testing"

	"hexcrawl-substrate/internal/world"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "substrate.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadParsesYAMLOverDefaults(t *testing.T) {
	path := writeConfig(t, `
master_seed: 99
space_id: overworld
topology_type: hex_rectangle
topology_params:
  width: 10
  height: 6
ticks_per_day: 120
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MasterSeed != 99 {
		t.Fatalf("expected master_seed 99, got %d", cfg.MasterSeed)
	}
	if cfg.TopologyType != world.TopologyHexRectangle {
		t.Fatalf("expected hex_rectangle topology, got %s", cfg.TopologyType)
	}
	if cfg.TopologyParams.Width != 10 || cfg.TopologyParams.Height != 6 {
		t.Fatalf("unexpected topology_params: %+v", cfg.TopologyParams)
	}
	if cfg.TicksPerDay != 120 {
		t.Fatalf("expected ticks_per_day 120, got %d", cfg.TicksPerDay)
	}
	// KeyframeCapacity was not set in the YAML and should keep its default.
	if cfg.KeyframeCapacity != DefaultConfig().KeyframeCapacity {
		t.Fatalf("expected unset field to keep its default, got %d", cfg.KeyframeCapacity)
	}
}

func TestLoadRejectsMissingHexDiskRadius(t *testing.T) {
	path := writeConfig(t, `
topology_type: hex_disk
topology_params:
  radius: 0
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for hex_disk with radius 0")
	}
}

func TestLoadRejectsUnknownTopologyType(t *testing.T) {
	path := writeConfig(t, `topology_type: not_a_real_topology`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for an unknown topology_type")
	}
}

func TestLoadSurfacesReadError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
