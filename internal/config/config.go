// Package config loads the cmd/substrate CLI's YAML-configured startup
// parameters, grounded on hellsoul86-voxelcraft.ai's internal/sim/tuning
// loader shape. Nothing in this package is read after a Simulation is
// constructed: config is a one-shot, process-start-only input, never an
// authoritative state source (spec.md §1 "deterministic, no wall-clock or
// environment reads inside the substrate").
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hexcrawl-substrate/internal/world"
)

// LedgerCaps overrides the bounded-ledger capacities of spec.md §3. Zero
// fields fall back to world.NewLedgers' built-in defaults.
type LedgerCaps struct {
	Signals          int `yaml:"signals"`
	Tracks           int `yaml:"tracks"`
	Rumors           int `yaml:"rumors"`
	SpawnDescriptors int `yaml:"spawn_descriptors"`
	OcclusionEdges   int `yaml:"occlusion_edges"`
}

// SubstrateConfig is the complete set of process-start parameters the
// cmd/substrate CLI reads from a YAML file before constructing a
// Simulation.
type SubstrateConfig struct {
	MasterSeed       int64                `yaml:"master_seed"`
	SpaceID          string               `yaml:"space_id"`
	TopologyType     world.TopologyType   `yaml:"topology_type"`
	TopologyParams   world.TopologyParams `yaml:"topology_params"`
	TicksPerDay      uint64               `yaml:"ticks_per_day"`
	LedgerCaps       LedgerCaps           `yaml:"ledger_caps"`
	KeyframeCapacity int                  `yaml:"keyframe_capacity"`
	SavePath         string               `yaml:"save_path"`
}

// DefaultConfig returns the configuration cmd/substrate falls back to when
// no config file is given.
func DefaultConfig() SubstrateConfig {
	return SubstrateConfig{
		MasterSeed:   1,
		SpaceID:      world.DefaultSpaceID,
		TopologyType: world.TopologyHexDisk,
		TopologyParams: world.TopologyParams{
			Radius: 8,
		},
		TicksPerDay:      240,
		KeyframeCapacity: 64,
		SavePath:         "hexcrawl.save",
	}
}

// Load reads and parses a SubstrateConfig from a YAML file at path.
func Load(path string) (SubstrateConfig, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects a config whose topology_params cannot construct a valid
// World (spec.md §3 "topology_params validation").
func (c SubstrateConfig) Validate() error {
	if c.SpaceID == "" {
		return fmt.Errorf("config: space_id must be non-empty")
	}
	ref := world.LocationRef{TopologyType: c.TopologyType}
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("config: topology_type: %w", err)
	}
	switch c.TopologyType {
	case world.TopologyHexDisk:
		if c.TopologyParams.Radius <= 0 {
			return fmt.Errorf("config: hex_disk requires a positive radius")
		}
	case world.TopologyHexRectangle, world.TopologySquareGrid:
		if c.TopologyParams.Width <= 0 || c.TopologyParams.Height <= 0 {
			return fmt.Errorf("config: %s requires positive width and height", c.TopologyType)
		}
	}
	if c.TicksPerDay == 0 {
		return fmt.Errorf("config: ticks_per_day must be positive")
	}
	return nil
}
