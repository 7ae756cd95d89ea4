// Package app wires cmd/substrate's command-line flags and YAML config into
// a running Simulation, following the teacher's cmd/server -> internal/app
// split (a thin main.go, a testable Run entry point here).
package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"hexcrawl-substrate/internal/config"
	"hexcrawl-substrate/internal/forensics"
	"hexcrawl-substrate/internal/save"
	"hexcrawl-substrate/internal/schema"
	"hexcrawl-substrate/internal/sim"
	"hexcrawl-substrate/internal/world"
	"hexcrawl-substrate/logging"
	"hexcrawl-substrate/logging/sinks"
)

// Config is cmd/substrate's command-line surface layered on top of a
// SubstrateConfig loaded from YAML.
type Config struct {
	ConfigPath    string
	SavePathFlag  string
	Ticks         uint64
	Days          uint64
	ForensicsPath string
}

// Run loads configuration, constructs a Simulation, advances it, and saves
// it. It returns an error rather than calling log.Fatal itself so it stays
// testable from app_test.go.
func Run(ctx context.Context, cfg Config) error {
	substrateCfg := config.DefaultConfig()
	if cfg.ConfigPath != "" {
		loaded, err := config.Load(cfg.ConfigPath)
		if err != nil {
			return fmt.Errorf("app: loading config: %w", err)
		}
		substrateCfg = loaded
	}

	router, err := newLogRouter()
	if err != nil {
		return fmt.Errorf("app: constructing logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			log.Printf("app: closing logging router: %v", cerr)
		}
	}()

	schemas, err := schema.BuildBuiltinRegistry(ctx)
	if err != nil {
		return fmt.Errorf("app: compiling builtin schemas: %w", err)
	}

	ledgers := world.NewLedgersWithCaps(
		substrateCfg.LedgerCaps.Signals,
		substrateCfg.LedgerCaps.Tracks,
		substrateCfg.LedgerCaps.Rumors,
		substrateCfg.LedgerCaps.SpawnDescriptors,
		substrateCfg.LedgerCaps.OcclusionEdges,
	)
	s, err := sim.NewWithSeedAndTopologyAndLedgers(
		substrateCfg.MasterSeed,
		substrateCfg.SpaceID,
		substrateCfg.TopologyType,
		substrateCfg.TopologyParams,
		ledgers,
	)
	if err != nil {
		return fmt.Errorf("app: constructing simulation: %w", err)
	}
	s.Time.TicksPerDay = substrateCfg.TicksPerDay
	s.SetSchemaRegistry(schemas)
	s.SetLogPublisher(router)

	if cfg.Ticks > 0 {
		if err := s.AdvanceTicks(cfg.Ticks); err != nil {
			return fmt.Errorf("app: advancing %d ticks: %w", cfg.Ticks, err)
		}
	}
	if cfg.Days > 0 {
		if err := s.AdvanceDays(cfg.Days); err != nil {
			return fmt.Errorf("app: advancing %d days: %w", cfg.Days, err)
		}
	}

	if cfg.ForensicsPath != "" {
		dump := forensics.Capture(s, s.Time.Tick)
		if err := forensics.Write(cfg.ForensicsPath, dump); err != nil {
			// Forensics is explicitly not hash-covered and never required for
			// a correct save: a write failure here is logged, never fatal.
			log.Printf("app: writing forensics dump: %v", err)
		}
	}

	savePath := substrateCfg.SavePath
	if cfg.SavePathFlag != "" {
		savePath = cfg.SavePathFlag
	}
	metadata := map[string]any{
		"master_seed": substrateCfg.MasterSeed,
		"space_id":    substrateCfg.SpaceID,
	}
	if err := save.SaveGame(savePath, s, metadata); err != nil {
		return fmt.Errorf("app: saving to %s: %w", savePath, err)
	}
	return nil
}

func newLogRouter() (*logging.Router, error) {
	logCfg := logging.DefaultConfig()
	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, logCfg.Console)},
	}
	if logCfg.HasSink("json") {
		named = append(named, logging.NamedSink{
			Name: "json",
			Sink: sinks.NewJSON(os.Stdout, logCfg.JSON.FlushInterval),
		})
	}
	return logging.NewRouter(logging.SystemClock{}, logCfg, named)
}
