package forensics

import (
	"path/filepath"
	"testing"

	"hexcrawl-substrate/internal/codec"
	"hexcrawl-substrate/internal/sim"
	"hexcrawl-substrate/internal/world"
)

func newTestSimulation(t *testing.T) *sim.Simulation {
	t.Helper()
	s, err := sim.NewWithSeedAndTopology(7, world.DefaultSpaceID, world.TopologyHexDisk, world.TopologyParams{Radius: 2})
	if err != nil {
		t.Fatalf("NewWithSeedAndTopology: %v", err)
	}
	return s
}

func TestCaptureReflectsCurrentTraceAndLog(t *testing.T) {
	s := newTestSimulation(t)
	if _, err := s.AppendCommand(0, nil, "noop", codec.EmptyObject()); err != nil {
		t.Fatalf("AppendCommand: %v", err)
	}
	if err := s.AdvanceTicks(1); err != nil {
		t.Fatalf("AdvanceTicks: %v", err)
	}

	dump := Capture(s, s.Time.Tick)
	if dump.Header.CommandCount != len(s.InputLog()) {
		t.Fatalf("command count mismatch: header=%d actual=%d", dump.Header.CommandCount, len(s.InputLog()))
	}
	if dump.Header.EventCount != len(s.GetEventTrace()) {
		t.Fatalf("event count mismatch: header=%d actual=%d", dump.Header.EventCount, len(s.GetEventTrace()))
	}
	if dump.Header.Tick != s.Time.Tick {
		t.Fatalf("expected header tick %d, got %d", s.Time.Tick, dump.Header.Tick)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := newTestSimulation(t)
	if err := s.AdvanceTicks(3); err != nil {
		t.Fatalf("AdvanceTicks: %v", err)
	}
	dump := Capture(s, s.Time.Tick)

	path := filepath.Join(t.TempDir(), "nested", "dir", "trace.forensics.zst")
	if err := Write(path, dump); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Header != dump.Header {
		t.Fatalf("header mismatch: got %+v, want %+v", got.Header, dump.Header)
	}
	if len(got.Commands) != len(dump.Commands) {
		t.Fatalf("command count mismatch after round trip: got %d, want %d", len(got.Commands), len(dump.Commands))
	}
}

func TestReadMissingFileFails(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.zst")); err == nil {
		t.Fatalf("expected an error reading a nonexistent forensics file")
	}
}
