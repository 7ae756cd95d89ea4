package save

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hexcrawl-substrate/internal/codec"
	"hexcrawl-substrate/internal/sim"
	"hexcrawl-substrate/internal/world"
)

// BuildPayload assembles a schema-version-1 Payload from s's current state
// and computes save_hash over everything but itself.
func BuildPayload(s *sim.Simulation, metadata map[string]any) (*Payload, error) {
	w, state := s.Snapshot()
	payload := &Payload{
		SchemaVersion:   SchemaVersion,
		WorldState:      w,
		SimulationState: state,
		InputLog:        s.InputLog(),
		Metadata:        metadata,
	}
	hash, err := computeSaveHash(payload)
	if err != nil {
		return nil, fmt.Errorf("save: computing save_hash: %w", err)
	}
	payload.SaveHash = hash
	return payload, nil
}

// SaveGame writes s to path as a canonical-encoded save file: create a
// uniquely named "<base>.tmp-*" temp file in the same directory, write,
// fsync, then rename over path.
// The rename is atomic on the same filesystem, so a reader never observes a
// partially written file, and a failed write leaves any prior file at path
// untouched (spec.md §4.10, §7 "save failures leave the old file intact").
func SaveGame(path string, s *sim.Simulation, metadata map[string]any) error {
	payload, err := BuildPayload(s, metadata)
	if err != nil {
		return err
	}
	value, err := valueFromJSON(payload)
	if err != nil {
		return fmt.Errorf("save: canonicalizing payload: %w", err)
	}
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("save: encoding payload: %w", err)
	}
	return atomicWrite(path, data)
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save: writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save: syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("save: renaming into place: %w", err)
	}
	return nil
}

// LoadGame reads and validates a canonical save file, returning a rehydrated
// Simulation. It fails fast with ErrHashMismatch, ErrSchemaVersionUnsupported,
// or ErrSchemaInvalid without producing a Simulation (spec.md §4.10, §7).
func LoadGame(path string) (*sim.Simulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("save: reading %s: %w", path, err)
	}

	var probe struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if probe.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaVersionUnsupported, probe.SchemaVersion, SchemaVersion)
	}

	var payload Payload
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if payload.WorldState == nil {
		return nil, fmt.Errorf("%w: missing worldState", ErrSchemaInvalid)
	}

	claimedHash := payload.SaveHash
	payload.SaveHash = ""
	recomputed, err := computeSaveHash(&payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if recomputed != claimedHash {
		return nil, fmt.Errorf("%w: stored %s, computed %s", ErrHashMismatch, claimedHash, recomputed)
	}
	payload.SaveHash = claimedHash

	return sim.RestoreSimulation(payload.WorldState, payload.SimulationState, payload.InputLog), nil
}

// LoadWorldTemplate loads a legacy world-only payload (spec.md §4.10). It
// never produces a Simulation, only the World it describes.
func LoadWorldTemplate(path string) (*world.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("save: reading %s: %w", path, err)
	}
	var legacy LegacyWorldPayload
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if legacy.Hexes == nil {
		return nil, fmt.Errorf("%w: missing hexes", ErrSchemaInvalid)
	}
	return legacy.Hexes, nil
}

func valueFromJSON(v any) (codec.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return codec.Value{}, err
	}
	var val codec.Value
	if err := val.UnmarshalJSON(data); err != nil {
		return codec.Value{}, err
	}
	return val, nil
}
