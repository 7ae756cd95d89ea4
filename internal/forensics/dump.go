// Package forensics writes an optional, compressed side-dump of a
// Simulation's executed-event trace and command log for offline debugging.
// It is grounded on hellsoul86-voxelcraft.ai's internal/persistence/snapshot
// (zstd-wrapped writer/reader around a JSON-ish payload), but the dump this
// package produces is never part of the canonical save: it carries no
// simulation_hash, cmd/substrate writes it alongside (never instead of) a
// save, and load_game never reads it back. A corrupt or missing forensics
// file can never block a load.
package forensics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"hexcrawl-substrate/internal/sim"
)

// Header identifies a dump without requiring a full decompress+decode.
type Header struct {
	Tick           uint64 `json:"tick"`
	EventCount     int    `json:"eventCount"`
	CommandCount   int    `json:"commandCount"`
}

// Dump is the side-channel payload: the bounded event trace and the full
// command log as they stood at the moment of capture. Field order matches
// Header for quick visual cross-reference in a text editor; nothing about
// this struct's encoding needs to be canonical the way internal/save's is,
// since nothing here is hashed or replayed.
type Dump struct {
	Header   Header          `json:"header"`
	Events   []*sim.SimEvent `json:"events"`
	Commands []*sim.SimCommand `json:"commands"`
}

// Capture reads s's current event trace and full input log into a Dump.
func Capture(s *sim.Simulation, tick uint64) Dump {
	events := s.GetEventTrace()
	commands := s.InputLog()
	return Dump{
		Header: Header{
			Tick:         tick,
			EventCount:   len(events),
			CommandCount: len(commands),
		},
		Events:   events,
		Commands: commands,
	}
}

// Write zstd-compresses and writes dump to path, creating parent
// directories as needed. Unlike internal/save.SaveGame, this is a plain
// truncating write: a forensics file is disposable debugging output, not a
// durability-critical artifact, so there is no temp-file-plus-rename dance
// here.
func Write(path string, dump Dump) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("forensics: creating directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("forensics: opening %s: %w", path, err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("forensics: constructing zstd writer: %w", err)
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 64*1024)
	if err := json.NewEncoder(bw).Encode(dump); err != nil {
		return fmt.Errorf("forensics: encoding dump: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("forensics: flushing: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("forensics: closing zstd writer: %w", err)
	}
	return nil
}

// Read decompresses and decodes a Dump previously written by Write. Intended
// for an offline inspection tool, never for cmd/substrate's normal load
// path.
func Read(path string) (Dump, error) {
	var dump Dump
	f, err := os.Open(path)
	if err != nil {
		return dump, fmt.Errorf("forensics: opening %s: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return dump, fmt.Errorf("forensics: constructing zstd reader: %w", err)
	}
	defer dec.Close()

	if err := json.NewDecoder(dec).Decode(&dump); err != nil {
		return dump, fmt.Errorf("forensics: decoding dump: %w", err)
	}
	return dump, nil
}
