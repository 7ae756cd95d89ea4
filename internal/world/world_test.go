package world

import (
	"testing"

	"hexcrawl-substrate/internal/codec"
)

func TestNewWithSeedAndTopologyHexDisk(t *testing.T) {
	w, err := NewWithSeedAndTopology(DefaultSpaceID, TopologyHexDisk, TopologyParams{Radius: 2})
	if err != nil {
		t.Fatalf("NewWithSeedAndTopology: %v", err)
	}
	space := w.Spaces[DefaultSpaceID]
	if _, ok := space.Cell(HexCoord{Q: 0, R: 0}); !ok {
		t.Fatalf("expected origin cell to exist in hex_disk space")
	}
	if _, ok := space.Cell(HexCoord{Q: 10, R: 10}); ok {
		t.Fatalf("expected far cell to be absent from radius-2 disk")
	}
}

func TestAddEntityCreatesDefaultInventory(t *testing.T) {
	w, _ := NewWithSeedAndTopology(DefaultSpaceID, TopologyHexDisk, TopologyParams{Radius: 1})
	e := &Entity{ID: "scout", SpaceID: DefaultSpaceID}
	if err := w.AddEntity(e); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}
	if e.InventoryContainerID != "inventory:scout" {
		t.Fatalf("unexpected container id %q", e.InventoryContainerID)
	}
	if _, ok := w.Containers["inventory:scout"]; !ok {
		t.Fatalf("expected default inventory container to be created")
	}
}

func TestAddEntityRejectsMissingContainer(t *testing.T) {
	w, _ := NewWithSeedAndTopology(DefaultSpaceID, TopologyHexDisk, TopologyParams{Radius: 1})
	e := &Entity{ID: "scout", SpaceID: DefaultSpaceID, InventoryContainerID: "does-not-exist"}
	if err := w.AddEntity(e); err == nil {
		t.Fatalf("expected error for missing inventory container")
	}
}

func TestCheckInvariantsDetectsInvalidCell(t *testing.T) {
	w, _ := NewWithSeedAndTopology(DefaultSpaceID, TopologyHexDisk, TopologyParams{Radius: 1})
	e := &Entity{ID: "scout", SpaceID: DefaultSpaceID, Position: Vec2{X: 1000, Y: 1000}}
	if err := w.AddEntity(e); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}
	if err := w.CheckInvariants(); err == nil {
		t.Fatalf("expected invariant violation for out-of-bounds position")
	}
}

func TestBoundedFIFOEvictsOldest(t *testing.T) {
	q := NewBoundedFIFO[int](3)
	for i := 0; i < 5; i++ {
		q.Append(i)
	}
	got := q.Items()
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestApplyStatPatchSetAndRemove(t *testing.T) {
	stats := map[string]codec.Value{"hp": codec.Int(10)}
	updated, err := ApplyStatPatch(stats, StatPatch{Op: StatPatchSet, Key: "morale", Value: codec.Int(5)})
	if err != nil {
		t.Fatalf("ApplyStatPatch set: %v", err)
	}
	if got, ok := updated["morale"]; !ok {
		t.Fatalf("expected morale to be set")
	} else if i, _ := got.AsInt(); i != 5 {
		t.Fatalf("expected morale=5, got %v", i)
	}
	if _, ok := stats["morale"]; ok {
		t.Fatalf("ApplyStatPatch must not mutate the original map")
	}

	removed, err := ApplyStatPatch(updated, StatPatch{Op: StatPatchRemove, Key: "hp"})
	if err != nil {
		t.Fatalf("ApplyStatPatch remove: %v", err)
	}
	if _, ok := removed["hp"]; ok {
		t.Fatalf("expected hp to be removed")
	}
}

func TestAxialWorldRoundTrip(t *testing.T) {
	params := TopologyParams{}
	for _, coord := range []HexCoord{{Q: 0, R: 0}, {Q: 3, R: -2}, {Q: -5, R: 4}} {
		pos := AxialToWorldXY(coord)
		back := WorldToAxial(pos, params)
		if back != coord {
			t.Fatalf("round trip mismatch: %v -> %v -> %v", coord, pos, back)
		}
	}
}
