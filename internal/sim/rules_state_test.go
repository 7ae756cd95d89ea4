package sim

import (
	"testing"

	"hexcrawl-substrate/internal/codec"
)

func TestRulesStateGetUnsetReturnsEmptyObject(t *testing.T) {
	r := NewRulesState()
	v := r.Get("weather")
	obj, ok := v.AsObject()
	if !ok || len(obj) != 0 {
		t.Fatalf("expected empty object for unset module state, got %+v", v)
	}
}

func TestRulesStateSetGetRoundTrip(t *testing.T) {
	r := NewRulesState()
	r.Set("weather", codec.Object(map[string]codec.Value{"front": codec.String("storm")}))
	got, ok := r.Get("weather").AsObject()
	if !ok {
		t.Fatalf("expected object value")
	}
	front, ok := got["front"].AsString()
	if !ok || front != "storm" {
		t.Fatalf("unexpected front value: %+v", got)
	}
}

func TestRulesStateGetReturnsDeepCopy(t *testing.T) {
	r := NewRulesState()
	r.Set("weather", codec.Object(map[string]codec.Value{"front": codec.String("storm")}))
	first, _ := r.Get("weather").AsObject()
	first["front"] = codec.String("mutated")
	second, _ := r.Get("weather").AsObject()
	if front, _ := second["front"].AsString(); front != "storm" {
		t.Fatalf("expected Get to return an isolated copy, mutation leaked through")
	}
}

func TestRulesStateSnapshotRestoreRoundTrip(t *testing.T) {
	r := NewRulesState()
	r.Set("weather", codec.Object(map[string]codec.Value{"front": codec.String("storm")}))
	r.Set("economy", codec.Object(map[string]codec.Value{"gold": codec.Int(100)}))

	snap := r.Snapshot()
	restored := RestoreRulesState(snap)
	gold, ok := restored.Get("economy").AsObject()
	if !ok {
		t.Fatalf("expected economy object to survive restore")
	}
	if v, ok := gold["gold"].AsInt(); !ok || v != 100 {
		t.Fatalf("unexpected gold value after restore: %+v", gold)
	}
}
