package sim

import (
	"testing"

	"hexcrawl-substrate/internal/codec"
)

func TestCommandLogAssignsSequentialIndexPerTick(t *testing.T) {
	l := NewCommandLog()
	entity := "scout"
	c0 := l.Append(7, &entity, "move", codec.EmptyObject())
	c1 := l.Append(7, nil, "wait", codec.EmptyObject())
	if c0.CommandIndex != 0 || c1.CommandIndex != 1 {
		t.Fatalf("expected sequential command indices, got %d then %d", c0.CommandIndex, c1.CommandIndex)
	}
	forTick := l.ForTick(7)
	if len(forTick) != 2 || forTick[0].CommandType != "move" || forTick[1].CommandType != "wait" {
		t.Fatalf("unexpected ForTick order: %+v", forTick)
	}
}

func TestCommandLogAllOrdersByTickThenIndex(t *testing.T) {
	l := NewCommandLog()
	l.Append(2, nil, "b", codec.EmptyObject())
	l.Append(1, nil, "a", codec.EmptyObject())
	l.Append(1, nil, "a2", codec.EmptyObject())

	all := l.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(all))
	}
	if all[0].Tick != 1 || all[0].CommandType != "a" {
		t.Fatalf("expected tick 1 'a' first, got %+v", all[0])
	}
	if all[1].Tick != 1 || all[1].CommandType != "a2" {
		t.Fatalf("expected tick 1 'a2' second, got %+v", all[1])
	}
	if all[2].Tick != 2 || all[2].CommandType != "b" {
		t.Fatalf("expected tick 2 'b' last, got %+v", all[2])
	}
}

func TestCommandLogRestoreRoundTrip(t *testing.T) {
	l := NewCommandLog()
	l.Append(3, nil, "a", codec.EmptyObject())
	l.Append(3, nil, "b", codec.EmptyObject())

	restored := RestoreCommandLog(l.All())
	got := restored.ForTick(3)
	if len(got) != 2 || got[0].CommandType != "a" || got[1].CommandType != "b" {
		t.Fatalf("unexpected restored commands: %+v", got)
	}
}

func TestCommandLogForTickIsDeepCopy(t *testing.T) {
	l := NewCommandLog()
	l.Append(1, nil, "a", codec.Object(map[string]codec.Value{"x": codec.Int(1)}))
	got := l.ForTick(1)
	got[0].CommandType = "mutated"
	if l.ForTick(1)[0].CommandType != "a" {
		t.Fatalf("expected ForTick to return a deep copy, mutation leaked into the log")
	}
}
