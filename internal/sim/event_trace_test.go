package sim

import (
	"testing"

	"hexcrawl-substrate/internal/codec"
)

func evtFor(id uint64) *SimEvent {
	return &SimEvent{Tick: 0, EventID: id, EventType: "t", Params: codec.EmptyObject(), UnknownFields: codec.EmptyObject()}
}

func TestEventTraceEvictsOldestPastCapacity(t *testing.T) {
	trace := NewEventTrace()
	for i := uint64(0); i < MaxEventTrace+10; i++ {
		trace.Append(evtFor(i))
	}
	if trace.Len() != MaxEventTrace {
		t.Fatalf("expected trace length capped at %d, got %d", MaxEventTrace, trace.Len())
	}
	entries := trace.Entries()
	if entries[0].EventID != 10 {
		t.Fatalf("expected oldest surviving entry to be id 10, got %d", entries[0].EventID)
	}
	if entries[len(entries)-1].EventID != MaxEventTrace+9 {
		t.Fatalf("expected newest entry to be id %d, got %d", MaxEventTrace+9, entries[len(entries)-1].EventID)
	}
}

func TestEventTraceRestorePreservesOrder(t *testing.T) {
	trace := NewEventTrace()
	trace.Append(evtFor(1))
	trace.Append(evtFor(2))

	restored := RestoreEventTrace(trace.Entries())
	entries := restored.Entries()
	if len(entries) != 2 || entries[0].EventID != 1 || entries[1].EventID != 2 {
		t.Fatalf("unexpected restored entries: %+v", entries)
	}
}

func TestExecutionLogResetsAndEvicts(t *testing.T) {
	log := NewExecutionLog()
	for i := uint64(0); i < MaxExecutionLog+5; i++ {
		log.Record(i)
	}
	if len(log.IDs()) != MaxExecutionLog {
		t.Fatalf("expected execution log capped at %d, got %d", MaxExecutionLog, len(log.IDs()))
	}
	log.Reset()
	if len(log.IDs()) != 0 {
		t.Fatalf("expected Reset to clear the log")
	}
}
