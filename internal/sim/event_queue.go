package sim

import (
	"fmt"
	"sort"

	"hexcrawl-substrate/internal/codec"
)

// SimEvent is a JSON-safe event record in the tick-keyed queue (spec.md §3).
// UnknownFields preserves round-trip fidelity for fields a future substrate
// version adds but this one does not interpret, the same forward-compat
// discipline the canonical save format relies on.
type SimEvent struct {
	Tick          uint64      `json:"tick"`
	EventID       uint64      `json:"eventId"`
	EventType     string      `json:"eventType"`
	Params        codec.Value `json:"params"`
	UnknownFields codec.Value `json:"unknownFields,omitempty"`
}

func (e *SimEvent) clone() *SimEvent {
	if e == nil {
		return nil
	}
	c := *e
	c.Params = e.Params.Clone()
	c.UnknownFields = e.UnknownFields.Clone()
	return &c
}

// EventQueue is the deterministic min-heap-by-tick queue of spec.md §4.3,
// implemented as tick-keyed FIFO buckets rather than a literal heap: the
// simulation only ever drains the current tick's bucket in order, so a
// bucket map gives the same ordering guarantee with none of a heap's
// incidental complexity.
type EventQueue struct {
	buckets     map[uint64][]*SimEvent
	location    map[uint64]uint64 // event_id -> tick, for O(1) cancellation
	canceled    map[uint64]struct{}
	nextEventID uint64
}

// NewEventQueue constructs an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{
		buckets:  make(map[uint64][]*SimEvent),
		location: make(map[uint64]uint64),
		canceled: make(map[uint64]struct{}),
	}
}

// ScheduleEvent assigns a monotonically increasing event_id and appends the
// event to tick's bucket in insertion order. It fails with ErrInvalidArgument
// if tick precedes currentTick outside the same-tick drain phase, per
// spec.md §4.3.
func (q *EventQueue) ScheduleEvent(currentTick uint64, draining bool, tick uint64, eventType string, params codec.Value) (uint64, error) {
	if tick < currentTick && !draining {
		return 0, fmt.Errorf("%w: schedule_event tick %d precedes current tick %d", ErrInvalidArgument, tick, currentTick)
	}
	id := q.nextEventID
	q.nextEventID++
	evt := &SimEvent{
		Tick:          tick,
		EventID:       id,
		EventType:     eventType,
		Params:        params.Clone(),
		UnknownFields: codec.EmptyObject(),
	}
	q.buckets[tick] = append(q.buckets[tick], evt)
	q.location[id] = tick
	return id, nil
}

// CancelEvent marks a pending event canceled; it is skipped (rather than
// removed in place) the next time its bucket is drained, so cancellation
// never has to shift other events' positions. Returns false if eventID is
// unknown or already canceled.
func (q *EventQueue) CancelEvent(eventID uint64) bool {
	if _, ok := q.location[eventID]; !ok {
		return false
	}
	if _, already := q.canceled[eventID]; already {
		return false
	}
	q.canceled[eventID] = struct{}{}
	return true
}

// PopNextForTick removes and returns the next non-canceled event scheduled
// for tick, in FIFO order, or (nil, false) once the bucket is exhausted.
func (q *EventQueue) PopNextForTick(tick uint64) (*SimEvent, bool) {
	bucket := q.buckets[tick]
	for len(bucket) > 0 {
		evt := bucket[0]
		bucket = bucket[1:]
		if _, canceled := q.canceled[evt.EventID]; canceled {
			delete(q.canceled, evt.EventID)
			delete(q.location, evt.EventID)
			continue
		}
		delete(q.location, evt.EventID)
		if len(bucket) == 0 {
			delete(q.buckets, tick)
		} else {
			q.buckets[tick] = bucket
		}
		return evt, true
	}
	delete(q.buckets, tick)
	return nil, false
}

// NextID reserves and returns the next monotonic event_id without enqueuing
// anything, used by the entity-update phase's directly-emitted travel_step
// events (spec.md §4.9 phase 4) so their ids stay part of the same
// monotonic sequence as queued events.
func (q *EventQueue) NextID() uint64 {
	id := q.nextEventID
	q.nextEventID++
	return id
}

// HasPending reports whether tick's bucket still holds a non-canceled event.
func (q *EventQueue) HasPending(tick uint64) bool {
	for _, evt := range q.buckets[tick] {
		if _, canceled := q.canceled[evt.EventID]; !canceled {
			return true
		}
	}
	return false
}

// PendingForTick returns a deep-copied snapshot of tick's non-canceled
// bucket contents without consuming them, used by the periodic scheduler's
// rehydration scan.
func (q *EventQueue) PendingForTick(tick uint64) []*SimEvent {
	bucket := q.buckets[tick]
	out := make([]*SimEvent, 0, len(bucket))
	for _, evt := range bucket {
		if _, canceled := q.canceled[evt.EventID]; canceled {
			continue
		}
		out = append(out, evt.clone())
	}
	return out
}

// AllPending returns every non-canceled pending event across all ticks, in
// tick then insertion order, used to scan for a specific event_type during
// rehydration without needing to know which tick it landed on.
func (q *EventQueue) AllPending() []*SimEvent {
	ticks := make([]uint64, 0, len(q.buckets))
	for t := range q.buckets {
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })
	out := make([]*SimEvent, 0)
	for _, t := range ticks {
		out = append(out, q.PendingForTick(t)...)
	}
	return out
}

// QueueSnapshot is the serializable form of an EventQueue, used by the
// canonical save payload's simulation_state.event_queue.
type QueueSnapshot struct {
	NextEventID uint64      `json:"nextEventId"`
	Pending     []*SimEvent `json:"pending"`
}

// Snapshot captures the queue's current pending contents and id counter for
// serialization. Canceled-but-not-yet-popped events are omitted, since they
// carry no further significance once marked.
func (q *EventQueue) Snapshot() QueueSnapshot {
	return QueueSnapshot{
		NextEventID: q.nextEventID,
		Pending:     q.AllPending(),
	}
}

// RestoreEventQueue rebuilds a queue from a snapshot taken by Snapshot.
func RestoreEventQueue(snap QueueSnapshot) *EventQueue {
	q := NewEventQueue()
	q.nextEventID = snap.NextEventID
	for _, evt := range snap.Pending {
		clone := evt.clone()
		q.buckets[clone.Tick] = append(q.buckets[clone.Tick], clone)
		q.location[clone.EventID] = clone.Tick
	}
	return q
}
