package sim

import (
	"sort"

	"hexcrawl-substrate/internal/codec"
)

// SimCommand is a single ingested command (spec.md §3). EntityID is nil for
// commands that do not target a specific entity (e.g. an admin or
// periodic-task-driven command).
type SimCommand struct {
	Tick         uint64      `json:"tick"`
	CommandIndex uint64      `json:"commandIndex"`
	EntityID     *string     `json:"entityId,omitempty"`
	CommandType  string      `json:"commandType"`
	Params       codec.Value `json:"params"`
}

func (c *SimCommand) clone() *SimCommand {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Params = c.Params.Clone()
	if c.EntityID != nil {
		id := *c.EntityID
		clone.EntityID = &id
	}
	return &clone
}

// CommandLog is the ordered, append-only log of spec.md §4.4: each tick's
// bucket records commands in the exact order append_command was called,
// which run_replay must reproduce verbatim.
type CommandLog struct {
	buckets map[uint64][]*SimCommand
}

// NewCommandLog constructs an empty log.
func NewCommandLog() *CommandLog {
	return &CommandLog{buckets: make(map[uint64][]*SimCommand)}
}

// Append records a command at the end of tick's bucket, assigning
// command_index as the bucket's length before the append.
func (l *CommandLog) Append(tick uint64, entityID *string, commandType string, params codec.Value) *SimCommand {
	bucket := l.buckets[tick]
	var entityIDCopy *string
	if entityID != nil {
		id := *entityID
		entityIDCopy = &id
	}
	cmd := &SimCommand{
		Tick:         tick,
		CommandIndex: uint64(len(bucket)),
		EntityID:     entityIDCopy,
		CommandType:  commandType,
		Params:       params.Clone(),
	}
	l.buckets[tick] = append(bucket, cmd)
	return cmd
}

// ForTick returns a deep-copied, insertion-ordered view of tick's commands.
func (l *CommandLog) ForTick(tick uint64) []*SimCommand {
	bucket := l.buckets[tick]
	out := make([]*SimCommand, len(bucket))
	for i, c := range bucket {
		out[i] = c.clone()
	}
	return out
}

// All returns the complete input log across every tick, in tick then
// command_index order, for the canonical save payload's input_log and for
// run_replay.
func (l *CommandLog) All() []*SimCommand {
	ticks := make([]uint64, 0, len(l.buckets))
	for t := range l.buckets {
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })
	out := make([]*SimCommand, 0)
	for _, t := range ticks {
		out = append(out, l.buckets[t]...)
	}
	return out
}

// RestoreCommandLog rebuilds a log from a previously captured All() slice,
// grouping back into per-tick buckets. Used both by load_game and by
// run_replay's "same phase machine, no replay-specific path" construction.
func RestoreCommandLog(commands []*SimCommand) *CommandLog {
	l := NewCommandLog()
	for _, c := range commands {
		clone := c.clone()
		l.buckets[clone.Tick] = append(l.buckets[clone.Tick], clone)
	}
	return l
}
