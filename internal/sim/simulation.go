// Package sim implements the tick phase machine binding the event queue,
// command log, rules-state store, event trace, and rule module registry into
// the authoritative Simulation of spec.md §4.9.
package sim

import (
	"context"
	"fmt"
	"sort"

	"hexcrawl-substrate/internal/apperr"
	"hexcrawl-substrate/internal/codec"
	"hexcrawl-substrate/internal/rng"
	"hexcrawl-substrate/internal/schema"
	"hexcrawl-substrate/internal/world"
	"hexcrawl-substrate/logging"
)

// MaxEventsPerTick is the hard deterministic guard of spec.md §4.3:
// exceeding it during a single tick's same-tick drain is a fatal,
// deterministic bug signal, never a condition to recover from.
const MaxEventsPerTick = 10000

// Reserved command types spec.md §6 assigns to the substrate itself; all
// other command types belong to rule modules and are validated only
// structurally at this layer.
const (
	CommandSetEntityMoveVector     = "set_entity_move_vector"
	CommandSetEntityTargetPosition = "set_entity_target_position"
	CommandTransitionSpace         = "transition_space"
)

// EventTypeTravelStep is the substrate-reserved event type emitted on a
// hex-boundary crossing during the entity-update phase (spec.md §4.9 phase
// 4, §6).
const EventTypeTravelStep = "travel_step"

// Simulation binds the RNG streams, world, event queue, command log,
// rules-state store, event trace, and module registry, and drives the
// authoritative tick phase machine (spec.md §4.9). It is the sole mutator of
// authoritative state; rule modules receive a mutable *Simulation only
// during their hook calls.
type Simulation struct {
	World *world.World
	Time  SimulationTime

	masterSeed int64
	streams    *rng.Streams
	events     *EventQueue
	commands   *CommandLog
	rules      *RulesState
	trace      *EventTrace
	execLog    *ExecutionLog
	modules    *ModuleRegistry
	schemas    *schema.Registry
	logs       logging.Publisher

	// executing is true for the full duration of a runTick call (phases
	// 1-6). It governs whether schedule_event may target a tick earlier
	// than the current one, per spec.md §4.3's "same-tick drain phase"
	// carve-out — commands and event handlers both run inside this window,
	// and both may legitimately schedule_event(T, ...) for the tick
	// presently being processed.
	executing bool

	started bool
}

// NewWithSeedAndTopology constructs a Simulation with a fresh World seeded
// with a single initial space of the given topology, and registers the
// built-in periodic scheduler module (spec.md §6
// "Simulation::new_with_seed_and_topology").
func NewWithSeedAndTopology(masterSeed int64, spaceID string, topologyType world.TopologyType, params world.TopologyParams) (*Simulation, error) {
	return NewWithSeedAndTopologyAndLedgers(masterSeed, spaceID, topologyType, params, world.NewLedgers())
}

// NewWithSeedAndTopologyAndLedgers is NewWithSeedAndTopology with
// caller-supplied bounded-ledger capacities (internal/config's
// SubstrateConfig.LedgerCaps feeds this from cmd/substrate).
func NewWithSeedAndTopologyAndLedgers(masterSeed int64, spaceID string, topologyType world.TopologyType, params world.TopologyParams, ledgers world.Ledgers) (*Simulation, error) {
	w, err := world.NewWithSeedAndTopologyAndLedgers(spaceID, topologyType, params, ledgers)
	if err != nil {
		return nil, err
	}
	s := &Simulation{
		World:      w,
		Time:       NewSimulationTime(DefaultTicksPerDay),
		masterSeed: masterSeed,
		streams:    rng.NewStreams(masterSeed),
		events:     NewEventQueue(),
		commands:   NewCommandLog(),
		rules:      NewRulesState(),
		trace:      NewEventTrace(),
		execLog:    NewExecutionLog(),
		modules:    NewModuleRegistry(),
		logs:       logging.NopPublisher(),
	}
	if err := s.modules.Register(NewPeriodicScheduler()); err != nil {
		return nil, err
	}
	return s, nil
}

// CurrentTick returns the tick about to execute (or currently executing).
func (s *Simulation) CurrentTick() uint64 { return s.Time.Tick }

// PeriodicScheduler returns the built-in periodic-scheduler module, for
// callers that want to RegisterTask/SetTaskCallback directly.
func (s *Simulation) PeriodicScheduler() *PeriodicScheduler {
	m, ok := s.modules.Get(PeriodicSchedulerModuleName)
	if !ok {
		return nil
	}
	return m.(*PeriodicScheduler)
}

// RegisterRuleModule inserts module at the end of the registry. Fails with
// ErrDuplicateModule if module.Name() is already registered.
func (s *Simulation) RegisterRuleModule(module RuleModule) error {
	return s.modules.Register(module)
}

// GetRuleModule returns the module registered under name, if any.
func (s *Simulation) GetRuleModule(name string) (RuleModule, bool) {
	return s.modules.Get(name)
}

// RNGStream returns the stable Generator for name, deriving it from the
// master seed on first access (spec.md §4.1).
func (s *Simulation) RNGStream(name string) *rng.Generator {
	return s.streams.Stream(name)
}

// GetRulesState returns a deep copy of module_name's persistent state.
func (s *Simulation) GetRulesState(moduleName string) codec.Value {
	return s.rules.Get(moduleName)
}

// SetRulesState stores a deep copy of value under module_name. It performs
// no validation: a codec.Value built with codec.Float may hold NaN or ±Inf
// (only codec.FromAny rejects non-finite numbers), and such a value is
// stored as given.
func (s *Simulation) SetRulesState(moduleName string, value codec.Value) {
	s.rules.Set(moduleName, value)
}

// GetEventTrace returns a deep copy of the bounded executed-event trace.
func (s *Simulation) GetEventTrace() []*SimEvent {
	return s.trace.Entries()
}

// ScheduleEvent assigns a monotonically increasing event_id and enqueues the
// event, enforcing the same-tick scheduling rule of spec.md §4.3.
func (s *Simulation) ScheduleEvent(tick uint64, eventType string, params codec.Value) (uint64, error) {
	return s.events.ScheduleEvent(s.Time.Tick, s.executing, tick, eventType, params)
}

// CancelEvent cancels a pending event; see EventQueue.CancelEvent.
func (s *Simulation) CancelEvent(eventID uint64) bool {
	return s.events.CancelEvent(eventID)
}

// SetSchemaRegistry attaches a compiled schema.Registry used to validate
// append_command's params beyond plain JSON-object structure. A nil
// registry (the default) skips this extra layer entirely.
func (s *Simulation) SetSchemaRegistry(reg *schema.Registry) {
	s.schemas = reg
}

// SetLogPublisher attaches a logging.Publisher the phase machine reports tick
// lifecycle and forensic rejection events to. A nil publisher is replaced
// with logging.NopPublisher(); authoritative state never depends on whether
// anything is actually listening.
func (s *Simulation) SetLogPublisher(pub logging.Publisher) {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	s.logs = pub
}

// logEvent defaults evt.Tick to the tick currently executing unless the
// caller already stamped a non-zero one. tick_end, which reports the tick
// that just finished after the phase-6 counter advance, publishes directly
// instead so that tick 0 is not mistaken for an unset tick.
func (s *Simulation) logEvent(evt logging.Event) {
	if evt.Tick == 0 {
		evt.Tick = s.Time.Tick
	}
	s.logs.Publish(context.Background(), evt)
}

// logRejection reports a forensic, non-fatal rejection (spec.md §4.6/§7:
// NotApplicable, InvalidCommand, InvalidEvent never surface as a returned
// error's sole record — they are also logged as telemetry, the way the
// teacher's journal.go resync policy separates a rejection from a failure).
func (s *Simulation) logRejection(kind apperr.Kind, detail string) {
	s.logEvent(logging.Event{
		Type:     logging.EventType(kind.String()),
		Severity: logging.SeverityWarn,
		Category: logging.CategoryForensic,
		Payload:  detail,
	})
}

// AppendCommand records a command for execution during tick's command
// phase. command_type must be non-empty and params must be a JSON object
// (spec.md §4.9, §7 ErrInvalidCommand); if a schema.Registry is attached,
// command_type's compiled schema (if any) additionally validates params.
func (s *Simulation) AppendCommand(tick uint64, entityID *string, commandType string, params codec.Value) (*SimCommand, error) {
	if commandType == "" {
		s.logRejection(apperr.KindInvalidCommand, "command_type must be non-empty")
		return nil, fmt.Errorf("%w: command_type must be non-empty", ErrInvalidCommand)
	}
	obj, ok := params.AsObject()
	if !ok {
		s.logRejection(apperr.KindInvalidCommand, commandType+": params must be a JSON object")
		return nil, fmt.Errorf("%w: params must be a JSON object", ErrInvalidCommand)
	}
	if s.schemas != nil {
		if err := s.schemas.Validate(commandType, codec.Object(obj).ToAny()); err != nil {
			s.logRejection(apperr.KindInvalidCommand, fmt.Sprintf("%s: %v", commandType, err))
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCommand, commandType, err)
		}
	}
	return s.commands.Append(tick, entityID, commandType, params), nil
}

// ensureStarted fires on_simulation_start on every registered module exactly
// once, the first time the phase machine actually advances a tick (not at
// construction, so rule modules registered after NewWithSeedAndTopology but
// before the first AdvanceTicks still receive the start hook).
func (s *Simulation) ensureStarted() {
	if s.started {
		return
	}
	s.started = true
	for _, m := range s.modules.InOrder() {
		m.OnSimulationStart(s)
	}
}

// AdvanceTicks runs the phase machine for n ticks (spec.md §4.9).
func (s *Simulation) AdvanceTicks(n uint64) error {
	s.ensureStarted()
	for i := uint64(0); i < n; i++ {
		if err := s.runTick(); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceDays runs the phase machine for n days, i.e. n * ticks_per_day
// ticks.
func (s *Simulation) AdvanceDays(n uint64) error {
	return s.AdvanceTicks(n * s.Time.TicksPerDay)
}

// runTick executes exactly the six phases of spec.md §4.9 for the current
// tick, in order, and nothing else.
func (s *Simulation) runTick() error {
	tick := s.Time.Tick
	s.executing = true
	defer func() { s.executing = false }()

	s.execLog.Reset()
	s.logEvent(logging.Event{Type: "tick_start", Severity: logging.SeverityDebug, Category: logging.CategoryTick})

	// Phase 1: on_tick_start, registration order.
	for _, m := range s.modules.InOrder() {
		m.OnTickStart(s, tick)
	}

	// Phase 2: apply every command logged for this tick, in stored
	// insertion order. A command's execution may schedule_event(tick, ...).
	for _, cmd := range s.commands.ForTick(tick) {
		if err := s.applyBuiltinCommand(cmd); err != nil {
			return err
		}
	}

	// Phase 3: drain-until-empty execution of this tick's events.
	executed := 0
	for s.events.HasPending(tick) {
		evt, ok := s.events.PopNextForTick(tick)
		if !ok {
			break
		}
		executed++
		if executed > MaxEventsPerTick {
			s.logEvent(logging.Event{
				Type:     logging.EventType(apperr.KindRunawayEventFanout.String()),
				Severity: logging.SeverityError,
				Category: logging.CategorySystem,
				Payload:  fmt.Sprintf("tick %d exceeded %d executed events", tick, MaxEventsPerTick),
			})
			return fmt.Errorf("%w: tick %d exceeded %d executed events", ErrRunawayEventFanout, tick, MaxEventsPerTick)
		}
		s.dispatchEventExecuted(evt)
	}

	// Phase 4: entity position updates, sorted id order.
	if err := s.advanceEntities(tick); err != nil {
		return err
	}

	// Phase 5: on_tick_end, registration order.
	for _, m := range s.modules.InOrder() {
		m.OnTickEnd(s, tick)
	}

	// Phase 6: advance the authoritative tick counter.
	s.Time.Tick = tick + 1

	if err := s.World.CheckInvariants(); err != nil {
		return err
	}
	s.logs.Publish(context.Background(), logging.Event{Type: "tick_end", Tick: tick, Severity: logging.SeverityDebug, Category: logging.CategoryTick})
	return nil
}

// dispatchEventExecuted runs evt, notifies every module's
// on_event_executed hook in registration order, and appends evt to the
// bounded event trace (spec.md §4.9 phase 3).
func (s *Simulation) dispatchEventExecuted(evt *SimEvent) {
	s.execLog.Record(evt.EventID)
	for _, m := range s.modules.InOrder() {
		m.OnEventExecuted(s, evt)
	}
	s.trace.Append(evt)
}

// applyBuiltinCommand handles the three substrate-reserved command types of
// spec.md §6; any other command_type is structurally valid (already checked
// in AppendCommand) but has no substrate-level effect — it exists purely for
// rule modules to observe via their own command handling, which this phase
// machine does not perform on their behalf (rule modules act on commands
// through their own on_tick_start/on_event_executed bookkeeping against
// rules_state, not by the substrate dispatching to them directly; a module's
// own command types are commonly turned into events it schedules from
// on_tick_start after scanning the log).
func (s *Simulation) applyBuiltinCommand(cmd *SimCommand) error {
	switch cmd.CommandType {
	case CommandSetEntityMoveVector:
		return s.applySetEntityMoveVector(cmd)
	case CommandSetEntityTargetPosition:
		return s.applySetEntityTargetPosition(cmd)
	case CommandTransitionSpace:
		return s.applyTransitionSpace(cmd)
	default:
		return nil
	}
}

func (s *Simulation) applySetEntityMoveVector(cmd *SimCommand) error {
	if cmd.EntityID == nil {
		return nil
	}
	entity, ok := s.World.Entities[*cmd.EntityID]
	if !ok {
		return nil
	}
	obj, ok := cmd.Params.AsObject()
	if !ok {
		return nil
	}
	x, _ := floatField(obj, "x")
	y, _ := floatField(obj, "y")
	entity.MoveVector = world.Vec2{X: x, Y: y}
	entity.TargetPosition = nil
	return nil
}

func (s *Simulation) applySetEntityTargetPosition(cmd *SimCommand) error {
	if cmd.EntityID == nil {
		return nil
	}
	entity, ok := s.World.Entities[*cmd.EntityID]
	if !ok {
		return nil
	}
	obj, ok := cmd.Params.AsObject()
	if !ok {
		return nil
	}
	x, okX := floatField(obj, "x")
	y, okY := floatField(obj, "y")
	if !okX || !okY {
		entity.TargetPosition = nil
		return nil
	}
	target := world.Vec2{X: x, Y: y}
	entity.TargetPosition = &target
	return nil
}

func (s *Simulation) applyTransitionSpace(cmd *SimCommand) error {
	if cmd.EntityID == nil {
		return nil
	}
	entity, ok := s.World.Entities[*cmd.EntityID]
	if !ok {
		return nil
	}
	obj, ok := cmd.Params.AsObject()
	if !ok {
		return nil
	}
	spaceIDVal, ok := obj["spaceId"]
	if !ok {
		return nil
	}
	spaceID, ok := spaceIDVal.AsString()
	if !ok {
		return nil
	}
	if _, exists := s.World.Spaces[spaceID]; !exists {
		return fmt.Errorf("sim: transition_space: unknown space %q", spaceID)
	}
	entity.SpaceID = spaceID
	if x, okX := floatField(obj, "x"); okX {
		if y, okY := floatField(obj, "y"); okY {
			entity.Position = world.Vec2{X: x, Y: y}
		}
	}
	entity.MoveVector = world.Vec2{}
	entity.TargetPosition = nil
	return nil
}

func floatField(obj map[string]codec.Value, key string) (float64, bool) {
	v, ok := obj[key]
	if !ok {
		return 0, false
	}
	if f, ok := v.AsFloat(); ok {
		return f, true
	}
	if i, ok := v.AsInt(); ok {
		return float64(i), true
	}
	return 0, false
}

// advanceEntities runs phase 4: each entity advances by its move vector or
// target-seek vector, clamps to a valid cell, and emits a travel_step event
// on a hex-boundary crossing. Entities are processed in sorted id order for
// determinism.
func (s *Simulation) advanceEntities(tick uint64) error {
	ids := make([]string, 0, len(s.World.Entities))
	for id := range s.World.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		entity := s.World.Entities[id]
		space, ok := s.World.Spaces[entity.SpaceID]
		if !ok {
			return fmt.Errorf("sim: entity %q references unknown space %q", id, entity.SpaceID)
		}

		fromRef := entityLocationRef(entity, space)
		newPos := nextPosition(entity)

		candidate := *entity
		candidate.Position = newPos
		toRef := entityLocationRef(&candidate, space)
		if !space.CellExists(toRef) {
			// Clamp: an out-of-bounds step never lands; the entity holds
			// its prior position for this tick.
			continue
		}
		if fromRef.Key() != toRef.Key() && s.World.SpatialIndex().Blocked(fromRef, toRef) {
			// Clamp: a recorded occlusion edge blocks this cell boundary;
			// the entity holds its prior position for this tick, same as an
			// out-of-bounds step.
			continue
		}
		entity.Position = newPos
		if entity.TargetPosition != nil && newPos == *entity.TargetPosition {
			entity.TargetPosition = nil
		}

		if fromRef.Key() != toRef.Key() {
			s.emitTravelStep(tick, id, fromRef, toRef)
		}
	}
	s.World.RebuildSpatialIndex()
	return nil
}

func entityLocationRef(e *world.Entity, space *world.SpaceState) world.LocationRef {
	ref := world.LocationRef{SpaceID: space.SpaceID, TopologyType: space.TopologyType}
	if space.TopologyType == world.TopologySquareGrid {
		ref.Square = world.WorldToSquare(e.Position)
	} else {
		ref.Coord = e.HexCoordIn(space)
	}
	return ref
}

func nextPosition(e *world.Entity) world.Vec2 {
	if e.TargetPosition != nil {
		dx := e.TargetPosition.X - e.Position.X
		dy := e.TargetPosition.Y - e.Position.Y
		ux, uy := world.NormalizedVector(dx, dy)
		const seekSpeed = 1.0
		if ux == 0 && uy == 0 {
			return e.Position
		}
		step := world.Vec2{X: e.Position.X + ux*seekSpeed, Y: e.Position.Y + uy*seekSpeed}
		// Never overshoot the target.
		if (step.X-e.TargetPosition.X)*dx >= 0 && (step.Y-e.TargetPosition.Y)*dy >= 0 {
			return *e.TargetPosition
		}
		return step
	}
	return world.Vec2{X: e.Position.X + e.MoveVector.X, Y: e.Position.Y + e.MoveVector.Y}
}

// emitTravelStep directly records a travel_step event as already executed:
// it is a notification of something the entity-update phase just did, not a
// future action to schedule and drain, so it is appended straight to the
// trace (and dispatched to on_event_executed) rather than routed through the
// event queue's tick buckets.
func (s *Simulation) emitTravelStep(tick uint64, entityID string, from, to world.LocationRef) {
	params := codec.Object(map[string]codec.Value{
		"entityId":     codec.String(entityID),
		"locationFrom": locationRefValue(from),
		"locationTo":   locationRefValue(to),
	})
	evt := &SimEvent{
		Tick:          tick,
		EventID:       s.events.NextID(),
		EventType:     EventTypeTravelStep,
		Params:        params,
		UnknownFields: codec.EmptyObject(),
	}
	s.dispatchEventExecuted(evt)
}

func locationRefValue(ref world.LocationRef) codec.Value {
	fields := map[string]codec.Value{
		"spaceId":      codec.String(ref.SpaceID),
		"topologyType": codec.String(string(ref.TopologyType)),
	}
	if ref.TopologyType == world.TopologySquareGrid {
		fields["square"] = codec.Object(map[string]codec.Value{
			"x": codec.Int(int64(ref.Square.X)),
			"y": codec.Int(int64(ref.Square.Y)),
		})
	} else {
		fields["coord"] = codec.Object(map[string]codec.Value{
			"q": codec.Int(int64(ref.Coord.Q)),
			"r": codec.Int(int64(ref.Coord.R)),
		})
	}
	return codec.Object(fields)
}

// SimulationHash returns the canonical SHA-256 digest over the hash-covered
// portion of the simulation's state (spec.md §4.2, §8 "Seed identity").
func (s *Simulation) SimulationHash() (string, error) {
	value, err := s.hashableValue()
	if err != nil {
		return "", err
	}
	return codec.Hash(value)
}

func (s *Simulation) hashableValue() (codec.Value, error) {
	worldValue, err := worldToValue(s.World)
	if err != nil {
		return codec.Value{}, err
	}
	simValue := s.stateValue()
	return codec.Object(map[string]codec.Value{
		"worldState":      worldValue,
		"simulationState": simValue,
	}), nil
}
