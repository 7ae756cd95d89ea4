package sim

// DefaultTicksPerDay is the default day length in ticks (spec.md §3).
const DefaultTicksPerDay = 240

// SimulationTime is the authoritative tick counter plus the derived,
// read-only day/time-of-day breakdown (spec.md §3).
type SimulationTime struct {
	Tick         uint64 `json:"tick"`
	TicksPerDay  uint64 `json:"ticksPerDay"`
	EpochTick    uint64 `json:"epochTick"`
}

// NewSimulationTime constructs a time starting at tick 0 with the given
// ticks-per-day (DefaultTicksPerDay if zero) and an epoch fixed at 0.
func NewSimulationTime(ticksPerDay uint64) SimulationTime {
	if ticksPerDay == 0 {
		ticksPerDay = DefaultTicksPerDay
	}
	return SimulationTime{TicksPerDay: ticksPerDay}
}

// DayIndex returns the zero-based day number the current tick falls in.
func (t SimulationTime) DayIndex() uint64 {
	if t.TicksPerDay == 0 {
		return 0
	}
	return (t.Tick - t.EpochTick) / t.TicksPerDay
}

// TickInDay returns the zero-based tick offset within the current day.
func (t SimulationTime) TickInDay() uint64 {
	if t.TicksPerDay == 0 {
		return 0
	}
	return (t.Tick - t.EpochTick) % t.TicksPerDay
}

// TimeOfDayFraction returns TickInDay as a fraction of TicksPerDay in
// [0, 1).
func (t SimulationTime) TimeOfDayFraction() float64 {
	if t.TicksPerDay == 0 {
		return 0
	}
	return float64(t.TickInDay()) / float64(t.TicksPerDay)
}
