package sim

import "testing"

func TestSimulationTimeDayAndTickInDay(t *testing.T) {
	tm := NewSimulationTime(240)
	tm.Tick = 245
	if tm.DayIndex() != 1 {
		t.Fatalf("expected day index 1, got %d", tm.DayIndex())
	}
	if tm.TickInDay() != 5 {
		t.Fatalf("expected tick-in-day 5, got %d", tm.TickInDay())
	}
}

func TestSimulationTimeDefaultsTicksPerDay(t *testing.T) {
	tm := NewSimulationTime(0)
	if tm.TicksPerDay != DefaultTicksPerDay {
		t.Fatalf("expected default ticks per day %d, got %d", DefaultTicksPerDay, tm.TicksPerDay)
	}
}

func TestSimulationTimeOfDayFraction(t *testing.T) {
	tm := NewSimulationTime(100)
	tm.Tick = 25
	got := tm.TimeOfDayFraction()
	if got != 0.25 {
		t.Fatalf("expected fraction 0.25, got %v", got)
	}
}
