package ripple

import "testing"

func TestCoalesceBurstRunsOnce(t *testing.T) {
	m := NewManualScheduler()
	s := New(WithScheduler(m))

	runs := 0
	trigger := s.coalesce(func() { runs++ })

	trigger()
	trigger()
	trigger()

	if runs != 0 {
		t.Errorf("action ran synchronously, runs = %d", runs)
	}
	if m.Pending() != 1 {
		t.Errorf("expected 1 scheduled action, got %d", m.Pending())
	}

	m.Flush()
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestCoalesceNewBurstAfterRun(t *testing.T) {
	m := NewManualScheduler()
	s := New(WithScheduler(m))

	runs := 0
	trigger := s.coalesce(func() { runs++ })

	trigger()
	m.Flush()
	trigger()
	m.Flush()

	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestCoalesceTriggerDuringRunSchedulesAgain(t *testing.T) {
	m := NewManualScheduler()
	s := New(WithScheduler(m))

	runs := 0
	var trigger func()
	trigger = s.coalesce(func() {
		runs++
		// The pending flag resets before the action executes, so this
		// call starts a fresh burst.
		if runs == 1 {
			trigger()
		}
	})

	trigger()
	m.Flush()

	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestCoalesceTriggersAreIndependent(t *testing.T) {
	m := NewManualScheduler()
	s := New(WithScheduler(m))

	aRuns, bRuns := 0, 0
	a := s.coalesce(func() { aRuns++ })
	b := s.coalesce(func() { bRuns++ })

	a()
	b()
	a()
	m.Flush()

	if aRuns != 1 || bRuns != 1 {
		t.Errorf("runs = %d/%d, want 1/1", aRuns, bRuns)
	}
}

func TestManualSchedulerFlushRunsNestedSchedules(t *testing.T) {
	m := NewManualScheduler()

	var order []int
	m.ScheduleOnce(func() {
		order = append(order, 1)
		m.ScheduleOnce(func() { order = append(order, 2) })
	})

	m.Flush()

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
	if m.Pending() != 0 {
		t.Errorf("pending = %d after flush, want 0", m.Pending())
	}
}

func TestManualSchedulerIgnoresNil(t *testing.T) {
	m := NewManualScheduler()
	m.ScheduleOnce(nil)
	if m.Pending() != 0 {
		t.Errorf("pending = %d, want 0", m.Pending())
	}
	m.Flush()
}
