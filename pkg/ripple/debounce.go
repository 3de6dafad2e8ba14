package ripple

import "sync/atomic"

// coalesce wraps fn in a trigger that collapses a burst of calls into one
// deferred execution. The first trigger call in a burst flips the pending
// flag and schedules fn on the store's scheduler; further calls before fn
// runs are no-ops. The flag resets just before fn executes, so a trigger
// call arriving during fn's own execution starts a fresh burst with its own
// scheduled run.
//
// Triggers built by separate coalesce calls are independent: each fires
// once per burst, with no ordering contract between them.
func (s *Store) coalesce(fn func()) func() {
	var pending atomic.Bool
	return func() {
		// CAS ensures a burst schedules exactly once.
		if pending.CompareAndSwap(false, true) {
			s.sched.ScheduleOnce(func() {
				pending.Store(false)
				fn()
			})
		}
	}
}
