package ripple

import "sync"

// Scheduler defers an action to a later turn of the host's cooperative
// scheduler. The store uses it to run coalesced reactions after the
// triggering Set calls have returned.
//
// Implementations must run each scheduled action exactly once. They need not
// order actions relative to each other; the store makes no cross-reaction
// ordering promise.
type Scheduler interface {
	// ScheduleOnce queues fn to run on a later turn.
	ScheduleOnce(fn func())
}

// ManualScheduler is a Scheduler drained explicitly by the caller. It is the
// store's default: hosts that own their own run loop call Flush at the end
// of each turn, and tests call Flush to make deferred reactions observable
// synchronously.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ScheduleOnce queues fn for the next Flush.
func (m *ManualScheduler) ScheduleOnce(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// Flush runs queued actions until the queue is empty. Actions scheduled
// while flushing run in the same Flush call, each on its own "turn": an
// action that re-triggers a coalesced reaction therefore sees it run again
// before Flush returns.
func (m *ManualScheduler) Flush() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
	}
}

// Pending returns the number of actions waiting for Flush.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
