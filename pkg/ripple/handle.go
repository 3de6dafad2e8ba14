package ripple

import "sync/atomic"

// Handle identifies a listener or reaction registration and allows
// detaching it. Handles are returned by On and When; a registration with no
// surviving Handle lives as long as the store.
type Handle struct {
	store *Store
	id    uint64
	keys  []string

	stopped atomic.Bool
}

// Stop detaches the registration from every property it was attached to.
// A stopped raw listener no longer fires on Set; a stopped reaction no
// longer has its resolver scheduled by future Sets. A resolver already
// scheduled for a pending burst still runs, but checks stopped state and
// does nothing.
//
// Stop is idempotent and safe to call from listener code.
func (h *Handle) Stop() {
	if h == nil || h.stopped.Swap(true) {
		return
	}
	h.store.detach(h.keys, h.id)
}

// Stopped reports whether Stop has been called.
func (h *Handle) Stopped() bool {
	return h != nil && h.stopped.Load()
}
