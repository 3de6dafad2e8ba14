package ripple

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// listenerEntry is one registered callback on a property. Entries keep
// their append order; Set fires them in that order.
type listenerEntry struct {
	id uint64
	fn func()
}

// Store is a reactive key/value property store. Each Store owns its value
// and listener maps exclusively; constructing several stores gives fully
// independent instances with no cross-talk.
//
// All methods are safe for concurrent use, but the reactive model is
// cooperative: listeners run synchronously on the goroutine calling Set,
// and coalesced reactions run on whatever goroutine the Scheduler uses.
// Hosts that want strictly single-threaded semantics run their Sets and
// their scheduler on the same event loop.
type Store struct {
	mu        sync.RWMutex
	values    map[string]any
	listeners map[string][]listenerEntry

	sched    Scheduler
	maxDepth int
	hooks    Hooks

	// notifyDepth tracks reentrant Set calls for the optional depth guard.
	notifyDepth atomic.Int32
}

// New creates an empty store. With no WithScheduler option the store owns a
// ManualScheduler; retrieve it with Scheduler and Flush it to run deferred
// reactions.
func New(opts ...Option) *Store {
	options := applyOptions(opts)
	if options.sched == nil {
		options.sched = NewManualScheduler()
	}
	return &Store{
		values:    make(map[string]any),
		listeners: make(map[string][]listenerEntry),
		sched:     options.sched,
		maxDepth:  options.maxDepth,
		hooks:     options.hooks,
	}
}

// Scheduler returns the scheduler this store defers coalesced reactions to.
func (s *Store) Scheduler() Scheduler {
	return s.sched
}

// Get returns the current value of key, or Undefined if key was never set.
// Get never fails and has no side effects.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return Undefined
	}
	return v
}

// Has reports whether key has ever been set, regardless of definedness.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	_, ok := s.values[key]
	s.mu.RUnlock()
	return ok
}

// Keys returns the set properties in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Set stores value under key, overwriting any prior value (storing nil over
// a defined value is legal: dependents re-check definedness). It then
// synchronously invokes every listener registered on key, in registration
// order, before returning.
//
// Listeners may call Set again; notification recurses with no cycle
// protection unless WithMaxNotifyDepth is configured. A panic in a listener
// propagates to the caller of Set.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	// Copy before notify so listener registrations during the round don't
	// race with iteration.
	var subs []listenerEntry
	if regs := s.listeners[key]; len(regs) > 0 {
		subs = make([]listenerEntry, len(regs))
		copy(subs, regs)
	}
	s.mu.Unlock()

	if s.hooks.OnSet != nil {
		s.hooks.OnSet(key)
	}

	if len(subs) == 0 {
		return
	}

	depth := s.notifyDepth.Add(1)
	defer s.notifyDepth.Add(-1)
	if s.maxDepth > 0 && int(depth) > s.maxDepth {
		panic(fmt.Errorf("%w: depth %d notifying %q", ErrNotifyDepthExceeded, depth, key))
	}

	for _, sub := range subs {
		if s.hooks.OnListenerFire != nil {
			s.hooks.OnListenerFire(key)
		}
		sub.fn()
	}
}

// SetMany applies every entry of bag via Set. Go maps have no iteration
// order, so entries are applied in sorted key order to keep the order
// stable within one call. Each key's notification round completes before
// the next key is stored; rounds are not batched across keys.
func (s *Store) SetMany(bag map[string]any) {
	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, bag[k])
	}
}

// SetPairs applies entries in exactly the order given. Use this instead of
// SetMany when the application order matters.
func (s *Store) SetPairs(pairs ...Pair) {
	for _, p := range pairs {
		s.Set(p.Key, p.Value)
	}
}

// On registers fn as a raw listener on key. fn is invoked with no arguments
// on every subsequent Set of key, synchronously, after listeners registered
// earlier. It reads current state via Get.
//
// The returned Handle detaches the listener; discard it for a listener that
// lives as long as the store.
func (s *Store) On(key string, fn func()) *Handle {
	id := nextID()
	s.attach(key, listenerEntry{id: id, fn: fn})
	return &Handle{store: s, id: id, keys: []string{key}}
}

// attach appends entry to key's listener list, creating the list lazily.
// Lists are only ever created non-empty.
func (s *Store) attach(key string, entry listenerEntry) {
	s.mu.Lock()
	s.listeners[key] = append(s.listeners[key], entry)
	s.mu.Unlock()
}

// detach removes the registration id from each of keys, dropping listener
// lists that become empty.
func (s *Store) detach(keys []string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		regs := s.listeners[key]
		for i, entry := range regs {
			if entry.id == id {
				regs = append(regs[:i], regs[i+1:]...)
				break
			}
		}
		if len(regs) == 0 {
			delete(s.listeners, key)
		} else {
			s.listeners[key] = regs
		}
	}
}

// ListenerCount returns the number of registrations on key, counting a
// multi-key reaction once per key it depends on. Intended for tests and
// instrumentation.
func (s *Store) ListenerCount(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners[key])
}
