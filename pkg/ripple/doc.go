// Package ripple implements a reactive key/value property store.
//
// A Store maps string property names to values of any type. Writing a
// property with Set synchronously invokes every listener registered on that
// property, in registration order. Listeners take no arguments; they read
// whatever state they need back out of the store.
//
// # Properties
//
//	s := ripple.New()
//	s.Set("user", "ada")
//	name := s.Get("user") // "ada"
//	s.Get("missing")      // ripple.Undefined
//
// Get never fails: a property that was never set reads as the Undefined
// sentinel, which is distinct from a stored nil.
//
// # Reactions
//
// When registers a reaction on one or more dependency properties. The
// reaction is coalesced: however many of its dependencies change within one
// scheduler turn, it runs at most once, on a later turn, observing the
// settled values. It runs only when every dependency is defined (neither
// absent nor nil):
//
//	s.When([]string{"width", "height"}, func(vs []any) {
//	    area := vs[0].(int) * vs[1].(int)
//	    ...
//	})
//
// A reaction also fires once at registration time so it reflects initial
// state without requiring a subsequent Set.
//
// # Scheduling
//
// Coalescing needs a notion of "later turn". The store delegates this to a
// Scheduler, injected with WithScheduler. The default is a ManualScheduler
// drained by the embedding host; production hosts typically pass a
// loop.Loop, which runs deferred work on a single event-loop goroutine.
//
// # Reentrancy
//
// A listener may call Set again; notification recurses synchronously and the
// store performs no cycle detection. Mutually-triggering listeners are the
// caller's responsibility. WithMaxNotifyDepth installs an optional guard
// that panics past a depth limit instead of recursing forever.
package ripple
