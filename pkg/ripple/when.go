package ripple

// WhenOption configures a reaction registered with When or WhenKey.
type WhenOption func(*whenOptions)

// whenOptions holds per-reaction configuration.
type whenOptions struct {
	name string
}

// WhenName names a reaction. The name appears in the store's reaction hooks
// (OnReactionFire, OnReactionSkip) so instrumentation can tell reactions
// apart. Unnamed reactions report "".
func WhenName(name string) WhenOption {
	return func(o *whenOptions) {
		o.name = name
	}
}

// When registers fn as a reaction on the given dependency properties.
//
// One coalesced resolver is built and attached to every property in deps,
// so a change to any dependency schedules the same single resolver: however
// many dependencies change within one scheduler turn, the reaction runs at
// most once, on a later turn, observing the settled values.
//
// When the resolver runs it reads each dependency in deps order. If every
// value is defined (see Defined), fn is called with the values in that same
// order; if any is undefined or nil the reaction is silently skipped for
// that burst. The resolver is also triggered once at registration, through
// the same coalescing path, so the reaction reflects initial state without
// requiring a subsequent Set.
//
// An empty deps list is vacuously defined: fn runs once with an empty slice
// on the first burst and, with no properties to trigger it, never again.
//
// The values slice is owned by the callback; each run builds a fresh one.
func (s *Store) When(deps []string, fn func(values []any), opts ...WhenOption) *Handle {
	var options whenOptions
	for _, opt := range opts {
		opt(&options)
	}

	// Snapshot the dependency list; the resolver is closed over this copy,
	// not the caller's slice.
	depList := make([]string, len(deps))
	copy(depList, deps)

	id := nextID()
	h := &Handle{store: s, id: id, keys: depList}

	resolver := func() {
		if h.Stopped() {
			return
		}
		values := make([]any, len(depList))
		for i, key := range depList {
			values[i] = s.Get(key)
		}
		for _, v := range values {
			if !Defined(v) {
				if s.hooks.OnReactionSkip != nil {
					s.hooks.OnReactionSkip(options.name)
				}
				return
			}
		}
		if s.hooks.OnReactionFire != nil {
			s.hooks.OnReactionFire(options.name)
		}
		fn(values)
	}

	trigger := s.coalesce(resolver)
	for _, key := range depList {
		s.attach(key, listenerEntry{id: id, fn: trigger})
	}

	// Initialization firing: scheduled like any other burst.
	trigger()

	return h
}

// WhenKey is single-dependency sugar for When.
func (s *Store) WhenKey(key string, fn func(value any), opts ...WhenOption) *Handle {
	return s.When([]string{key}, func(values []any) {
		fn(values[0])
	}, opts...)
}
