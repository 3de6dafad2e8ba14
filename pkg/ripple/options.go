package ripple

// Option is a functional option for configuring a Store.
type Option func(*storeOptions)

// storeOptions holds configuration applied by New.
type storeOptions struct {
	sched    Scheduler
	maxDepth int
	hooks    Hooks
}

// WithScheduler sets the scheduler used for coalesced reactions. Production
// hosts pass their event loop here; when omitted the store owns a
// ManualScheduler, reachable via Store.Scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *storeOptions) {
		o.sched = s
	}
}

// WithMaxNotifyDepth installs a guard against runaway reentrant
// notification. A listener calling Set recurses; past depth levels of
// recursion the store panics with ErrNotifyDepthExceeded instead of
// overflowing the stack. Zero (the default) disables the guard, preserving
// the unguarded semantics.
func WithMaxNotifyDepth(depth int) Option {
	return func(o *storeOptions) {
		o.maxDepth = depth
	}
}

// WithHooks registers observer callbacks invoked on store activity. Hooks
// are for instrumentation (counters, logging); they must not mutate the
// store. Nil fields are skipped.
func WithHooks(h Hooks) Option {
	return func(o *storeOptions) {
		o.hooks = h
	}
}

// Hooks are optional observer callbacks for store activity. All callbacks
// run synchronously on the goroutine performing the observed operation.
type Hooks struct {
	// OnSet runs after a value is stored, before listeners fire.
	OnSet func(key string)

	// OnListenerFire runs before each raw listener invocation.
	OnListenerFire func(key string)

	// OnReactionFire runs when a coalesced reaction's dependencies are all
	// defined and its callback is about to be invoked. name is the
	// reaction's WhenName, or "" if unnamed.
	OnReactionFire func(name string)

	// OnReactionSkip runs when a coalesced reaction resolved but at least
	// one dependency was undefined, so the callback was skipped.
	OnReactionSkip func(name string)
}

// applyOptions applies the given options and returns the resulting config.
func applyOptions(opts []Option) storeOptions {
	var options storeOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
