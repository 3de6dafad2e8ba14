// Package loop provides the single-goroutine event loop that backs a ripple
// store in production use.
//
// All work dispatched onto a Loop runs serially on one goroutine, giving the
// cooperative "turn" semantics coalesced reactions rely on: a reaction
// scheduled during a turn runs on a later turn, after the Set calls that
// triggered it have returned. Hosts run their own Sets on the loop via
// Dispatch or Call to keep the whole system single-threaded.
package loop

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the dispatch queue capacity used when no WithQueueSize
// option is given.
const DefaultQueueSize = 256

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the dispatch queue capacity.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithLogger sets the logger used for dropped callbacks and recovered
// panics. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loop is a single-goroutine cooperative scheduler. Each queued function is
// one turn; turns run serially in dispatch order.
//
// Loop implements ripple.Scheduler, so it can be passed directly to
// ripple.New via ripple.WithScheduler.
type Loop struct {
	queueSize  int
	dispatchCh chan func()
	done       chan struct{}

	logger *slog.Logger

	started atomic.Bool
	closed  atomic.Bool
	wg      sync.WaitGroup
}

// New creates a loop. Call Start to begin processing.
func New(opts ...Option) *Loop {
	l := &Loop{
		queueSize: DefaultQueueSize,
		logger:    slog.Default(),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.dispatchCh = make(chan func(), l.queueSize)
	return l
}

// Start launches the loop goroutine. Starting twice is a no-op.
func (l *Loop) Start() {
	if l.started.Swap(true) {
		return
	}
	l.wg.Add(1)
	go l.run()
}

// run drains the dispatch queue until Stop.
func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case fn := <-l.dispatchCh:
			l.execute(fn)
		case <-l.done:
			return
		}
	}
}

// execute runs one turn with panic recovery. A panicking callback is the
// loop's unhandled-failure surface: it is logged with its stack and the
// loop keeps running.
func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Dispatch queues fn to run on the loop goroutine. Safe to call from any
// goroutine, including from code already running on the loop. If the queue
// is full the callback is dropped with a warning rather than blocking.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil || l.closed.Load() {
		return
	}
	select {
	case l.dispatchCh <- fn:
	case <-l.done:
		// Loop is stopping, discard.
	default:
		l.logger.Warn("dispatch queue full, discarding callback")
	}
}

// ScheduleOnce queues fn as a later turn. It implements ripple.Scheduler.
func (l *Loop) ScheduleOnce(fn func()) {
	l.Dispatch(fn)
}

// Call dispatches fn and blocks until it has run. It must not be called
// from the loop goroutine itself, which would deadlock. Returns false if
// the loop stopped before fn ran or the queue was full.
func (l *Loop) Call(fn func()) bool {
	if fn == nil || l.closed.Load() {
		return false
	}
	ran := make(chan struct{})
	wrapped := func() {
		defer close(ran)
		fn()
	}
	select {
	case l.dispatchCh <- wrapped:
	case <-l.done:
		return false
	default:
		l.logger.Warn("dispatch queue full, discarding call")
		return false
	}
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// Stop shuts the loop down. Queued callbacks that have not started are
// discarded. Stop blocks until the loop goroutine exits and is idempotent.
func (l *Loop) Stop() {
	if l.closed.Swap(true) {
		return
	}
	close(l.done)
	l.wg.Wait()
}
