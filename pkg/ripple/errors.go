package ripple

import "errors"

// ErrNotifyDepthExceeded is the panic value wrapped when a store configured
// with WithMaxNotifyDepth detects reentrant notification past its limit.
// It indicates listeners that Set each other's properties in a cycle.
//
// The store itself raises no errors: Get never fails, Set has no failure
// modes of its own, and listener panics propagate to the caller of Set (or
// to the scheduler turn running a coalesced reaction) unwrapped.
var ErrNotifyDepthExceeded = errors.New("ripple: notify depth exceeded")
