package ripple

// undefinedValue is the type of the Undefined sentinel. It is unexported so
// no other value can compare equal to Undefined.
type undefinedValue struct{}

// String makes the sentinel print readably in logs and test failures.
func (undefinedValue) String() string { return "<undefined>" }

// Undefined is the sentinel returned by Get for properties that were never
// set. It is distinct from nil: a property explicitly set to nil exists but
// is not defined for the purpose of reactions.
var Undefined = undefinedValue{}

// Defined reports whether v counts as a defined property value. Both the
// Undefined sentinel and nil are treated as not defined, so overwriting a
// real value with nil makes dependent reactions stop firing.
func Defined(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(undefinedValue); ok {
		return false
	}
	return true
}

// Pair is a single key/value entry for SetPairs, which applies entries in
// the exact order given.
type Pair struct {
	Key   string
	Value any
}
