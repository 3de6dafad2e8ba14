package ripple

// Typed getters for the common value kinds. Each returns the zero value and
// false when the property is undefined, nil, or holds a different type.

// GetString returns key's value as a string.
func (s *Store) GetString(key string) (string, bool) {
	v, ok := s.Get(key).(string)
	return v, ok
}

// GetBool returns key's value as a bool.
func (s *Store) GetBool(key string) (bool, bool) {
	v, ok := s.Get(key).(bool)
	return v, ok
}

// GetInt returns key's value as an int. Stored int64 and float64 values
// that fit are converted; JSON decoding produces float64 for numbers, so
// values set through the wire round-trip through this accessor.
func (s *Store) GetInt(key string) (int, bool) {
	switch v := s.Get(key).(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// GetFloat64 returns key's value as a float64. Stored int and int64 values
// are converted.
func (s *Store) GetFloat64(key string) (float64, bool) {
	switch v := s.Get(key).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
