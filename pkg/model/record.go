package model

import "strings"

// Record holds the typed values collected from one form submission, keyed by
// field key.
type Record map[string]any

// Clone returns a shallow copy of the record. Values are immutable scalars so
// a shallow copy is sufficient.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Text returns the string value stored under key.
func (r Record) Text(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Date returns the date stored under key.
func (r Record) Date(key string) (Date, bool) {
	d, ok := r[key].(Date)
	return d, ok && !d.IsZero()
}

// Int returns the number stored under key.
func (r Record) Int(key string) (int, bool) {
	switch v := r[key].(type) {
	case *int:
		if v == nil {
			return 0, false
		}
		return *v, true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// IsEmpty reports whether the value under key is missing or falsy: blank
// strings, zero dates and nil numbers.
func (r Record) IsEmpty(key string) bool {
	switch v := r[key].(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case Date:
		return v.IsZero()
	case *int:
		return v == nil
	default:
		return false
	}
}
