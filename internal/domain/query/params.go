package query

import "time"

// Params is the set of request parameters after binding, keyed by external name.
// Values are int, []int64, string, []string, bool or time.Time.
type Params struct {
	values map[string]any
}

// NewParams wraps bound parameter values. The map is copied.
func NewParams(values map[string]any) Params {
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Params{values: cp}
}

// IsPresent reports whether name carries a value.
func (p Params) IsPresent(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Value returns the raw value of name.
func (p Params) Value(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// With returns a copy of p with name set to v.
func (p Params) With(name string, v any) Params {
	cp := NewParams(p.values)
	cp.values[name] = v
	return cp
}

// Int returns an integer parameter.
func (p Params) Int(name string) (int, bool) {
	v, ok := p.values[name].(int)
	return v, ok
}

// IntList returns an integer list parameter.
func (p Params) IntList(name string) []int64 {
	v, _ := p.values[name].([]int64)
	return v
}

// String returns a string parameter, "" when absent.
func (p Params) String(name string) string {
	v, _ := p.values[name].(string)
	return v
}

// StringList returns a string list parameter.
func (p Params) StringList(name string) []string {
	v, _ := p.values[name].([]string)
	return v
}

// Bool returns a boolean parameter.
func (p Params) Bool(name string) (bool, bool) {
	v, ok := p.values[name].(bool)
	return v, ok
}

// Time returns a date-time parameter.
func (p Params) Time(name string) (time.Time, bool) {
	v, ok := p.values[name].(time.Time)
	return v, ok
}
