package command

import (
	"fmt"
	"time"
)

// Values holds the typed values bound to one command's arguments, in the
// order they were bound.
type Values struct {
	order    []string
	values   map[string]any
	explicit map[string]bool
}

// NewValues returns an empty value set.
func NewValues() *Values {
	return &Values{
		values:   make(map[string]any),
		explicit: make(map[string]bool),
	}
}

// Set stores a value. explicit marks values that came from the command line
// or piped input rather than a default.
func (v *Values) Set(name string, value any, explicit bool) {
	if _, ok := v.values[name]; !ok {
		v.order = append(v.order, name)
	}
	v.values[name] = value
	v.explicit[name] = explicit
}

// Get returns the value bound to name.
func (v *Values) Get(name string) (any, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Has reports whether name received a value from any source.
func (v *Values) Has(name string) bool {
	_, ok := v.values[name]
	return ok
}

// Explicit reports whether name's value was supplied by the user.
func (v *Values) Explicit(name string) bool {
	return v.explicit[name]
}

// Names returns the bound argument names in binding order.
func (v *Values) Names() []string {
	return append([]string(nil), v.order...)
}

// Len returns the number of bound arguments.
func (v *Values) Len() int {
	return len(v.order)
}

// String returns a string value, or "" when absent.
func (v *Values) String(name string) string {
	s, _ := Get[string](v, name)
	return s
}

// Bool returns a bool value, or false when absent.
func (v *Values) Bool(name string) bool {
	b, _ := Get[bool](v, name)
	return b
}

// Int returns an int value, or 0 when absent.
func (v *Values) Int(name string) int {
	i, _ := Get[int](v, name)
	return i
}

// Duration returns a duration value, or 0 when absent.
func (v *Values) Duration(name string) time.Duration {
	d, _ := Get[time.Duration](v, name)
	return d
}

// Strings returns the values of a multi-valued string argument.
func (v *Values) Strings(name string) []string {
	return List[string](v, name)
}

// Get returns the value bound to name as T.
func Get[T any](v *Values, name string) (T, bool) {
	var zero T
	if v == nil {
		return zero, false
	}
	raw, ok := v.values[name]
	if !ok {
		return zero, false
	}
	typed, ok := raw.(T)
	return typed, ok
}

// List returns the values of a multi-valued argument as []T. Scalars are
// returned as a one-element slice; elements that are not T are skipped.
func List[T any](v *Values, name string) []T {
	if v == nil {
		return nil
	}
	raw, ok := v.values[name]
	if !ok {
		return nil
	}
	switch items := raw.(type) {
	case []T:
		return append([]T(nil), items...)
	case []any:
		out := make([]T, 0, len(items))
		for _, item := range items {
			if typed, ok := item.(T); ok {
				out = append(out, typed)
			}
		}
		return out
	case T:
		return []T{items}
	}
	return nil
}

// Format renders a bound value for reports and the echo handler.
func Format(value any) string {
	switch val := value.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = fmt.Sprint(item)
		}
		return fmt.Sprintf("%q", parts)
	case []string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprint(val)
	}
}
