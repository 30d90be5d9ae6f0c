package command

import "fmt"

// Unbounded is the Max of an arity that accepts any number of values.
const Unbounded = -1

// Arity is the minimum and maximum number of values an argument accepts.
type Arity struct {
	Min int
	Max int
}

// Common arities.
var (
	Zero       = Arity{Min: 0, Max: 0}
	ExactlyOne = Arity{Min: 1, Max: 1}
	ZeroOrOne  = Arity{Min: 0, Max: 1}
	ZeroOrMore = Arity{Min: 0, Max: Unbounded}
	OneOrMore  = Arity{Min: 1, Max: Unbounded}
)

// IsUnbounded reports whether the arity has no maximum.
func (a Arity) IsUnbounded() bool {
	return a.Max == Unbounded
}

// RequiresValue reports whether at least one value must be supplied.
func (a Arity) RequiresValue() bool {
	return a.Min > 0
}

// AllowsMany reports whether more than one value may be supplied.
func (a Arity) AllowsMany() bool {
	return a.IsUnbounded() || a.Max > 1
}

// Accepts reports whether n values fall inside the arity.
func (a Arity) Accepts(n int) bool {
	if n < a.Min {
		return false
	}
	return a.IsUnbounded() || n <= a.Max
}

func (a Arity) valid() bool {
	if a.Min < 0 {
		return false
	}
	return a.IsUnbounded() || a.Max >= a.Min
}

// String renders the arity as "min..max", using "*" for unbounded.
func (a Arity) String() string {
	if a.IsUnbounded() {
		return fmt.Sprintf("%d..*", a.Min)
	}
	if a.Min == a.Max {
		return fmt.Sprintf("%d", a.Min)
	}
	return fmt.Sprintf("%d..%d", a.Min, a.Max)
}
