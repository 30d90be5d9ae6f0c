// Package parse resolves a token stream against a command tree: it selects
// the target command and assigns raw token values to operands and options.
package parse

import (
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/token"
)

// Result is the outcome of parsing one execution's tokens.
type Result struct {
	// Target is the resolved command.
	Target *command.Command

	order  []command.Argument
	values map[command.Argument][]string

	// Unrecognized holds tokens that matched nothing, in input order.
	Unrecognized []token.Token
	// Remaining holds the raw text of every token after the separator.
	Remaining []string
	// Separated reports whether the input contained the separator.
	Separated bool

	HelpRequested    bool
	VersionRequested bool
}

// NewResult returns an empty result targeting cmd.
func NewResult(target *command.Command) *Result {
	return &Result{
		Target: target,
		values: make(map[command.Argument][]string),
	}
}

// Append adds raw values to arg after any values it already has.
func (r *Result) Append(arg command.Argument, values ...string) {
	if _, ok := r.values[arg]; !ok {
		r.order = append(r.order, arg)
	}
	r.values[arg] = append(r.values[arg], values...)
}

// Values returns the raw values assigned to arg in input order.
func (r *Result) Values(arg command.Argument) []string {
	return append([]string(nil), r.values[arg]...)
}

// HasValues reports whether arg received at least one raw value.
func (r *Result) HasValues(arg command.Argument) bool {
	return len(r.values[arg]) > 0
}

// Arguments returns every argument that received values, in the order it
// first received one.
func (r *Result) Arguments() []command.Argument {
	return append([]command.Argument(nil), r.order...)
}

// Path returns the commands from the root down to the target.
func (r *Result) Path() []*command.Command {
	if r.Target == nil {
		return nil
	}
	return r.Target.Path()
}
