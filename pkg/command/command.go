// Package command holds the static command tree: commands, operands,
// options, arity and the invocation descriptors that run user code.
//
// A tree is produced once by a Builder and is read-only afterwards, so it
// can be shared by any number of concurrent executions.
package command

import (
	"strings"
)

// SeparatorStrategy controls what happens to tokens after a bare "--".
type SeparatorStrategy int

const (
	// SeparatorEndOfOptions appends the tokens after "--" to the command's
	// unbounded operand, or reports them as unrecognized when there is none.
	SeparatorEndOfOptions SeparatorStrategy = iota
	// SeparatorPassThru keeps the tokens only as remaining arguments for the
	// handler to inspect.
	SeparatorPassThru
	// SeparatorDisabled treats "--" and everything after it as unrecognized.
	SeparatorDisabled
)

func (s SeparatorStrategy) String() string {
	switch s {
	case SeparatorPassThru:
		return "pass-thru"
	case SeparatorDisabled:
		return "disabled"
	default:
		return "end-of-options"
	}
}

// Command is one node of the command tree.
type Command struct {
	name        string
	description string
	parent      *Command
	children    []*Command
	operands    []*Operand
	options     []*Option
	handler     *Handler
	interceptor *Interceptor
	separator   SeparatorStrategy
}

// Name returns the command name as typed on the command line.
func (c *Command) Name() string { return c.name }

// Description returns the help text.
func (c *Command) Description() string { return c.description }

// Parent returns the parent command, or nil for the root.
func (c *Command) Parent() *Command { return c.parent }

// IsRoot reports whether the command has no parent.
func (c *Command) IsRoot() bool { return c.parent == nil }

// Children returns the subcommands in declaration order.
func (c *Command) Children() []*Command { return append([]*Command(nil), c.children...) }

// Operands returns the operands in declaration order.
func (c *Command) Operands() []*Operand { return append([]*Operand(nil), c.operands...) }

// Options returns the options in declaration order.
func (c *Command) Options() []*Option { return append([]*Option(nil), c.options...) }

// Handler returns the target-invocation descriptor, or nil.
func (c *Command) Handler() *Handler { return c.handler }

// Interceptor returns the interceptor-invocation descriptor, or nil.
func (c *Command) Interceptor() *Interceptor { return c.interceptor }

// Separator returns the command's argument separator strategy.
func (c *Command) Separator() SeparatorStrategy { return c.separator }

// Child returns the direct subcommand with the given name.
func (c *Command) Child(name string) (*Command, bool) {
	for _, child := range c.children {
		if child.name == name {
			return child, true
		}
	}
	return nil, false
}

// Arguments returns operands followed by options.
func (c *Command) Arguments() []Argument {
	args := make([]Argument, 0, len(c.operands)+len(c.options))
	for _, o := range c.operands {
		args = append(args, o)
	}
	for _, o := range c.options {
		args = append(args, o)
	}
	return args
}

// Option returns the option declared on this command that the identifier
// ("--name" or "-n") selects.
func (c *Command) Option(identifier string) (*Option, bool) {
	for _, o := range c.options {
		if o.Matches(identifier) {
			return o, true
		}
	}
	return nil, false
}

// VisibleOptions returns the options a token at this command can match:
// its own, then inherited options of ancestors, nearest first.
func (c *Command) VisibleOptions() []*Option {
	opts := c.Options()
	for p := c.parent; p != nil; p = p.parent {
		for _, o := range p.options {
			if o.inherited {
				opts = append(opts, o)
			}
		}
	}
	return opts
}

// UnboundedOperand returns the operand with unbounded arity, if any.
func (c *Command) UnboundedOperand() (*Operand, bool) {
	for _, o := range c.operands {
		if o.arity.IsUnbounded() {
			return o, true
		}
	}
	return nil, false
}

// Root walks up to the tree root.
func (c *Command) Root() *Command {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Path returns the commands from the root down to c, inclusive.
func (c *Command) Path() []*Command {
	var path []*Command
	for cur := c; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FullName returns the space-separated names from the root, e.g. "app sub".
func (c *Command) FullName() string {
	path := c.Path()
	names := make([]string, len(path))
	for i, cmd := range path {
		names[i] = cmd.name
	}
	return strings.Join(names, " ")
}

// Walk visits c and every descendant depth-first in declaration order.
func (c *Command) Walk(fn func(*Command)) {
	fn(c)
	for _, child := range c.children {
		child.Walk(fn)
	}
}

func (c *Command) String() string {
	return c.FullName()
}
