package pipeline

import (
	"fmt"

	"github.com/rileyhilliard/pipecli/pkg/bind"
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/console"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/invoke"
	"github.com/rileyhilliard/pipecli/pkg/logger"
	"github.com/rileyhilliard/pipecli/pkg/parse"
	"github.com/rileyhilliard/pipecli/pkg/token"
)

// State is the progress of one execution.
type State int

const (
	StateUnparsed State = iota
	StateTokenized
	StateResolved
	StateBound
	StateInvoked
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateUnparsed:
		return "Unparsed"
	case StateTokenized:
		return "Tokenized"
	case StateResolved:
		return "Resolved"
	case StateBound:
		return "Bound"
	case StateInvoked:
		return "Invoked"
	case StateTerminal:
		return "Terminal"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Context is the state of one execution, threaded through every middleware.
// It must not be shared between executions.
type Context struct {
	Root *command.Command
	Args []string

	Directives token.Directives
	Tokens     []token.Token
	Result     *parse.Result
	Bound      *bind.Bound
	Invocation *invoke.Pipeline

	// Items is a free-form bag for data shared between middleware and
	// handed to handlers as Call.Items.
	Items map[string]any
	// Error is the structured parse or bind error waiting to be reported.
	// Middleware may clear it to recover.
	Error error

	Console console.Console
	Logger  logger.Logger

	state    State
	exitCode int
	exitSet  bool
}

// NewContext creates the context for one execution.
func NewContext(root *command.Command, args []string, con console.Console, log logger.Logger) *Context {
	if log == nil {
		log = logger.Noop()
	}
	return &Context{
		Root:    root,
		Args:    append([]string(nil), args...),
		Items:   make(map[string]any),
		Console: con,
		Logger:  log,
	}
}

// State returns the current state.
func (c *Context) State() State {
	return c.state
}

// Advance moves the execution to the next state. States cannot be skipped
// or repeated; Terminal can be entered from any state.
func (c *Context) Advance(to State) error {
	if c.state == StateTerminal {
		return errors.New(errors.ErrMiddleware,
			fmt.Sprintf("Cannot move to %s: execution is already terminal", to), "")
	}
	if to != StateTerminal && to != c.state+1 {
		return errors.New(errors.ErrMiddleware,
			fmt.Sprintf("Cannot move from %s to %s", c.state, to),
			"Each stage owns exactly one transition")
	}
	c.state = to
	return nil
}

// SetExitCode records the terminal exit code. It can be set only once.
func (c *Context) SetExitCode(code int) error {
	if c.exitSet {
		return errors.New(errors.ErrMiddleware,
			fmt.Sprintf("Exit code is already set to %d", c.exitCode), "")
	}
	c.exitCode = code
	c.exitSet = true
	return nil
}

// ExitCode returns the terminal exit code and whether it has been set.
func (c *Context) ExitCode() (int, bool) {
	return c.exitCode, c.exitSet
}

// Fail records err as the execution's pending structured error. An earlier
// error is kept.
func (c *Context) Fail(err error) {
	if c.Error == nil {
		c.Error = err
	}
}
