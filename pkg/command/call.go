package command

import (
	"context"
	"io"
)

// Next continues an invocation chain: the next interceptor, or the target
// handler when no interceptors remain.
type Next func(ctx context.Context) (int, error)

// HandlerFunc runs a target command and returns its exit code.
type HandlerFunc func(ctx context.Context, call *Call) (int, error)

// InterceptorFunc wraps every descendant invocation. It may run logic before
// and after next, skip next entirely, or override the exit code next returns.
type InterceptorFunc func(ctx context.Context, call *Call, next Next) (int, error)

// Handler is the target-invocation descriptor of a command.
type Handler struct {
	// InstanceType, when set, is resolved through the host's instance
	// resolver and handed to Run as Call.Instance.
	InstanceType string
	Run          HandlerFunc
}

// Interceptor is the interceptor-invocation descriptor of a command.
type Interceptor struct {
	InstanceType string
	Run          InterceptorFunc
}

// Call is what a handler or interceptor receives for one invocation.
type Call struct {
	Command  *Command
	Instance any
	// Values holds the typed values of Command's arguments and of the
	// inherited options of its ancestors.
	Values *Values
	// Remaining are the raw tokens that followed the argument separator.
	Remaining []string
	// Items is the execution's shared key/value bag.
	Items  map[string]any
	Stdout io.Writer
	Stderr io.Writer
}
