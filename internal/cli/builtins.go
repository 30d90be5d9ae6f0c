package cli

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/pipecli/internal/treefile"
	"github.com/rileyhilliard/pipecli/internal/ui"
	"github.com/rileyhilliard/pipecli/pkg/command"
)

// builtins are the handlers and interceptors tree files can name.
func builtins() treefile.Registry {
	return treefile.Registry{
		Handlers: map[string]command.Handler{
			"echo": {Run: echoHandler},
			"fail": {Run: failHandler},
		},
		Interceptors: map[string]command.Interceptor{
			"trace": {Run: traceInterceptor},
		},
	}
}

// echoHandler prints the command and its bound values, one per line.
func echoHandler(ctx context.Context, call *command.Call) (int, error) {
	fmt.Fprintln(call.Stdout, call.Command.FullName())
	for _, name := range call.Values.Names() {
		v, _ := call.Values.Get(name)
		fmt.Fprintf(call.Stdout, "  %s=%s\n", name, command.Format(v))
	}
	if len(call.Remaining) > 0 {
		fmt.Fprintf(call.Stdout, "  remaining=%q\n", call.Remaining)
	}
	return 0, nil
}

func failHandler(ctx context.Context, call *command.Call) (int, error) {
	code := 1
	if call.Values.Has("code") {
		code = call.Values.Int("code")
	}
	fmt.Fprintf(call.Stderr, "%s %s failed with exit code %d\n", ui.SymbolFail, call.Command.FullName(), code)
	return code, nil
}

func traceInterceptor(ctx context.Context, call *command.Call, next command.Next) (int, error) {
	fmt.Fprintf(call.Stdout, "%s enter %s\n", ui.SymbolArrow, call.Command.FullName())
	code, err := next(ctx)
	fmt.Fprintf(call.Stdout, "%s exit %s (%d)\n", ui.SymbolArrow, call.Command.FullName(), code)
	return code, err
}
