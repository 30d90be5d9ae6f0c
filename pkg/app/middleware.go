package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/pipecli/internal/ui"
	"github.com/rileyhilliard/pipecli/internal/util"
	"github.com/rileyhilliard/pipecli/pkg/bind"
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/invoke"
	"github.com/rileyhilliard/pipecli/pkg/logger"
	"github.com/rileyhilliard/pipecli/pkg/parse"
	"github.com/rileyhilliard/pipecli/pkg/pipeline"
	"github.com/rileyhilliard/pipecli/pkg/token"
)

// Directive names understood by the default middleware.
const (
	DirectiveDebug = "debug"
	DirectiveParse = "parse"
)

func (a *App) defaultMiddleware() []pipeline.Registration {
	reg := func(name string, stage pipeline.Stage, priority int, mw pipeline.Middleware) pipeline.Registration {
		return pipeline.Registration{Name: name, Stage: stage, Priority: priority, Func: mw}
	}
	return []pipeline.Registration{
		reg("recover", pipeline.StagePreTokenize, -1000, a.recoverMiddleware),
		reg("trace", pipeline.StagePreTokenize, 0, a.trace),
		reg("tokenize", pipeline.StageTokenize, 0, a.tokenize),
		reg("response-files", pipeline.StageTokenize, 100, a.responseFiles),
		reg("debug-directive", pipeline.StageTokenize, 200, a.debugDirective),
		reg("parse", pipeline.StageParseInput, 0, a.parse),
		reg("typo-suggestions", pipeline.StageParseInput, 100, a.typoSuggestions),
		reg("parse-directive", pipeline.StageParseInput, 200, a.parseDirective),
		reg("help", pipeline.StagePostParseInputPreBindValues, 0, a.showHelp),
		reg("version", pipeline.StagePostParseInputPreBindValues, 10, a.showVersion),
		reg("report-errors", pipeline.StagePostParseInputPreBindValues, 100, a.reportErrors),
		reg("piped-input", pipeline.StagePostParseInputPreBindValues, 200, a.pipedInput),
		reg("prompt-missing", pipeline.StagePostParseInputPreBindValues, 300, a.promptMissing),
		reg("bind", pipeline.StageBindValues, 0, a.bind),
		reg("build-invocation", pipeline.StageBindValues, 100, a.buildInvocation),
		reg("report-errors", pipeline.StageBindValues, 200, a.reportErrors),
		reg("invoke", pipeline.StageInvoke, 0, a.invoke),
	}
}

// report writes err to the console's error stream and returns its exit code.
func (a *App) report(c *pipeline.Context, err error) int {
	fmt.Fprint(c.Console.Err(), ui.RenderError(a.styles(c), err))
	return errors.ExitCode(err)
}

// recoverMiddleware is outermost. Panics and errors nobody handled end the
// execution here: they are reported and turned into an exit code. An
// ExitError is not reported.
func (a *App) recoverMiddleware(ctx context.Context, c *pipeline.Context, next pipeline.Next) (code int, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("panic: %v", r)
			code = a.report(c, errors.New(errors.ErrMiddleware,
				fmt.Sprintf("Unexpected failure: %v", r), ""))
			err = nil
		}
	}()

	code, err = next(ctx)
	if err == nil {
		return code, nil
	}
	if exit, ok := errors.GetExitCode(err); ok {
		return exit, nil
	}
	if _, ok := structured(err); !ok {
		err = errors.WrapWithCode(err, errors.ErrMiddleware, "Command failed", "")
	}
	return a.report(c, err), nil
}

func (a *App) trace(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	start := time.Now()
	c.Logger.Debug("args: %s", util.ShellJoin(c.Args))
	code, err := next(ctx)
	c.Logger.Debug("exit %d after %s", code, time.Since(start).Round(time.Microsecond))
	return code, err
}

func (a *App) tokenize(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	directives, tokens, err := token.Tokenize(c.Args, token.Options{Directives: a.settings.Directives})
	if err != nil {
		return a.report(c, err), nil
	}
	c.Directives = directives
	c.Tokens = tokens
	if err := c.Advance(pipeline.StateTokenized); err != nil {
		return 0, err
	}
	return next(ctx)
}

func (a *App) responseFiles(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if !a.settings.ResponseFiles {
		return next(ctx)
	}
	tokens, err := token.Transform(c.Tokens, token.ResponseFiles(a.fs))
	if err != nil {
		return a.report(c, err), nil
	}
	c.Tokens = tokens
	return next(ctx)
}

// debugDirective switches the execution to a debug logger on stderr.
func (a *App) debugDirective(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if c.Directives.Has(DirectiveDebug) {
		c.Logger = logger.NewDebugLogger(c.Console.Err(), "[pipecli]")
		c.Logger.Debug("tokens %v", c.Tokens)
	}
	return next(ctx)
}

func (a *App) parse(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	res, err := parse.Parse(c.Root, c.Tokens, a.parseConfig())
	c.Result = res
	if err != nil {
		c.Fail(err)
	}
	if err := c.Advance(pipeline.StateResolved); err != nil {
		return 0, err
	}
	c.Logger.Debug("resolved %s", res.Target.FullName())
	return next(ctx)
}

func (a *App) typoSuggestions(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if a.settings.TypoSuggestions {
		addSuggestion(c.Error, c.Result.Target)
	}
	return next(ctx)
}

// parseDirective prints the parse report instead of running the command.
func (a *App) parseDirective(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if !c.Directives.Has(DirectiveParse) {
		return next(ctx)
	}
	if err := parse.Report(c.Console.Out(), c.Result); err != nil {
		return 0, err
	}
	if c.Error != nil {
		fmt.Fprint(c.Console.Out(), ui.RenderError(a.styles(c), c.Error))
	}
	return errors.ExitSuccess, nil
}

// showHelp renders help when it was asked for, or when the target cannot
// run because it has no handler and nothing else went wrong.
func (a *App) showHelp(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	target := c.Result.Target
	noHandler := target.Handler() == nil || target.Handler().Run == nil
	if !c.Result.HelpRequested && !(noHandler && c.Error == nil) {
		return next(ctx)
	}
	if err := a.helpRenderer(c).Render(c.Console.Out(), target); err != nil {
		return 0, err
	}
	return errors.ExitSuccess, nil
}

func (a *App) showVersion(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if !c.Result.VersionRequested {
		return next(ctx)
	}
	fmt.Fprintln(c.Console.Out(), a.version)
	return errors.ExitSuccess, nil
}

// reportErrors ends the execution when a parse or bind error is pending.
// Host middleware registered earlier can clear Context.Error to recover.
func (a *App) reportErrors(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if c.Error == nil {
		return next(ctx)
	}
	return a.report(c, c.Error), nil
}

// pipedInput appends redirected stdin lines to the target's unbounded
// operand. Stdin is left alone when there is no such operand so handlers
// can read it themselves.
func (a *App) pipedInput(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if !a.settings.PipedInput || !c.Console.IsInputRedirected() {
		return next(ctx)
	}
	if _, ok := c.Result.Target.UnboundedOperand(); !ok {
		return next(ctx)
	}

	lines, err := c.Console.ReadRedirectedInput()
	if err != nil {
		return a.report(c, errors.WrapWithCode(err, errors.ErrMiddleware,
			"Failed to read piped input", "")), nil
	}
	if bind.MergePipedInput(c.Result, lines) {
		c.Logger.Debug("merged %d piped lines", len(lines))
	}
	return next(ctx)
}

// promptMissing asks for required target arguments that have no value from
// any source. It only runs on an interactive terminal.
func (a *App) promptMissing(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if !a.settings.PromptMissing || a.prompter == nil ||
		c.Console.IsInputRedirected() || !c.Console.IsOutputTerminal() {
		return next(ctx)
	}

	for _, arg := range c.Result.Target.Arguments() {
		if !a.needsPrompt(c.Result, arg) {
			continue
		}
		values, err := a.prompter.Prompt(ctx, arg)
		if err != nil {
			return a.report(c, err), nil
		}
		c.Result.Append(arg, values...)
	}
	return next(ctx)
}

func (a *App) needsPrompt(res *parse.Result, arg command.Argument) bool {
	if !arg.Arity().RequiresValue() || res.HasValues(arg) {
		return false
	}
	if _, ok := arg.Default(); ok {
		return false
	}
	for _, src := range a.sources {
		if _, ok := src.Lookup(arg); ok {
			return false
		}
	}
	return true
}

func (a *App) bind(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	bound, err := bind.New(a.registry, a.sources...).Bind(c.Result)
	if err != nil {
		c.Fail(err)
		return next(ctx)
	}
	c.Bound = bound
	if err := c.Advance(pipeline.StateBound); err != nil {
		return 0, err
	}
	return next(ctx)
}

func (a *App) buildInvocation(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if c.Error != nil {
		return next(ctx)
	}
	if c.State() != pipeline.StateBound || c.Bound == nil {
		c.Fail(errUnbound())
		return next(ctx)
	}
	p, err := invoke.Build(c.Result.Target, a.resolver)
	if err != nil {
		c.Fail(err)
		return next(ctx)
	}
	c.Invocation = p
	return next(ctx)
}

// errUnbound is returned when the handler is reached without bound values,
// e.g. after a middleware cleared a bind failure.
func errUnbound() *errors.Error {
	return errors.New(errors.ErrMiddleware,
		"Arguments were not bound",
		"Do not clear bind errors in middleware; report them or return an exit code")
}

// invoke runs the invocation chain. It is the end of the pipeline and does
// not call next. Nothing runs unless the values were bound.
func (a *App) invoke(ctx context.Context, c *pipeline.Context, next pipeline.Next) (int, error) {
	if c.State() != pipeline.StateBound || c.Bound == nil {
		return 0, errUnbound()
	}
	if c.Invocation == nil {
		return 0, errors.New(errors.ErrMiddleware,
			"Nothing to invoke", "Keep the build-invocation middleware registered")
	}
	code, err := c.Invocation.Run(ctx, invoke.Env{
		Bound:     c.Bound,
		Remaining: c.Result.Remaining,
		Items:     c.Items,
		Stdout:    c.Console.Out(),
		Stderr:    c.Console.Err(),
	})
	if advErr := c.Advance(pipeline.StateInvoked); advErr != nil && err == nil {
		err = advErr
	}
	return code, err
}
