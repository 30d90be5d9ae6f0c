package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/logger"
)

// Next continues with the rest of the pipeline.
type Next func(ctx context.Context) (int, error)

// Middleware is one link of the pipeline. It either calls next exactly once
// and returns (or adjusts) its result, or returns without calling next to
// skip everything after it.
type Middleware func(ctx context.Context, c *Context, next Next) (int, error)

// Registration is a middleware together with its position in the pipeline.
type Registration struct {
	Name     string
	Stage    Stage
	Priority int
	Func     Middleware

	seq int
}

// Engine holds the ordered middleware of a configured pipeline. Once it has
// run, or been frozen, it is read-only and safe for concurrent executions.
type Engine struct {
	mu      sync.Mutex
	stages  []Stage
	regs    []Registration
	ordered []Registration
	frozen  bool
	log     logger.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStages replaces the default stage order.
func WithStages(stages ...Stage) EngineOption {
	return func(e *Engine) { e.stages = append([]Stage(nil), stages...) }
}

// WithLogger sets the logger used for registration messages.
func WithLogger(l logger.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an engine with the default stage order.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{stages: DefaultStages(), log: logger.Noop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stages returns the configured stage order.
func (e *Engine) Stages() []Stage {
	return append([]Stage(nil), e.stages...)
}

// Use registers middleware. Within a stage, lower priority runs first and
// ties keep registration order. Registering after the engine is frozen
// fails.
func (e *Engine) Use(name string, stage Stage, priority int, mw Middleware) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Cannot register middleware '%s': the pipeline is frozen", name),
			"Register all middleware before the first run")
	}
	if mw == nil {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Middleware '%s' is nil", name), "")
	}
	if !slices.Contains(e.stages, stage) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Middleware '%s' targets unknown stage %s", name, stage),
			"Use one of the engine's configured stages")
	}

	e.regs = append(e.regs, Registration{
		Name:     name,
		Stage:    stage,
		Priority: priority,
		Func:     mw,
		seq:      len(e.regs),
	})
	e.log.Debug("registered middleware %s (%s, priority %d)", name, stage, priority)
	return nil
}

// Freeze sorts the registrations and rejects further ones. Run freezes the
// engine on first use.
func (e *Engine) Freeze() {
	e.freeze()
}

func (e *Engine) freeze() []Registration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.frozen {
		return e.ordered
	}

	index := make(map[Stage]int, len(e.stages))
	for i, s := range e.stages {
		index[s] = i
	}
	ordered := append([]Registration(nil), e.regs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if index[a.Stage] != index[b.Stage] {
			return index[a.Stage] < index[b.Stage]
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.seq < b.seq
	})

	e.ordered = ordered
	e.frozen = true
	return ordered
}

// Registrations returns the middleware in execution order.
func (e *Engine) Registrations() []Registration {
	return append([]Registration(nil), e.freeze()...)
}

// Run drives c through every registered middleware. The continuation chain
// is built for this run only. The outermost result becomes the terminal
// exit code unless a middleware already set one.
func (e *Engine) Run(ctx context.Context, c *Context) (int, error) {
	ordered := e.freeze()
	if c.Logger == nil {
		c.Logger = e.log
	}

	chain := Next(func(ctx context.Context) (int, error) { return 0, nil })
	for i := len(ordered) - 1; i >= 0; i-- {
		reg, inner := ordered[i], chain
		chain = func(ctx context.Context) (int, error) {
			c.Logger.Debug("middleware %s (%s, priority %d)", reg.Name, reg.Stage, reg.Priority)
			return reg.Func(ctx, c, inner)
		}
	}

	code, err := chain(ctx)
	if err != nil && code == 0 {
		code = errors.ExitCode(err)
	}

	if set, ok := c.ExitCode(); ok {
		code = set
	} else {
		_ = c.SetExitCode(code)
	}
	if c.State() != StateTerminal {
		_ = c.Advance(StateTerminal)
	}
	return code, err
}
