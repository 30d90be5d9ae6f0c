package invoke

import (
	"context"
	"fmt"
	"io"

	"github.com/rileyhilliard/pipecli/pkg/bind"
	"github.com/rileyhilliard/pipecli/pkg/command"
	perrors "github.com/rileyhilliard/pipecli/pkg/errors"
)

// Step is one link of the chain: a command, its descriptor and the
// resolved instance.
type Step struct {
	Command     *command.Command
	Interceptor *command.Interceptor
	Handler     *command.Handler
	Instance    any
}

// Pipeline is the chain for one execution. Interceptors are ordered from
// the root towards the target.
type Pipeline struct {
	Interceptors []Step
	Target       Step
}

// Env is what the chain needs from the execution to build each Call.
type Env struct {
	Bound     *bind.Bound
	Remaining []string
	Items     map[string]any
	Stdout    io.Writer
	Stderr    io.Writer
}

// Build collects the interceptors of target's ancestors, from the root down
// and excluding target itself, and resolves every declared instance.
func Build(target *command.Command, resolver Resolver) (*Pipeline, error) {
	if target.Handler() == nil || target.Handler().Run == nil {
		return nil, perrors.New(perrors.ErrConfig,
			fmt.Sprintf("Command '%s' has no handler", target.FullName()),
			"Give the command a handler or select one of its subcommands")
	}

	p := &Pipeline{}
	path := target.Path()
	for _, cmd := range path[:len(path)-1] {
		ic := cmd.Interceptor()
		if ic == nil || ic.Run == nil {
			continue
		}
		inst, err := resolve(resolver, cmd, ic.InstanceType)
		if err != nil {
			return nil, err
		}
		p.Interceptors = append(p.Interceptors, Step{Command: cmd, Interceptor: ic, Instance: inst})
	}

	inst, err := resolve(resolver, target, target.Handler().InstanceType)
	if err != nil {
		return nil, err
	}
	p.Target = Step{Command: target, Handler: target.Handler(), Instance: inst}
	return p, nil
}

func resolve(resolver Resolver, cmd *command.Command, typeID string) (any, error) {
	if typeID == "" {
		return nil, nil
	}
	if resolver == nil {
		return nil, perrors.WrapWithCode(ErrNotFound, perrors.ErrMiddleware,
			fmt.Sprintf("Cannot resolve '%s' for command '%s'", typeID, cmd.FullName()),
			"Configure an instance resolver")
	}
	inst, err := resolver.Resolve(typeID)
	if err != nil {
		return nil, perrors.WrapWithCode(err, perrors.ErrMiddleware,
			fmt.Sprintf("Cannot resolve '%s' for command '%s'", typeID, cmd.FullName()),
			"Register the type with the instance resolver")
	}
	return inst, nil
}

// Commands lists the commands of the chain, outermost first.
func (p *Pipeline) Commands() []*command.Command {
	cmds := make([]*command.Command, 0, len(p.Interceptors)+1)
	for _, s := range p.Interceptors {
		cmds = append(cmds, s.Command)
	}
	return append(cmds, p.Target.Command)
}

// Run invokes the chain with the root's interceptor outermost and the
// target innermost. The outermost return value is the exit code.
func (p *Pipeline) Run(ctx context.Context, env Env) (int, error) {
	target := p.Target
	next := func(ctx context.Context) (int, error) {
		return target.Handler.Run(ctx, p.call(target, env))
	}
	for i := len(p.Interceptors) - 1; i >= 0; i-- {
		step, inner := p.Interceptors[i], next
		next = func(ctx context.Context) (int, error) {
			return step.Interceptor.Run(ctx, p.call(step, env), inner)
		}
	}
	return next(ctx)
}

func (p *Pipeline) call(s Step, env Env) *command.Call {
	values := command.NewValues()
	if env.Bound != nil {
		values = env.Bound.ValuesFor(s.Command)
	}
	return &command.Call{
		Command:   s.Command,
		Instance:  s.Instance,
		Values:    values,
		Remaining: env.Remaining,
		Items:     env.Items,
		Stdout:    env.Stdout,
		Stderr:    env.Stderr,
	}
}
