package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rileyhilliard/pipecli/pkg/bind"
	"github.com/rileyhilliard/pipecli/pkg/command"
	perrors "github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/parse"
	"github.com/rileyhilliard/pipecli/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder builds interceptors and handlers that log their position.
type recorder struct {
	events []string
}

func (r *recorder) interceptor(name string) command.InterceptorFunc {
	return func(ctx context.Context, call *command.Call, next command.Next) (int, error) {
		r.events = append(r.events, name+" pre")
		code, err := next(ctx)
		r.events = append(r.events, fmt.Sprintf("%s post %d", name, code))
		return code, err
	}
}

func (r *recorder) handler(name string, code int) command.HandlerFunc {
	return func(ctx context.Context, call *command.Call) (int, error) {
		r.events = append(r.events, name)
		return code, nil
	}
}

func nestedTree(t *testing.T, rec *recorder) *command.Command {
	t.Helper()
	root := command.NewBuilder("r").Intercept(rec.interceptor("R"))
	c := root.Subcommand("c").Intercept(rec.interceptor("C"))
	c.Subcommand("t").Handle(rec.handler("T", 7))
	root.Subcommand("s").Intercept(rec.interceptor("S")).Handle(rec.handler("S", 0))
	c.Subcommand("plain").Handle(rec.handler("plain", 0))
	tree, err := root.Build()
	require.NoError(t, err)
	return tree
}

func find(t *testing.T, root *command.Command, names ...string) *command.Command {
	t.Helper()
	cmd := root
	for _, n := range names {
		child, ok := cmd.Child(n)
		require.True(t, ok, "no command %q", n)
		cmd = child
	}
	return cmd
}

func TestRun_NestingOrder(t *testing.T) {
	rec := &recorder{}
	tree := nestedTree(t, rec)

	p, err := Build(find(t, tree, "c", "t"), nil)
	require.NoError(t, err)

	code, err := p.Run(context.Background(), Env{})
	require.NoError(t, err)
	assert.Equal(t, 7, code)
	assert.Equal(t, []string{"R pre", "C pre", "T", "C post 7", "R post 7"}, rec.events)
}

func TestBuild_SkipsSiblingsAndTarget(t *testing.T) {
	rec := &recorder{}
	tree := nestedTree(t, rec)

	p, err := Build(find(t, tree, "s"), nil)
	require.NoError(t, err)
	assert.Equal(t, []*command.Command{tree, find(t, tree, "s")}, p.Commands(),
		"the target's own interceptor does not wrap it")

	_, err = p.Run(context.Background(), Env{})
	require.NoError(t, err)
	assert.Equal(t, []string{"R pre", "S", "R post 0"}, rec.events)
}

func TestRun_ShortCircuit(t *testing.T) {
	var ran bool
	root := command.NewBuilder("r").
		Intercept(func(ctx context.Context, call *command.Call, next command.Next) (int, error) {
			return 42, nil
		})
	root.Subcommand("t").Handle(func(ctx context.Context, call *command.Call) (int, error) {
		ran = true
		return 0, nil
	})
	tree := root.MustBuild()

	p, err := Build(find(t, tree, "t"), nil)
	require.NoError(t, err)
	code, err := p.Run(context.Background(), Env{})
	require.NoError(t, err)
	assert.Equal(t, 42, code)
	assert.False(t, ran)
}

func TestRun_InterceptorOverridesCode(t *testing.T) {
	root := command.NewBuilder("r").
		Intercept(func(ctx context.Context, call *command.Call, next command.Next) (int, error) {
			code, err := next(ctx)
			if code != 0 {
				return 99, err
			}
			return code, err
		})
	root.Subcommand("t").Handle(func(ctx context.Context, call *command.Call) (int, error) {
		return 3, nil
	})

	p, err := Build(find(t, root.MustBuild(), "t"), nil)
	require.NoError(t, err)
	code, err := p.Run(context.Background(), Env{})
	require.NoError(t, err)
	assert.Equal(t, 99, code)
}

func TestRun_ErrorsPropagateOutward(t *testing.T) {
	boom := errors.New("boom")
	var sawErr error
	root := command.NewBuilder("r").
		Intercept(func(ctx context.Context, call *command.Call, next command.Next) (int, error) {
			code, err := next(ctx)
			sawErr = err
			return code, err
		})
	root.Subcommand("t").Handle(func(ctx context.Context, call *command.Call) (int, error) {
		return 0, boom
	})

	p, err := Build(find(t, root.MustBuild(), "t"), nil)
	require.NoError(t, err)
	_, err = p.Run(context.Background(), Env{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, sawErr, boom)
}

func TestRun_CallCarriesValues(t *testing.T) {
	var out bytes.Buffer
	var gotLevel, gotName string
	var gotRemaining []string

	root := command.NewBuilder("r").
		Option("level", command.Inherited()).
		Intercept(func(ctx context.Context, call *command.Call, next command.Next) (int, error) {
			gotLevel = call.Values.String("level")
			call.Items["seen"] = true
			return next(ctx)
		})
	root.Subcommand("t").
		Operand("name").
		Separator(command.SeparatorPassThru).
		Handle(func(ctx context.Context, call *command.Call) (int, error) {
			gotName = call.Values.String("name")
			gotRemaining = call.Remaining
			fmt.Fprintf(call.Stdout, "level=%s seen=%v", call.Values.String("level"), call.Items["seen"])
			return 0, nil
		})
	tree := root.MustBuild()

	_, toks, err := token.Tokenize([]string{"--level", "debug", "t", "bob", "--", "x"}, token.Options{})
	require.NoError(t, err)
	res, err := parse.Parse(tree, toks, parse.DefaultConfig())
	require.NoError(t, err)
	bound, err := bind.New(nil).Bind(res)
	require.NoError(t, err)

	p, err := Build(res.Target, nil)
	require.NoError(t, err)
	_, err = p.Run(context.Background(), Env{
		Bound:     bound,
		Remaining: res.Remaining,
		Items:     map[string]any{},
		Stdout:    &out,
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", gotLevel)
	assert.Equal(t, "bob", gotName)
	assert.Equal(t, []string{"x"}, gotRemaining)
	assert.Equal(t, "level=debug seen=true", out.String())
}

func TestBuild_NoHandler(t *testing.T) {
	root := command.NewBuilder("r")
	root.Subcommand("t").Handle(func(ctx context.Context, call *command.Call) (int, error) { return 0, nil })

	_, err := Build(root.MustBuild(), nil)
	require.Error(t, err)
	assert.True(t, perrors.IsCode(err, perrors.ErrConfig))
}

func TestBuild_ResolvesInstances(t *testing.T) {
	type service struct{ name string }

	var got []any
	root := command.NewBuilder("r").
		InterceptWith(command.Interceptor{
			InstanceType: "audit",
			Run: func(ctx context.Context, call *command.Call, next command.Next) (int, error) {
				got = append(got, call.Instance)
				return next(ctx)
			},
		})
	root.Subcommand("t").HandleWith(command.Handler{
		InstanceType: "svc",
		Run: func(ctx context.Context, call *command.Call) (int, error) {
			got = append(got, call.Instance)
			return 0, nil
		},
	})
	tree := root.MustBuild()

	reg := NewRegistry()
	reg.RegisterInstance("audit", "audit-log")
	builds := 0
	reg.Register("svc", func() (any, error) {
		builds++
		return &service{name: fmt.Sprintf("svc-%d", builds)}, nil
	})

	p, err := Build(find(t, tree, "t"), reg)
	require.NoError(t, err)
	_, err = p.Run(context.Background(), Env{})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "audit-log", got[0])
	assert.Equal(t, &service{name: "svc-1"}, got[1])

	_, err = Build(find(t, tree, "t"), NewRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, perrors.IsCode(err, perrors.ErrMiddleware))

	_, err = Build(find(t, tree, "t"), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
