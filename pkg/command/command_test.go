package command

import (
	"context"
	"testing"
	"time"

	perrors "github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, call *Call) (int, error) { return 0, nil }

func TestArity(t *testing.T) {
	tests := []struct {
		name      string
		arity     Arity
		accepts   []int
		rejects   []int
		unbounded bool
		many      bool
		str       string
	}{
		{name: "zero", arity: Zero, accepts: []int{0}, rejects: []int{1}, str: "0"},
		{name: "exactly one", arity: ExactlyOne, accepts: []int{1}, rejects: []int{0, 2}, str: "1"},
		{name: "zero or one", arity: ZeroOrOne, accepts: []int{0, 1}, rejects: []int{2}, str: "0..1"},
		{name: "zero or more", arity: ZeroOrMore, accepts: []int{0, 1, 50}, unbounded: true, many: true, str: "0..*"},
		{name: "one or more", arity: OneOrMore, accepts: []int{1, 3}, rejects: []int{0}, unbounded: true, many: true, str: "1..*"},
		{name: "two to three", arity: Arity{Min: 2, Max: 3}, accepts: []int{2, 3}, rejects: []int{1, 4}, many: true, str: "2..3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, n := range tt.accepts {
				assert.True(t, tt.arity.Accepts(n), "should accept %d", n)
			}
			for _, n := range tt.rejects {
				assert.False(t, tt.arity.Accepts(n), "should reject %d", n)
			}
			assert.Equal(t, tt.unbounded, tt.arity.IsUnbounded())
			assert.Equal(t, tt.many, tt.arity.AllowsMany())
			assert.Equal(t, tt.str, tt.arity.String())
		})
	}
}

func TestArgumentDefaults(t *testing.T) {
	root := NewBuilder("app").
		Operand("file").
		Operand("rest", WithArity(ZeroOrMore)).
		Option("name", WithShort('n')).
		Option("level", Required()).
		Flag("verbose", WithShort('v'), Inherited()).
		MustBuild()

	ops := root.Operands()
	require.Len(t, ops, 2)
	assert.Equal(t, ExactlyOne, ops[0].Arity(), "operands default to exactly one")
	assert.Equal(t, TypeString, ops[0].Type())
	assert.Equal(t, KindOperand, ops[0].Kind())
	assert.Same(t, root, ops[0].Command())

	name, ok := root.Option("-n")
	require.True(t, ok)
	assert.Equal(t, ZeroOrOne, name.Arity(), "options default to optional")
	assert.Equal(t, "--name|-n", name.Template())
	assert.False(t, name.IsFlag())

	level, ok := root.Option("--level")
	require.True(t, ok)
	assert.Equal(t, ExactlyOne, level.Arity())

	verbose, ok := root.Option("--verbose")
	require.True(t, ok)
	assert.True(t, verbose.IsFlag())
	assert.True(t, verbose.Inherited())
	assert.Equal(t, []string{"--verbose", "-v"}, verbose.Identifiers())

	unbounded, ok := root.UnboundedOperand()
	require.True(t, ok)
	assert.Equal(t, "rest", unbounded.Name())
}

func TestArgument_IsAllowed(t *testing.T) {
	root := NewBuilder("app").
		Operand("file").
		Option("color", WithAllowed("red", "blue")).
		MustBuild()

	var free Argument = root.Operands()[0]
	assert.True(t, free.IsAllowed("anything"), "no allowed values means no constraint")

	color, ok := root.Option("--color")
	require.True(t, ok)
	var constrained Argument = color
	assert.True(t, constrained.IsAllowed("red"))
	assert.False(t, constrained.IsAllowed("green"))
	assert.False(t, constrained.IsAllowed("RED"), "allowed values are case sensitive")
}

func TestBuilder_TreeNavigation(t *testing.T) {
	b := NewBuilder("app").Flag("verbose", Inherited())
	remote := b.Subcommand("remote").Option("timeout", WithType(TypeDuration))
	add := remote.Subcommand("add").Operand("url").Handle(noop)
	b.Subcommand("status").Handle(noop)
	root := b.MustBuild()

	assert.True(t, root.IsRoot())
	assert.Len(t, root.Children(), 2)

	addCmd := add.cmd
	assert.Equal(t, "app remote add", addCmd.FullName())
	assert.Same(t, root, addCmd.Root())

	path := addCmd.Path()
	require.Len(t, path, 3)
	assert.Equal(t, "app", path[0].Name())
	assert.Equal(t, "remote", path[1].Name())
	assert.Equal(t, "add", path[2].Name())

	child, ok := root.Child("remote")
	require.True(t, ok)
	assert.Same(t, remote.cmd, child)
	_, ok = root.Child("missing")
	assert.False(t, ok)

	visible := addCmd.VisibleOptions()
	require.Len(t, visible, 1, "non-inherited parent options stay private")
	assert.Equal(t, "verbose", visible[0].Name())

	var visited []string
	root.Walk(func(c *Command) { visited = append(visited, c.Name()) })
	assert.Equal(t, []string{"app", "remote", "add", "status"}, visited)
}

func TestBuilder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Builder
		wantErr string
	}{
		{
			name: "duplicate sibling names",
			build: func() *Builder {
				b := NewBuilder("app")
				b.Subcommand("sub")
				b.Subcommand("sub")
				return b
			},
			wantErr: `duplicate subcommand "sub"`,
		},
		{
			name: "unbounded operand not last",
			build: func() *Builder {
				return NewBuilder("app").
					Operand("files", WithArity(OneOrMore)).
					Operand("dest")
			},
			wantErr: "must be the last operand",
		},
		{
			name: "two unbounded operands",
			build: func() *Builder {
				return NewBuilder("app").
					Operand("a", WithArity(ZeroOrMore)).
					Operand("b", WithArity(ZeroOrMore))
			},
			wantErr: "must be the last operand",
		},
		{
			name: "duplicate option identifiers",
			build: func() *Builder {
				return NewBuilder("app").
					Option("name", WithShort('n')).
					Option("number", WithShort('n'))
			},
			wantErr: `option identifier "-n" declared twice`,
		},
		{
			name: "option name starting with dash",
			build: func() *Builder {
				return NewBuilder("app").Option("--name")
			},
			wantErr: "must not start with '-'",
		},
		{
			name: "empty command name",
			build: func() *Builder {
				b := NewBuilder("app")
				b.Subcommand("")
				return b
			},
			wantErr: "name must not be empty",
		},
		{
			name: "invalid arity",
			build: func() *Builder {
				return NewBuilder("app").Operand("x", WithArity(Arity{Min: 3, Max: 1}))
			},
			wantErr: "invalid arity",
		},
		{
			name: "default outside allowed values",
			build: func() *Builder {
				return NewBuilder("app").Option("color", WithAllowed("red", "blue"), WithDefault("green"))
			},
			wantErr: `default "green" is not one of the allowed values`,
		},
		{
			name: "short alias on operand",
			build: func() *Builder {
				return NewBuilder("app").Operand("x", WithShort('x'))
			},
			wantErr: "apply to options only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			require.Error(t, err)
			assert.True(t, perrors.IsCode(err, perrors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuilder_BuildRules(t *testing.T) {
	b := NewBuilder("app")
	sub := b.Subcommand("sub")

	_, err := sub.Build()
	require.Error(t, err, "only the root builder can build")

	_, err = b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	require.Error(t, err, "a tree is built once")

	assert.Panics(t, func() {
		NewBuilder("-bad").MustBuild()
	})
}

func TestBuilder_FrozenAfterBuild(t *testing.T) {
	b := NewBuilder("app")
	sub := b.Subcommand("sub").Operand("files", WithArity(ZeroOrMore)).Handle(noop)
	root, err := b.Build()
	require.NoError(t, err)

	declarations := map[string]func(){
		"operand on subcommand": func() { sub.Operand("more", WithArity(ZeroOrMore)) },
		"option on subcommand":  func() { sub.Option("level") },
		"flag on root":          func() { b.Flag("quiet") },
		"duplicate subcommand":  func() { b.Subcommand("sub") },
		"handler":               func() { sub.Handle(noop) },
		"interceptor":           func() { b.Intercept(nil) },
		"separator":             func() { sub.Separator(SeparatorPassThru) },
		"description":           func() { b.Description("changed") },
		"nested new subcommand": func() { sub.Subcommand("deeper") },
	}
	for name, declare := range declarations {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, declare)
		})
	}

	child, ok := root.Child("sub")
	require.True(t, ok)
	assert.Len(t, root.Children(), 1)
	assert.Len(t, child.Operands(), 1)
	assert.Empty(t, child.Options())
	assert.Equal(t, SeparatorEndOfOptions, child.Separator())
	assert.Empty(t, root.Description())
}

func TestValues(t *testing.T) {
	v := NewValues()
	v.Set("name", "alice", true)
	v.Set("count", 3, false)
	v.Set("tags", []any{"a", "b"}, true)
	v.Set("timeout", 2*time.Second, true)
	v.Set("loud", true, true)

	assert.Equal(t, []string{"name", "count", "tags", "timeout", "loud"}, v.Names())
	assert.Equal(t, 5, v.Len())
	assert.Equal(t, "alice", v.String("name"))
	assert.Equal(t, 3, v.Int("count"))
	assert.True(t, v.Bool("loud"))
	assert.Equal(t, 2*time.Second, v.Duration("timeout"))
	assert.Equal(t, []string{"a", "b"}, v.Strings("tags"))
	assert.Equal(t, []string{"alice"}, v.Strings("name"), "scalars list as one element")

	assert.True(t, v.Explicit("name"))
	assert.False(t, v.Explicit("count"))
	assert.True(t, v.Has("count"))
	assert.False(t, v.Has("missing"))
	assert.Empty(t, v.String("missing"))

	_, ok := Get[int](v, "name")
	assert.False(t, ok, "wrong type is reported")

	v.Set("name", "bob", true)
	assert.Equal(t, []string{"name", "count", "tags", "timeout", "loud"}, v.Names(), "overwrite keeps position")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "42", Format(42))
	assert.Equal(t, `["c" "a" "b"]`, Format([]any{"c", "a", "b"}))
	assert.Equal(t, `["x"]`, Format([]string{"x"}))
}
