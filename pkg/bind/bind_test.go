package bind

import (
	"testing"
	"time"

	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/parse"
	"github.com/rileyhilliard/pipecli/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapSource serves defaults keyed by "<command>.<argument>".
type mapSource map[string][]string

func (m mapSource) Lookup(arg command.Argument) ([]string, bool) {
	v, ok := m[arg.Command().Name()+"."+arg.Name()]
	return v, ok
}

func testTree(t *testing.T) *command.Command {
	t.Helper()

	root := command.NewBuilder("app").
		Flag("verbose", command.WithShort('v'), command.Inherited()).
		Option("level", command.WithAllowed("debug", "info"), command.WithDefault("info"), command.Inherited())

	root.Subcommand("sub").
		Operand("text", command.WithArity(command.ZeroOrMore))

	root.Subcommand("greet").
		Operand("name").
		Option("times", command.WithType(command.TypeInt), command.WithDefault(1)).
		Option("wait", command.WithType(command.TypeDuration)).
		Option("ratio", command.WithType(command.TypeFloat)).
		Option("size", command.WithType(command.TypeUint)).
		Option("big", command.WithType(command.TypeInt64)).
		Option("color", command.WithAllowed("red", "blue"))

	root.Subcommand("pair").
		Operand("items", command.WithArity(command.Arity{Min: 2, Max: command.Unbounded}))

	root.Subcommand("custom").
		Option("point", command.WithType("point"))

	tree, err := root.Build()
	require.NoError(t, err)
	return tree
}

func parseArgs(t *testing.T, root *command.Command, args ...string) *parse.Result {
	t.Helper()
	_, toks, err := token.Tokenize(args, token.Options{})
	require.NoError(t, err)
	res, err := parse.Parse(root, toks, parse.DefaultConfig())
	require.NoError(t, err)
	return res
}

func TestBind_ScalarsAndTypes(t *testing.T) {
	res := parseArgs(t, testTree(t), "greet", "bob", "--times", "3", "--wait", "2s",
		"--ratio", "0.5", "--size", "7", "--big", "9000000000", "-v")

	bound, err := New(nil).Bind(res)
	require.NoError(t, err)

	v := bound.Target()
	assert.Equal(t, "bob", v.String("name"))
	assert.Equal(t, 3, v.Int("times"))
	assert.Equal(t, 2*time.Second, v.Duration("wait"))
	ratio, _ := command.Get[float64](v, "ratio")
	assert.InDelta(t, 0.5, ratio, 1e-9)
	size, _ := command.Get[uint](v, "size")
	assert.Equal(t, uint(7), size)
	big, _ := command.Get[int64](v, "big")
	assert.Equal(t, int64(9000000000), big)
	assert.True(t, v.Bool("verbose"), "inherited flag is visible to the target")
	assert.True(t, v.Explicit("times"))
}

func TestBind_UnboundedOperand(t *testing.T) {
	res := parseArgs(t, testTree(t), "sub", "abcde")

	bound, err := New(nil).Bind(res)
	require.NoError(t, err)

	got, ok := bound.Target().Get("text")
	require.True(t, ok)
	assert.Equal(t, []any{"abcde"}, got)
	assert.Equal(t, []string{"abcde"}, bound.Target().Strings("text"))
}

func TestBind_Defaults(t *testing.T) {
	tree := testTree(t)

	bound, err := New(nil).Bind(parseArgs(t, tree, "greet", "bob"))
	require.NoError(t, err)
	v := bound.Target()
	assert.Equal(t, 1, v.Int("times"))
	assert.False(t, v.Explicit("times"))
	assert.Equal(t, "info", v.String("level"))
	assert.False(t, v.Has("wait"), "optional argument without default stays absent")
	assert.False(t, v.Has("verbose"))
}

func TestBind_DefaultSourcePrecedence(t *testing.T) {
	tree := testTree(t)
	src := mapSource{"greet.times": {"5"}, "app.level": {"debug"}}

	bound, err := New(nil, src).Bind(parseArgs(t, tree, "greet", "bob"))
	require.NoError(t, err)
	assert.Equal(t, 5, bound.Target().Int("times"), "source beats declared default")
	assert.Equal(t, "debug", bound.Target().String("level"))
	assert.False(t, bound.Target().Explicit("times"))

	bound, err = New(nil, src).Bind(parseArgs(t, tree, "greet", "bob", "--times", "9"))
	require.NoError(t, err)
	assert.Equal(t, 9, bound.Target().Int("times"), "explicit value beats source")

	bound, err = New(nil, mapSource{"greet.name": {"from-config"}}).Bind(parseArgs(t, tree, "greet"))
	require.NoError(t, err)
	assert.Equal(t, "from-config", bound.Target().String("name"), "source satisfies a required operand")
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
		wantText string
	}{
		{name: "missing required operand", args: []string{"greet"}, wantCode: errors.ErrMissingArgument, wantText: "name"},
		{name: "too few values", args: []string{"pair", "one"}, wantCode: errors.ErrMissingArgument, wantText: "at least 2 values"},
		{name: "bad int", args: []string{"greet", "bob", "--times", "many"}, wantCode: errors.ErrConversion, wantText: "many"},
		{name: "bad duration", args: []string{"greet", "bob", "--wait", "soon"}, wantCode: errors.ErrConversion, wantText: "--wait"},
		{name: "disallowed value", args: []string{"greet", "bob", "--color", "green"}, wantCode: errors.ErrConversion, wantText: "red, blue"},
		{name: "disallowed inherited value", args: []string{"--level", "trace", "sub"}, wantCode: errors.ErrConversion, wantText: "debug, info"},
		{name: "unregistered type", args: []string{"custom", "--point", "1,2"}, wantCode: errors.ErrConfig, wantText: "point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Bind(parseArgs(t, testTree(t), tt.args...))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}

func TestBind_CustomConverter(t *testing.T) {
	type point struct{ X, Y string }
	reg := NewRegistry()
	reg.Register("point", func(raw string) (any, error) {
		return point{X: raw[:1], Y: raw[2:]}, nil
	})

	bound, err := New(reg).Bind(parseArgs(t, testTree(t), "custom", "--point", "1,2"))
	require.NoError(t, err)
	p, ok := command.Get[point](bound.Target(), "point")
	require.True(t, ok)
	assert.Equal(t, point{X: "1", Y: "2"}, p)
}

func TestBind_ValuesForAncestors(t *testing.T) {
	tree := testTree(t)
	res := parseArgs(t, tree, "--level", "debug", "greet", "bob")

	bound, err := New(nil).Bind(res)
	require.NoError(t, err)

	assert.Equal(t, "debug", bound.ValuesFor(tree).String("level"))
	assert.False(t, bound.ValuesFor(tree).Has("name"))
	sub, _ := tree.Child("sub")
	assert.Equal(t, 0, bound.ValuesFor(sub).Len(), "commands off the path have no values")
}

func TestMergePipedInput(t *testing.T) {
	tree := testTree(t)

	res := parseArgs(t, tree, "sub", "c")
	require.True(t, MergePipedInput(res, []string{"a", "b"}))

	sub, _ := tree.Child("sub")
	assert.Equal(t, []string{"c", "a", "b"}, res.Values(sub.Operands()[0]))

	bound, err := New(nil).Bind(res)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, bound.Target().Strings("text"))
	assert.True(t, bound.Target().Explicit("text"))

	assert.False(t, MergePipedInput(parseArgs(t, tree, "greet", "bob"), []string{"x"}), "no unbounded operand")
	assert.False(t, MergePipedInput(parseArgs(t, tree, "sub"), nil), "nothing piped")
}

func TestRegistry_Convert(t *testing.T) {
	reg := NewRegistry()

	v, err := reg.Convert(command.TypeBool, "true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = reg.Convert("nope", "x")
	assert.Error(t, err)

	_, ok := reg.Lookup(command.TypeString)
	assert.True(t, ok)
}
