package help

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rileyhilliard/pipecli/internal/ui"
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helpTree(t *testing.T) *command.Command {
	t.Helper()
	root := command.NewBuilder("app").
		Description("Demo app").
		Flag("verbose", command.WithShort('v'), command.Inherited(), command.WithDescription("Verbose output"))
	root.Subcommand("greet").
		Description("Greet someone").
		Operand("name", command.WithDescription("Who to greet")).
		Operand("rest", command.WithArity(command.ZeroOrMore), command.WithDescription("Extra words")).
		Option("times", command.WithType(command.TypeInt), command.WithShort('t'),
			command.WithDefault(1), command.WithDescription("Repeat count")).
		Option("color", command.WithAllowed("red", "blue"))
	tree, err := root.Build()
	require.NoError(t, err)
	return tree
}

func TestTextRenderer_Subcommand(t *testing.T) {
	tree := helpTree(t)
	greet, _ := tree.Child("greet")

	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer(ui.PlainStyles()).Render(&buf, greet))

	want := strings.Join([]string{
		"Usage: app greet <name> [<rest>...] [options]",
		"",
		"Greet someone",
		"",
		"Operands:",
		"  <name>     Who to greet",
		"  <rest>...  Extra words (arity 0..*)",
		"",
		"Options:",
		"  --times|-t <int>  Repeat count (default: 1)",
		"  --color <string>  (allowed: red, blue)",
		"  --verbose|-v      Verbose output",
		"  -h|--help|-?      Show help and exit",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTextRenderer_Root(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer(ui.PlainStyles()).Render(&buf, helpTree(t)))

	want := strings.Join([]string{
		"Usage: app <command> [options]",
		"",
		"Demo app",
		"",
		"Options:",
		"  --verbose|-v  Verbose output",
		"  -h|--help|-?  Show help and exit",
		"  --version     Show version and exit",
		"",
		"Commands:",
		"  greet  Greet someone",
		"",
		`Use "app <command> --help" for more information about a command.`,
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTextRenderer_NoImplicitOptions(t *testing.T) {
	r := NewTextRenderer(ui.PlainStyles())
	r.HelpOptions = nil
	r.VersionOption = ""

	tree := command.NewBuilder("bare").MustBuild()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, tree))
	assert.Equal(t, "Usage: bare\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestAll(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, All(&buf, NewTextRenderer(ui.PlainStyles()), helpTree(t)))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "Usage:"))
	assert.Less(t, strings.Index(out, "Usage: app <command>"), strings.Index(out, "Usage: app greet"))

	assert.Error(t, All(failingWriter{}, NewTextRenderer(ui.PlainStyles()), helpTree(t)))
}
