package cli

import (
	"fmt"

	"github.com/rileyhilliard/pipecli/internal/treefile"
	"github.com/rileyhilliard/pipecli/internal/ui"
	"github.com/rileyhilliard/pipecli/pkg/app"
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/config"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/help"
	"github.com/rileyhilliard/pipecli/pkg/parse"
	"github.com/rileyhilliard/pipecli/pkg/token"
	"github.com/spf13/cobra"
)

// runCmd runs an argument vector through an App built from a tree file
func newRunCmd(e *env, g *globalFlags) *cobra.Command {
	var treePath string
	cmd := &cobra.Command{
		Use:   "run --tree FILE -- ARGS...",
		Short: "Run arguments through a command tree",
		Long: `Build the command tree in FILE and run ARGS through the full pipeline.

Handlers and interceptors are referenced by name in the tree file:
  echo   prints the command and every bound value
  fail   exits with the value of its "code" option (default 1)
  trace  interceptor that prints enter/exit lines around its descendants

pipecli exits with the pipeline's exit code.

Examples:
  pipecli run --tree app.yaml -- greet bob
  echo -e "a\nb" | pipecli run --tree app.yaml -- sub c`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.settings(e)
			if err != nil {
				return err
			}
			tree, err := loadTree(e, treePath)
			if err != nil {
				return err
			}

			a, err := app.New(tree,
				app.WithSettings(s),
				app.WithConsole(e.console),
				app.WithLogger(g.logger(e)),
				app.WithFs(e.fs),
				app.WithVersion(version),
			)
			if err != nil {
				return err
			}
			if code := a.Run(cmd.Context(), args); code != 0 {
				return errors.NewExitError(code)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "command tree file (YAML)")
	_ = cmd.MarkFlagRequired("tree")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// tokensCmd prints the token stream for an argument vector
func newTokensCmd(e *env, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens -- ARGS...",
		Short: "Print the tokens an argument vector produces",
		Long: `Tokenize ARGS the way the pipeline does, including directives and
response file expansion, and print one token per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.settings(e)
			if err != nil {
				return err
			}
			directives, tokens, err := tokenize(e, s, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range directives {
				fmt.Fprintf(out, "directive %s\n", d)
			}
			for _, t := range tokens {
				if t.Source != "" {
					fmt.Fprintf(out, "%s  (from %s)\n", t, t.Source)
					continue
				}
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// parseCmd prints the parse report for an argument vector
func newParseCmd(e *env, g *globalFlags) *cobra.Command {
	var treePath string
	cmd := &cobra.Command{
		Use:   "parse --tree FILE -- ARGS...",
		Short: "Print how an argument vector resolves against a tree",
		Long: `Tokenize and parse ARGS against the tree in FILE and print the target
command with the raw values assigned to each argument. Nothing is bound or
invoked. A parse error is reported after the report and sets the exit code.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.settings(e)
			if err != nil {
				return err
			}
			tree, err := loadTree(e, treePath)
			if err != nil {
				return err
			}
			_, tokens, err := tokenize(e, s, args)
			if err != nil {
				return err
			}

			res, perr := parse.Parse(tree, tokens, parseConfig(s))
			if err := parse.Report(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if perr != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.RenderError(styles(s, cmd.ErrOrStderr()), perr))
				return errors.NewExitError(errors.ExitCode(perr))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "command tree file (YAML)")
	_ = cmd.MarkFlagRequired("tree")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// treeCmd prints help for every command of a tree
func newTreeCmd(e *env, g *globalFlags) *cobra.Command {
	var treePath string
	cmd := &cobra.Command{
		Use:   "tree --tree FILE",
		Short: "Print help for every command in a tree file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.settings(e)
			if err != nil {
				return err
			}
			tree, err := loadTree(e, treePath)
			if err != nil {
				return err
			}

			st := styles(s, cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderHeader(st, ui.HeaderInfo{
				Name:    tree.Name(),
				Tagline: tree.Description(),
			}))
			for _, c := range unrunnable(tree) {
				fmt.Fprint(cmd.ErrOrStderr(), ui.RenderWarning(styles(s, cmd.ErrOrStderr()),
					fmt.Sprintf("'%s' has no handler and no subcommands", c.FullName())))
			}

			r := help.NewTextRenderer(st)
			r.HelpOptions = s.HelpOptions
			r.VersionOption = s.VersionOption
			return help.All(cmd.OutOrStdout(), r, tree)
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "command tree file (YAML)")
	_ = cmd.MarkFlagRequired("tree")
	return cmd
}

// unrunnable returns the leaf commands that can only show help.
func unrunnable(root *command.Command) []*command.Command {
	var out []*command.Command
	root.Walk(func(c *command.Command) {
		if len(c.Children()) == 0 && (c.Handler() == nil || c.Handler().Run == nil) {
			out = append(out, c)
		}
	})
	return out
}

func loadTree(e *env, path string) (*command.Command, error) {
	node, err := treefile.Load(e.fs, path)
	if err != nil {
		return nil, err
	}
	return node.Build(builtins())
}

func tokenize(e *env, s *config.Settings, args []string) (token.Directives, []token.Token, error) {
	directives, tokens, err := token.Tokenize(args, token.Options{Directives: s.Directives})
	if err != nil {
		return nil, nil, err
	}
	if s.ResponseFiles {
		tokens, err = token.Transform(tokens, token.ResponseFiles(e.fs))
		if err != nil {
			return nil, nil, err
		}
	}
	return directives, tokens, nil
}
