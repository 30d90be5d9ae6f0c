package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/pipecli/internal/ui"
	"github.com/rileyhilliard/pipecli/pkg/config"
	"github.com/rileyhilliard/pipecli/pkg/console"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/logger"
	"github.com/rileyhilliard/pipecli/pkg/parse"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Global flags shared by every subcommand.
type globalFlags struct {
	config  string
	verbose bool
	noColor bool
}

// env is the process around the commands: console, filesystem and the
// directories settings are searched from.
type env struct {
	console console.Console
	fs      afero.Fs
	dir     string
	home    string
}

func systemEnv() *env {
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	return &env{
		console: console.System(),
		fs:      afero.NewOsFs(),
		dir:     cwd,
		home:    home,
	}
}

// NewRootCmd builds the pipecli command tree on the process's stdio.
func NewRootCmd() *cobra.Command {
	return newRootCmd(systemEnv())
}

func newRootCmd(e *env) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "pipecli",
		Short: "Run argument vectors through a declarative command tree",
		Long: `pipecli drives command trees declared in YAML through the full
tokenize, parse, bind and invoke pipeline.

Use it to try a tree before wiring it into a program, or to see exactly how
an argument vector is tokenized and resolved.

Examples:
  pipecli run --tree app.yaml -- greet bob --times 2
  pipecli parse --tree app.yaml -- greet bob
  pipecli tokens -- "[debug]" greet @args.rsp`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.config, "config", "", "settings file (default: search for "+config.FileName+")")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log every pipeline step to stderr")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newRunCmd(e, g),
		newTokensCmd(e, g),
		newParseCmd(e, g),
		newTreeCmd(e, g),
		newInitCmd(e),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and exits with the resulting code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if _, silent := errors.GetExitCode(err); !silent {
			fmt.Fprint(os.Stderr, ui.RenderError(ui.NewStyles(ui.NewRenderer(os.Stderr, ui.ColorAuto)), err))
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process exit code. Cobra's own
// usage errors are plain errors and exit 1.
func exitCode(err error) int {
	if _, ok := errors.GetExitCode(err); ok {
		return errors.ExitCode(err)
	}
	var pErr *errors.Error
	if stderrors.As(err, &pErr) {
		return errors.ExitCode(err)
	}
	return 1
}

// settings loads the settings file and applies the global flags.
func (g *globalFlags) settings(e *env) (*config.Settings, error) {
	s, err := config.LoadOrDefaultFs(e.fs, e.dir, e.home, g.config)
	if err != nil {
		return nil, err
	}
	if g.noColor {
		s.Color = string(ui.ColorNever)
	}
	return s, nil
}

func (g *globalFlags) logger(e *env) logger.Logger {
	if g.verbose {
		return logger.NewDebugLogger(e.console.Err(), "[pipecli]")
	}
	return logger.Default()
}

func styles(s *config.Settings, w io.Writer) ui.Styles {
	mode, _ := ui.ParseColorMode(s.Color)
	return ui.NewStyles(ui.NewRenderer(w, mode))
}

func parseConfig(s *config.Settings) parse.Config {
	return parse.Config{
		IgnoreUnrecognized: s.IgnoreUnrecognized,
		AllowPrefixMatch:   s.AllowPrefixMatch,
		HelpOptions:        s.HelpOptions,
		VersionOption:      s.VersionOption,
	}
}
