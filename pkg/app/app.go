// Package app runs argument vectors through a fully configured pipeline:
// tokenizing, parsing, binding and invoking a command tree with the default
// middleware set.
package app

import (
	"context"

	"github.com/rileyhilliard/pipecli/internal/ui"
	"github.com/rileyhilliard/pipecli/pkg/bind"
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/config"
	"github.com/rileyhilliard/pipecli/pkg/console"
	"github.com/rileyhilliard/pipecli/pkg/help"
	"github.com/rileyhilliard/pipecli/pkg/invoke"
	"github.com/rileyhilliard/pipecli/pkg/logger"
	"github.com/rileyhilliard/pipecli/pkg/parse"
	"github.com/rileyhilliard/pipecli/pkg/pipeline"
	"github.com/rileyhilliard/pipecli/pkg/prompt"
	"github.com/spf13/afero"
)

// App owns a command tree and the frozen engine that runs it. Run may be
// called concurrently; every call gets its own pipeline.Context.
type App struct {
	root     *command.Command
	settings *config.Settings
	console  console.Console
	log      logger.Logger
	resolver invoke.Resolver
	registry *bind.Registry
	sources  []bind.DefaultSource
	help     help.Renderer
	prompter prompt.Prompter
	version  string
	fs       afero.Fs

	extra  []pipeline.Registration
	engine *pipeline.Engine
}

// Option configures an App.
type Option func(*App)

// WithSettings replaces the default settings.
func WithSettings(s *config.Settings) Option {
	return func(a *App) { a.settings = s }
}

// WithConsole sets the console executions read from and write to.
func WithConsole(c console.Console) Option {
	return func(a *App) { a.console = c }
}

// WithLogger sets the logger carried on every execution.
func WithLogger(l logger.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithResolver sets the resolver for handler and interceptor instances.
func WithResolver(r invoke.Resolver) Option {
	return func(a *App) { a.resolver = r }
}

// WithConverters registers converters for custom argument types.
func WithConverters(converters map[command.Type]bind.ConvertFunc) Option {
	return func(a *App) {
		for t, fn := range converters {
			a.registry.Register(t, fn)
		}
	}
}

// WithHelpRenderer replaces the text help renderer.
func WithHelpRenderer(r help.Renderer) Option {
	return func(a *App) { a.help = r }
}

// WithPrompter replaces the huh prompter used for missing arguments.
func WithPrompter(p prompt.Prompter) Option {
	return func(a *App) { a.prompter = p }
}

// WithDefaults adds default-value sources, consulted in order before the
// settings' defaults section and environment.
func WithDefaults(sources ...bind.DefaultSource) Option {
	return func(a *App) { a.sources = append(a.sources, sources...) }
}

// WithVersion sets the text printed for the version option.
func WithVersion(v string) Option {
	return func(a *App) { a.version = v }
}

// WithFs sets the filesystem response files are read from.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithMiddleware adds host middleware alongside the defaults.
func WithMiddleware(name string, stage pipeline.Stage, priority int, mw pipeline.Middleware) Option {
	return func(a *App) {
		a.extra = append(a.extra, pipeline.Registration{
			Name:     name,
			Stage:    stage,
			Priority: priority,
			Func:     mw,
		})
	}
}

// New configures an App for root. The engine is frozen before New returns.
func New(root *command.Command, opts ...Option) (*App, error) {
	a := &App{
		root:     root,
		settings: config.DefaultSettings(),
		console:  console.System(),
		log:      logger.Noop(),
		registry: bind.NewRegistry(),
		prompter: prompt.NewHuhPrompter(),
		version:  "dev",
		fs:       afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := config.Validate(a.settings); err != nil {
		return nil, err
	}
	a.sources = append(a.sources, config.NewDefaults(a.settings))

	a.engine = pipeline.NewEngine(pipeline.WithLogger(a.log))
	regs := append(a.defaultMiddleware(), a.extra...)
	for _, r := range regs {
		if err := a.engine.Use(r.Name, r.Stage, r.Priority, r.Func); err != nil {
			return nil, err
		}
	}
	a.engine.Freeze()
	return a, nil
}

// Root returns the command tree.
func (a *App) Root() *command.Command {
	return a.root
}

// Engine returns the frozen engine, for inspecting the middleware order.
func (a *App) Engine() *pipeline.Engine {
	return a.engine
}

// Run executes args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	c := pipeline.NewContext(a.root, args, a.console, a.log)
	code, _ := a.engine.Run(ctx, c)
	return code
}

func (a *App) parseConfig() parse.Config {
	return parse.Config{
		IgnoreUnrecognized: a.settings.IgnoreUnrecognized,
		AllowPrefixMatch:   a.settings.AllowPrefixMatch,
		HelpOptions:        a.settings.HelpOptions,
		VersionOption:      a.settings.VersionOption,
	}
}

// styles picks colours for the console's output. Auto mode only colours a
// terminal.
func (a *App) styles(c *pipeline.Context) ui.Styles {
	mode, _ := ui.ParseColorMode(a.settings.Color)
	if mode == ui.ColorAuto && !c.Console.IsOutputTerminal() {
		mode = ui.ColorNever
	}
	return ui.NewStyles(ui.NewRenderer(c.Console.Err(), mode))
}

func (a *App) helpRenderer(c *pipeline.Context) help.Renderer {
	if a.help != nil {
		return a.help
	}
	r := help.NewTextRenderer(a.styles(c))
	r.HelpOptions = a.settings.HelpOptions
	r.VersionOption = a.settings.VersionOption
	return r
}
