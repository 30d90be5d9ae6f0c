package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	perrors "github.com/rileyhilliard/pipecli/pkg/errors"
)

// Builder declares a command and its subtree. Call Build on the root
// builder to validate the whole tree and get the immutable result.
type Builder struct {
	cmd      *Command
	parent   *Builder
	children []*Builder
	built    bool
}

// NewBuilder starts a tree rooted at a command with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{cmd: &Command{name: name}}
}

// Description sets the command's help text.
func (b *Builder) Description(d string) *Builder {
	b.mutable()
	b.cmd.description = d
	return b
}

// Operand declares a positional argument. Operands are matched in
// declaration order.
func (b *Builder) Operand(name string, opts ...ArgOption) *Builder {
	b.mutable()
	b.cmd.operands = append(b.cmd.operands, &Operand{
		argSpec: newArgSpec(name, KindOperand, opts),
		cmd:     b.cmd,
	})
	return b
}

// Option declares a flagged argument. name is the long identifier without
// dashes; use WithShort for a single-character alias.
func (b *Builder) Option(name string, opts ...ArgOption) *Builder {
	b.mutable()
	b.cmd.options = append(b.cmd.options, &Option{
		argSpec: newArgSpec(name, KindOption, opts),
		cmd:     b.cmd,
	})
	return b
}

// Flag declares a boolean option.
func (b *Builder) Flag(name string, opts ...ArgOption) *Builder {
	return b.Option(name, append([]ArgOption{WithType(TypeBool)}, opts...)...)
}

// Handle sets the target handler.
func (b *Builder) Handle(fn HandlerFunc) *Builder {
	return b.HandleWith(Handler{Run: fn})
}

// HandleWith sets the target-invocation descriptor.
func (b *Builder) HandleWith(h Handler) *Builder {
	b.mutable()
	b.cmd.handler = &h
	return b
}

// Intercept sets an interceptor that wraps every descendant invocation.
func (b *Builder) Intercept(fn InterceptorFunc) *Builder {
	return b.InterceptWith(Interceptor{Run: fn})
}

// InterceptWith sets the interceptor-invocation descriptor.
func (b *Builder) InterceptWith(i Interceptor) *Builder {
	b.mutable()
	b.cmd.interceptor = &i
	return b
}

// Separator sets how tokens after "--" are handled for this command.
func (b *Builder) Separator(s SeparatorStrategy) *Builder {
	b.mutable()
	b.cmd.separator = s
	return b
}

// Subcommand declares a child command and returns its builder.
func (b *Builder) Subcommand(name string) *Builder {
	b.mutable()
	child := &Builder{cmd: &Command{name: name, parent: b.cmd}, parent: b}
	b.children = append(b.children, child)
	b.cmd.children = append(b.cmd.children, child.cmd)
	return child
}

// Parent returns the builder of the enclosing command, or nil at the root.
func (b *Builder) Parent() *Builder {
	return b.parent
}

// root returns the builder of the tree root.
func (b *Builder) root() *Builder {
	r := b
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// mutable panics once the tree has been built. The built tree is shared by
// concurrent executions and never changes afterwards.
func (b *Builder) mutable() {
	if b.root().built {
		panic(fmt.Sprintf("command %q: tree %q is already built", b.cmd.FullName(), b.root().cmd.name))
	}
}

// Build validates the tree and returns its root. It must be called on the
// root builder and only once; every violation is reported together. The
// builders of the tree panic on any further declaration.
func (b *Builder) Build() (*Command, error) {
	if b.parent != nil {
		return nil, perrors.New(perrors.ErrConfig,
			fmt.Sprintf("Build called on subcommand '%s'", b.cmd.name),
			"Call Build on the root builder")
	}
	if b.built {
		return nil, perrors.New(perrors.ErrConfig,
			fmt.Sprintf("Command tree '%s' was already built", b.cmd.name),
			"Create a new builder for each tree")
	}

	var merr error
	b.cmd.Walk(func(c *Command) {
		if err := validate(c); err != nil {
			merr = errors.Join(merr, err)
		}
	})
	if merr != nil {
		return nil, perrors.WrapWithCode(merr, perrors.ErrConfig,
			fmt.Sprintf("Invalid command tree '%s'", b.cmd.name),
			"Fix the command declarations listed above")
	}

	b.built = true
	return b.cmd, nil
}

// MustBuild is Build for trees declared in code, where an invalid tree is
// a programming error.
func (b *Builder) MustBuild() *Command {
	root, err := b.Build()
	if err != nil {
		panic(err)
	}
	return root
}

func validate(c *Command) error {
	var merr error
	where := c.FullName()

	if err := validateName(c.name); err != nil {
		merr = errors.Join(merr, fmt.Errorf("command %q: %w", where, err))
	}

	seen := make(map[string]bool)
	for _, child := range c.children {
		if seen[child.name] {
			merr = errors.Join(merr, fmt.Errorf("command %q: duplicate subcommand %q", where, child.name))
		}
		seen[child.name] = true
	}

	argNames := make(map[string]bool)
	for i, op := range c.operands {
		if err := validateArg(&op.argSpec); err != nil {
			merr = errors.Join(merr, fmt.Errorf("command %q operand %q: %w", where, op.name, err))
		}
		if argNames[op.name] {
			merr = errors.Join(merr, fmt.Errorf("command %q: duplicate argument %q", where, op.name))
		}
		argNames[op.name] = true
		if op.short != 0 || op.inherited {
			merr = errors.Join(merr, fmt.Errorf("command %q operand %q: short aliases and inheritance apply to options only", where, op.name))
		}
		if op.arity.IsUnbounded() && i != len(c.operands)-1 {
			merr = errors.Join(merr, fmt.Errorf("command %q operand %q: an unbounded operand must be the last operand", where, op.name))
		}
	}

	ids := make(map[string]bool)
	for _, opt := range c.options {
		if err := validateArg(&opt.argSpec); err != nil {
			merr = errors.Join(merr, fmt.Errorf("command %q option %q: %w", where, opt.name, err))
		}
		if argNames[opt.name] {
			merr = errors.Join(merr, fmt.Errorf("command %q: duplicate argument %q", where, opt.name))
		}
		argNames[opt.name] = true
		for _, id := range opt.Identifiers() {
			if ids[id] {
				merr = errors.Join(merr, fmt.Errorf("command %q: option identifier %q declared twice", where, id))
			}
			ids[id] = true
		}
		if opt.short == '-' {
			merr = errors.Join(merr, fmt.Errorf("command %q option %q: '-' is not a valid short alias", where, opt.name))
		}
	}

	return merr
}

func validateName(name string) error {
	switch {
	case name == "":
		return errors.New("name must not be empty")
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("name %q must not start with '-'", name)
	case strings.HasPrefix(name, "@"), strings.HasPrefix(name, "["):
		return fmt.Errorf("name %q must not start with %q", name, name[:1])
	case strings.ContainsAny(name, " \t\n=:"):
		return fmt.Errorf("name %q must not contain whitespace, '=' or ':'", name)
	}
	return nil
}

func validateArg(s *argSpec) error {
	if err := validateName(s.name); err != nil {
		return err
	}
	if !s.arity.valid() {
		return fmt.Errorf("invalid arity %s", s.arity)
	}
	if s.hasDefault && len(s.allowed) > 0 {
		for _, d := range defaultStrings(s.def) {
			if !slices.Contains(s.allowed, d) {
				return fmt.Errorf("default %q is not one of the allowed values %v", d, s.allowed)
			}
		}
	}
	return nil
}

func defaultStrings(def any) []string {
	switch d := def.(type) {
	case string:
		return []string{d}
	case []string:
		return d
	case fmt.Stringer:
		return []string{d.String()}
	}
	return nil
}
