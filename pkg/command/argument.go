package command

import (
	"fmt"
	"slices"
)

// Type identifies the declared value type of an argument. The binder looks
// up its converter by this key.
type Type string

// Built-in value types.
const (
	TypeString   Type = "string"
	TypeInt      Type = "int"
	TypeInt64    Type = "int64"
	TypeUint     Type = "uint"
	TypeFloat    Type = "float"
	TypeBool     Type = "bool"
	TypeDuration Type = "duration"
)

// Kind tells operands and options apart.
type Kind int

const (
	KindOperand Kind = iota
	KindOption
)

func (k Kind) String() string {
	if k == KindOption {
		return "option"
	}
	return "operand"
}

// Argument is the capability shared by operands and options.
type Argument interface {
	Name() string
	Kind() Kind
	Arity() Arity
	Type() Type
	// Default returns the declared default and whether one was declared.
	Default() (any, bool)
	AllowedValues() []string
	// IsAllowed reports whether raw satisfies the allowed-values
	// constraint; every value is allowed when none are declared.
	IsAllowed(raw string) bool
	Description() string
	// Command is the command that declares the argument.
	Command() *Command
}

type argSpec struct {
	name        string
	description string
	arity       Arity
	aritySet    bool
	typ         Type
	def         any
	hasDefault  bool
	allowed     []string
	required    bool
	short       rune
	inherited   bool
}

// ArgOption configures an operand or option at declaration time.
type ArgOption func(*argSpec)

// WithType sets the declared value type. Defaults to TypeString.
func WithType(t Type) ArgOption {
	return func(s *argSpec) { s.typ = t }
}

// WithArity sets the arity explicitly.
func WithArity(a Arity) ArgOption {
	return func(s *argSpec) {
		s.arity = a
		s.aritySet = true
	}
}

// WithDefault sets the value used when the argument receives no raw values.
func WithDefault(v any) ArgOption {
	return func(s *argSpec) {
		s.def = v
		s.hasDefault = true
	}
}

// WithAllowed restricts raw values to the given set.
func WithAllowed(values ...string) ArgOption {
	return func(s *argSpec) { s.allowed = append([]string(nil), values...) }
}

// WithDescription sets the help text.
func WithDescription(d string) ArgOption {
	return func(s *argSpec) { s.description = d }
}

// WithShort gives an option a single-character alias, used as "-x".
func WithShort(r rune) ArgOption {
	return func(s *argSpec) { s.short = r }
}

// Inherited makes an option visible to every descendant command.
func Inherited() ArgOption {
	return func(s *argSpec) { s.inherited = true }
}

// Required raises the arity minimum to at least one.
func Required() ArgOption {
	return func(s *argSpec) { s.required = true }
}

func newArgSpec(name string, kind Kind, opts []ArgOption) argSpec {
	s := argSpec{name: name, typ: TypeString}
	for _, opt := range opts {
		opt(&s)
	}
	if !s.aritySet {
		switch {
		case kind == KindOperand:
			s.arity = ExactlyOne
		case s.required:
			s.arity = ExactlyOne
		default:
			s.arity = ZeroOrOne
		}
	}
	if s.required && s.arity.Min < 1 {
		s.arity.Min = 1
		if !s.arity.IsUnbounded() && s.arity.Max < 1 {
			s.arity.Max = 1
		}
	}
	return s
}

func (s *argSpec) Name() string            { return s.name }
func (s *argSpec) Arity() Arity            { return s.arity }
func (s *argSpec) Type() Type              { return s.typ }
func (s *argSpec) Default() (any, bool)    { return s.def, s.hasDefault }
func (s *argSpec) AllowedValues() []string { return slices.Clone(s.allowed) }
func (s *argSpec) Description() string     { return s.description }

// IsAllowed reports whether raw satisfies the allowed-values constraint.
func (s *argSpec) IsAllowed(raw string) bool {
	return len(s.allowed) == 0 || slices.Contains(s.allowed, raw)
}

// Operand is a positional argument.
type Operand struct {
	argSpec
	cmd *Command
}

func (o *Operand) Kind() Kind        { return KindOperand }
func (o *Operand) Command() *Command { return o.cmd }

func (o *Operand) String() string {
	return fmt.Sprintf("<%s>", o.name)
}

// Option is a flagged argument matched by its long or short identifier.
type Option struct {
	argSpec
	cmd *Command
}

func (o *Option) Kind() Kind        { return KindOption }
func (o *Option) Command() *Command { return o.cmd }

// Long returns the long identifier including dashes, e.g. "--name".
func (o *Option) Long() string {
	return "--" + o.name
}

// Short returns the short alias rune, or zero when there is none.
func (o *Option) Short() rune {
	return o.short
}

// ShortFlag returns the short identifier including the dash, e.g. "-n".
func (o *Option) ShortFlag() string {
	if o.short == 0 {
		return ""
	}
	return "-" + string(o.short)
}

// Identifiers lists every token identifier that selects this option.
func (o *Option) Identifiers() []string {
	ids := []string{o.Long()}
	if o.short != 0 {
		ids = append(ids, o.ShortFlag())
	}
	return ids
}

// Matches reports whether the identifier selects this option.
func (o *Option) Matches(identifier string) bool {
	return identifier == o.Long() || (o.short != 0 && identifier == o.ShortFlag())
}

// Template is the option's identity within its command, e.g. "--name|-n".
func (o *Option) Template() string {
	if o.short == 0 {
		return o.Long()
	}
	return o.Long() + "|" + o.ShortFlag()
}

// IsFlag reports whether the option takes no separate value token.
func (o *Option) IsFlag() bool {
	return o.typ == TypeBool
}

// Inherited reports whether descendant commands can match this option.
func (o *Option) Inherited() bool {
	return o.inherited
}

func (o *Option) String() string {
	return o.Template()
}
