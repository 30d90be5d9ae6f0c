// Package treefile declares command trees in YAML. Handlers and
// interceptors are referenced by name and looked up in a Registry when the
// tree is built.
//
//	name: app
//	options:
//	  - name: verbose
//	    short: v
//	    type: bool
//	    inherited: true
//	commands:
//	  - name: sub
//	    handler: echo
//	    operands:
//	      - name: text
//	        arity: "*"
package treefile

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rileyhilliard/pipecli/pkg/bind"
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Node is one command of a tree file.
type Node struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Separator   string `yaml:"separator,omitempty"`
	Handler     string `yaml:"handler,omitempty"`
	Interceptor string `yaml:"interceptor,omitempty"`
	Operands    []Arg  `yaml:"operands,omitempty"`
	Options     []Arg  `yaml:"options,omitempty"`
	Commands    []Node `yaml:"commands,omitempty"`
}

// Arg is an operand or option of a tree file.
type Arg struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Type        string   `yaml:"type,omitempty"`
	Arity       string   `yaml:"arity,omitempty"`
	Default     any      `yaml:"default,omitempty"`
	Allowed     []string `yaml:"allowed,omitempty"`
	Short       string   `yaml:"short,omitempty"`
	Inherited   bool     `yaml:"inherited,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
}

// Registry resolves the handler and interceptor names used in a tree file.
type Registry struct {
	Handlers     map[string]command.Handler
	Interceptors map[string]command.Interceptor
	// Converters turns declared defaults into typed values. Nil uses the
	// built-in converters.
	Converters *bind.Registry
}

// Load reads and decodes the tree file at path.
func Load(fs afero.Fs, path string) (*Node, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot read tree file "+path,
			"Check the path passed with --tree")
	}
	n, err := Parse(data)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid tree file "+path,
			"Check the YAML against the tree file format")
	}
	return n, nil
}

// Parse decodes a tree file. Unknown keys are rejected.
func Parse(data []byte) (*Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var n Node
	if err := dec.Decode(&n); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("tree file is empty")
		}
		return nil, err
	}
	if n.Name == "" {
		return nil, fmt.Errorf("the root command needs a name")
	}
	return &n, nil
}

// Build turns the tree file into a validated command tree.
func (n *Node) Build(reg Registry) (*command.Command, error) {
	if reg.Converters == nil {
		reg.Converters = bind.NewRegistry()
	}
	b := command.NewBuilder(n.Name)
	if err := n.declare(b, reg, n.Name); err != nil {
		return nil, err
	}
	return b.Build()
}

func (n *Node) declare(b *command.Builder, reg Registry, where string) error {
	b.Description(n.Description)

	sep, err := ParseSeparator(n.Separator)
	if err != nil {
		return treeError(where, err)
	}
	b.Separator(sep)

	if n.Handler != "" {
		h, ok := reg.Handlers[n.Handler]
		if !ok {
			return treeError(where, fmt.Errorf("unknown handler %q", n.Handler))
		}
		b.HandleWith(h)
	}
	if n.Interceptor != "" {
		ic, ok := reg.Interceptors[n.Interceptor]
		if !ok {
			return treeError(where, fmt.Errorf("unknown interceptor %q", n.Interceptor))
		}
		b.InterceptWith(ic)
	}

	for _, a := range n.Operands {
		opts, err := a.options(reg, false)
		if err != nil {
			return treeError(where+" operand "+a.Name, err)
		}
		b.Operand(a.Name, opts...)
	}
	for _, a := range n.Options {
		opts, err := a.options(reg, true)
		if err != nil {
			return treeError(where+" option "+a.Name, err)
		}
		b.Option(a.Name, opts...)
	}

	for i := range n.Commands {
		child := &n.Commands[i]
		if err := child.declare(b.Subcommand(child.Name), reg, where+" "+child.Name); err != nil {
			return err
		}
	}
	return nil
}

func (a Arg) options(reg Registry, isOption bool) ([]command.ArgOption, error) {
	typ := command.TypeString
	if a.Type != "" {
		typ = command.Type(a.Type)
	}
	opts := []command.ArgOption{command.WithType(typ)}

	if a.Description != "" {
		opts = append(opts, command.WithDescription(a.Description))
	}
	if a.Arity != "" {
		arity, err := ParseArity(a.Arity)
		if err != nil {
			return nil, err
		}
		opts = append(opts, command.WithArity(arity))
	}
	if len(a.Allowed) > 0 {
		opts = append(opts, command.WithAllowed(a.Allowed...))
	}
	if a.Required {
		opts = append(opts, command.Required())
	}
	if a.Short != "" {
		if !isOption {
			return nil, fmt.Errorf("short aliases apply to options only")
		}
		r := []rune(a.Short)
		if len(r) != 1 {
			return nil, fmt.Errorf("short alias %q must be a single character", a.Short)
		}
		opts = append(opts, command.WithShort(r[0]))
	}
	if a.Inherited {
		if !isOption {
			return nil, fmt.Errorf("only options can be inherited")
		}
		opts = append(opts, command.Inherited())
	}
	if a.Default != nil {
		def, err := convertDefault(reg.Converters, typ, a.Default)
		if err != nil {
			return nil, err
		}
		opts = append(opts, command.WithDefault(def))
	}
	return opts, nil
}

// convertDefault types a YAML default the way the binder would type the
// same text from the command line. Lists become []string for string
// arguments and []any otherwise.
func convertDefault(reg *bind.Registry, typ command.Type, raw any) (any, error) {
	if list, ok := raw.([]any); ok {
		if typ == command.TypeString {
			out := make([]string, len(list))
			for i, item := range list {
				out[i] = fmt.Sprint(item)
			}
			return out, nil
		}
		out := make([]any, len(list))
		for i, item := range list {
			v, err := convertDefault(reg, typ, item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	text := fmt.Sprint(raw)
	if typ == command.TypeString {
		return text, nil
	}
	if _, ok := reg.Lookup(typ); !ok {
		return text, nil
	}
	v, err := reg.Convert(typ, text)
	if err != nil {
		return nil, fmt.Errorf("default %q is not a valid %s: %w", text, typ, err)
	}
	return v, nil
}

// ParseArity reads "N", "N..M", "N..*" or "*" (zero or more).
func ParseArity(s string) (command.Arity, error) {
	s = strings.TrimSpace(s)
	if s == "*" {
		return command.ZeroOrMore, nil
	}

	lo, hi, ranged := strings.Cut(s, "..")
	low, err := strconv.Atoi(lo)
	if err != nil || low < 0 {
		return command.Arity{}, fmt.Errorf("invalid arity %q", s)
	}
	if !ranged {
		return command.Arity{Min: low, Max: low}, nil
	}
	if hi == "*" {
		return command.Arity{Min: low, Max: command.Unbounded}, nil
	}
	high, err := strconv.Atoi(hi)
	if err != nil || high < low {
		return command.Arity{}, fmt.Errorf("invalid arity %q", s)
	}
	return command.Arity{Min: low, Max: high}, nil
}

// ParseSeparator reads a separator strategy name. Empty means
// end-of-options.
func ParseSeparator(s string) (command.SeparatorStrategy, error) {
	switch s {
	case "", "end-of-options":
		return command.SeparatorEndOfOptions, nil
	case "pass-thru":
		return command.SeparatorPassThru, nil
	case "disabled":
		return command.SeparatorDisabled, nil
	}
	return 0, fmt.Errorf("unknown separator %q (want end-of-options, pass-thru or disabled)", s)
}

func treeError(where string, err error) error {
	return errors.WrapWithCode(err, errors.ErrConfig,
		fmt.Sprintf("Invalid declaration for '%s'", where),
		"Fix the tree file entry")
}
