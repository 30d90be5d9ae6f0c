package token

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/pipecli/pkg/errors"
)

// Directive is an out-of-band instruction such as [debug] or [parse:raw].
type Directive struct {
	Name     string
	Value    string
	HasValue bool
}

func (d Directive) String() string {
	if d.HasValue {
		return fmt.Sprintf("[%s:%s]", d.Name, d.Value)
	}
	return fmt.Sprintf("[%s]", d.Name)
}

// Directives are the directives of one execution, in input order.
type Directives []Directive

// Get returns the first directive with the given name.
func (ds Directives) Get(name string) (Directive, bool) {
	for _, d := range ds {
		if d.Name == name {
			return d, true
		}
	}
	return Directive{}, false
}

// Has reports whether a directive with the given name was given.
func (ds Directives) Has(name string) bool {
	_, ok := ds.Get(name)
	return ok
}

// Options controls tokenization.
type Options struct {
	// Directives enables recognition of leading [name] arguments.
	Directives bool
}

// Tokenize splits args into leading directives and the token stream that
// the parser consumes. Directives are only recognized before any other
// argument.
func Tokenize(args []string, opts Options) (Directives, []Token, error) {
	var directives Directives
	tokens := make([]Token, 0, len(args))

	leading := opts.Directives
	separated := false
	for _, arg := range args {
		if leading && strings.HasPrefix(arg, "[") {
			d, err := parseDirective(arg)
			if err != nil {
				return nil, nil, err
			}
			directives = append(directives, d)
			continue
		}
		leading = false

		tok := Classify(arg, separated)
		if tok.Kind == KindSeparator {
			separated = true
		}
		tokens = append(tokens, tok)
	}
	return directives, tokens, nil
}

func parseDirective(arg string) (Directive, error) {
	if !strings.HasSuffix(arg, "]") || len(arg) < 2 {
		return Directive{}, errors.NewTokenization(arg,
			fmt.Sprintf("Directive '%s' is missing its closing ']'", arg))
	}
	inner := arg[1 : len(arg)-1]

	d := Directive{Name: inner}
	if idx := strings.IndexAny(inner, ":="); idx >= 0 {
		d.Name = inner[:idx]
		d.Value = inner[idx+1:]
		d.HasValue = true
	}
	if d.Name == "" {
		return Directive{}, errors.NewTokenization(arg,
			fmt.Sprintf("Directive '%s' has no name", arg))
	}
	if strings.ContainsAny(d.Name, " \t[]") {
		return Directive{}, errors.NewTokenization(arg,
			fmt.Sprintf("Directive name '%s' contains invalid characters", d.Name))
	}
	return d, nil
}
