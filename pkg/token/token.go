// Package token turns a raw argument vector into typed tokens: directives,
// options, the argument separator and plain values.
package token

import (
	"fmt"
	"strings"
)

// Kind is the category of a token.
type Kind int

const (
	KindValue Kind = iota
	KindOption
	KindSeparator
	KindDirective
)

func (k Kind) String() string {
	switch k {
	case KindOption:
		return "option"
	case KindSeparator:
		return "separator"
	case KindDirective:
		return "directive"
	default:
		return "value"
	}
}

// Separator is the bare token that ends option processing.
const Separator = "--"

// Token is one element of the token stream. Tokens are values; nothing
// mutates a token after it is created.
type Token struct {
	Kind Kind
	// Raw is the text exactly as it appeared in the input.
	Raw string
	// Name is the directive name or the option identifier ("--name", "-n").
	Name string
	// Value is the directive value, the option's inline value, or the text
	// of a value token.
	Value    string
	HasValue bool
	// Source is the response file a token came from; empty for argv.
	Source string
}

func (t Token) String() string {
	switch t.Kind {
	case KindOption:
		if t.HasValue {
			return fmt.Sprintf("option(%s=%s)", t.Name, t.Value)
		}
		return fmt.Sprintf("option(%s)", t.Name)
	case KindSeparator:
		return "separator"
	case KindDirective:
		if t.HasValue {
			return fmt.Sprintf("directive(%s:%s)", t.Name, t.Value)
		}
		return fmt.Sprintf("directive(%s)", t.Name)
	default:
		return fmt.Sprintf("value(%s)", t.Value)
	}
}

// Classify turns one argument into a token. After the separator every
// argument is a literal value.
func Classify(arg string, separated bool) Token {
	if separated {
		return valueToken(arg)
	}
	if arg == Separator {
		return Token{Kind: KindSeparator, Raw: arg}
	}
	if strings.HasPrefix(arg, "-") && arg != "-" {
		tok := Token{Kind: KindOption, Raw: arg, Name: arg}
		start := 1
		if strings.HasPrefix(arg, "--") {
			start = 2
		}
		if idx := strings.IndexAny(arg[start:], "=:"); idx >= 0 {
			tok.Name = arg[:start+idx]
			tok.Value = arg[start+idx+1:]
			tok.HasValue = true
		}
		return tok
	}
	return valueToken(arg)
}

func valueToken(arg string) Token {
	return Token{Kind: KindValue, Raw: arg, Value: arg}
}

// Raws returns the raw text of each token.
func Raws(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Raw
	}
	return out
}
