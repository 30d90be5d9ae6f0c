package token

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/spf13/afero"
)

// Transformation rewrites the token stream after tokenization. Lower Order
// runs first.
type Transformation struct {
	Name  string
	Order int
	Apply func(tokens []Token) ([]Token, error)
}

// Transform applies transformations in ascending order; ties keep the
// given order.
func Transform(tokens []Token, transformations ...Transformation) ([]Token, error) {
	ordered := append([]Transformation(nil), transformations...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	var err error
	for _, t := range ordered {
		tokens, err = t.Apply(tokens)
		if err != nil {
			return nil, err
		}
	}
	return tokens, nil
}

// ResponseFilePrefix marks a value token as a response file reference.
const ResponseFilePrefix = "@"

// ResponseFiles returns the transformation that replaces each "@path" value
// before the separator with the arguments listed in that file. Files are
// read through fs, one or more arguments per line, with quoting as in Split.
// Blank lines and lines starting with '#' are skipped, and files may
// reference further response files.
func ResponseFiles(fs afero.Fs) Transformation {
	return Transformation{
		Name:  "response-files",
		Order: 100,
		Apply: func(tokens []Token) ([]Token, error) {
			e := &expander{fs: fs, active: make(map[string]bool)}
			return e.expand(tokens, "")
		},
	}
}

type expander struct {
	fs        afero.Fs
	active    map[string]bool
	separated bool
}

func (e *expander) expand(tokens []Token, source string) ([]Token, error) {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if e.separated {
			// A separator inside a response file ends option processing for
			// everything that follows it.
			if tok.Kind != KindValue {
				tok = Token{Kind: KindValue, Raw: tok.Raw, Value: tok.Raw, Source: tok.Source}
			}
			out = append(out, tok)
			continue
		}
		if tok.Kind == KindSeparator {
			e.separated = true
			out = append(out, tok)
			continue
		}
		if tok.Kind != KindValue || !strings.HasPrefix(tok.Raw, ResponseFilePrefix) || len(tok.Raw) == 1 {
			out = append(out, tok)
			continue
		}

		path := strings.TrimPrefix(tok.Raw, ResponseFilePrefix)
		nested, err := e.read(path, source)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}

func (e *expander) read(path, from string) ([]Token, error) {
	if e.active[path] {
		return nil, errors.NewTokenization(ResponseFilePrefix+path,
			fmt.Sprintf("Response file '%s' references itself", path))
	}
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		tokErr := errors.NewTokenization(ResponseFilePrefix+path,
			fmt.Sprintf("Cannot read response file '%s'", path))
		tokErr.Cause = err
		if from != "" {
			tokErr.Suggestion = fmt.Sprintf("Referenced from '%s'", from)
		}
		return nil, tokErr
	}

	var tokens []Token
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words, err := Split(line)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrTokenize,
				fmt.Sprintf("Cannot parse line %d of response file '%s'", n+1, path),
				"Close every quote on the line where it opens")
		}
		for _, w := range words {
			tok := Classify(w, false)
			tok.Source = path
			tokens = append(tokens, tok)
		}
	}

	e.active[path] = true
	defer delete(e.active, path)
	return e.expand(tokens, path)
}

// Split breaks a line into words. Whitespace separates words; single quotes
// preserve text literally; double quotes allow \" and \\ escapes; a
// backslash outside quotes escapes the next character.
func Split(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inWord = true
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
