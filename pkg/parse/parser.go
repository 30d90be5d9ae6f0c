package parse

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/token"
)

// Config controls parsing.
type Config struct {
	// IgnoreUnrecognized keeps unrecognized tokens in the result instead of
	// failing the parse.
	IgnoreUnrecognized bool
	// AllowPrefixMatch lets a unique prefix of a long option name select it.
	AllowPrefixMatch bool
	// HelpOptions are the implicit help identifiers, honoured unless the
	// command declares an option with the same identifier.
	HelpOptions []string
	// VersionOption is the implicit version identifier, honoured at the root.
	VersionOption string
}

// DefaultConfig returns the default parsing configuration.
func DefaultConfig() Config {
	return Config{
		HelpOptions:   []string{"-h", "--help", "-?"},
		VersionOption: "--version",
	}
}

// Parse walks the tree from root guided by tokens. It always returns a
// result; the error, when non-nil, is a structured error describing the
// first problem found.
func Parse(root *command.Command, tokens []token.Token, cfg Config) (*Result, error) {
	w := &walker{
		cfg:       cfg,
		res:       NewResult(root),
		cur:       root,
		optCounts: make(map[*command.Option]int),
	}
	w.run(tokens)
	w.res.Target = w.cur
	if w.err != nil {
		return w.res, w.err
	}
	return w.res, nil
}

type walker struct {
	cfg Config
	res *Result
	cur *command.Command

	pending   []token.Token
	expecting *command.Option
	expectTok token.Token
	optCounts map[*command.Option]int

	err error
}

func (w *walker) run(tokens []token.Token) {
	for i, tok := range tokens {
		if w.expecting != nil {
			if tok.Kind == token.KindValue {
				w.res.Append(w.expecting, tok.Value)
				w.expecting = nil
				continue
			}
			w.missingOptionValue()
		}

		switch tok.Kind {
		case token.KindDirective:
			// Directives are consumed by the tokenizer; stray ones carry no
			// arguments.
		case token.KindSeparator:
			w.flush()
			w.separate(tokens[i+1:])
			return
		case token.KindOption:
			w.option(tok)
		default:
			if child, ok := w.cur.Child(tok.Value); ok {
				w.flush()
				w.cur = child
				continue
			}
			w.pending = append(w.pending, tok)
		}
	}

	if w.expecting != nil {
		w.missingOptionValue()
	}
	w.flush()
}

func (w *walker) option(tok token.Token) {
	if slices.Contains(w.cfg.HelpOptions, tok.Name) && !w.declared(tok.Name) {
		w.res.HelpRequested = true
		return
	}
	if w.cfg.VersionOption != "" && tok.Name == w.cfg.VersionOption && w.cur.IsRoot() && !w.declared(tok.Name) {
		w.res.VersionRequested = true
		return
	}

	opt, err := w.lookup(tok.Name)
	if err != nil {
		w.fail(err)
		return
	}
	if opt == nil {
		w.unrecognized(tok)
		return
	}

	w.optCounts[opt]++
	if limit := opt.Arity().Max; limit > 0 && w.optCounts[opt] > limit {
		w.unrecognized(tok)
		return
	}

	switch {
	case tok.HasValue:
		w.res.Append(opt, tok.Value)
	case opt.IsFlag():
		w.res.Append(opt, "true")
	default:
		w.expecting = opt
		w.expectTok = tok
	}
}

func (w *walker) declared(identifier string) bool {
	for _, o := range w.cur.VisibleOptions() {
		if o.Matches(identifier) {
			return true
		}
	}
	return false
}

// lookup finds the option an identifier selects among the options visible
// at the current command. It returns nil when nothing matches.
func (w *walker) lookup(identifier string) (*command.Option, *errors.Error) {
	visible := w.cur.VisibleOptions()
	for _, o := range visible {
		if o.Matches(identifier) {
			return o, nil
		}
	}

	if !w.cfg.AllowPrefixMatch || !strings.HasPrefix(identifier, "--") || len(identifier) < 3 {
		return nil, nil
	}
	var candidates []*command.Option
	for _, o := range visible {
		if strings.HasPrefix(o.Long(), identifier) {
			candidates = append(candidates, o)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return candidates[0], nil
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Long()
	}
	return nil, errors.NewAmbiguousOption(identifier, names)
}

// flush distributes the collected operand values of the current command.
// Each operand takes as many values as it can while leaving enough for the
// minimums of the operands after it.
func (w *walker) flush() {
	values := w.pending
	w.pending = nil
	if len(values) == 0 {
		return
	}

	operands := w.cur.Operands()
	remaining := len(values)
	next := 0
	for i, op := range operands {
		if remaining == 0 {
			break
		}
		laterMin := 0
		for _, later := range operands[i+1:] {
			laterMin += later.Arity().Min
		}

		take := remaining - laterMin
		if !op.Arity().IsUnbounded() && take > op.Arity().Max {
			take = op.Arity().Max
		}
		if take < op.Arity().Min {
			take = op.Arity().Min
		}
		if take > remaining {
			take = remaining
		}

		for _, tok := range values[next : next+take] {
			w.res.Append(op, tok.Value)
		}
		next += take
		remaining -= take
	}

	for _, tok := range values[next:] {
		w.unrecognized(tok)
	}
}

func (w *walker) separate(rest []token.Token) {
	w.res.Separated = true
	w.res.Remaining = token.Raws(rest)

	switch w.cur.Separator() {
	case command.SeparatorPassThru:
		return
	case command.SeparatorDisabled:
		w.unrecognized(token.Token{Kind: token.KindSeparator, Raw: token.Separator})
		for _, tok := range rest {
			w.unrecognized(tok)
		}
		return
	}

	if len(rest) == 0 {
		return
	}
	op, ok := w.cur.UnboundedOperand()
	if !ok {
		for _, tok := range rest {
			w.unrecognized(tok)
		}
		return
	}
	for _, tok := range rest {
		w.res.Append(op, tok.Raw)
	}
}

func (w *walker) missingOptionValue() {
	opt := w.expecting
	w.expecting = nil
	err := errors.NewMissingArgument(opt.Command().FullName(), opt.Long())
	err.Message = fmt.Sprintf("Option '%s' requires a value", w.expectTok.Name)
	err.Suggestion = fmt.Sprintf("Pass it as %s <value> or %s=<value>", opt.Long(), opt.Long())
	w.fail(err)
}

func (w *walker) unrecognized(tok token.Token) {
	w.res.Unrecognized = append(w.res.Unrecognized, tok)
	if !w.cfg.IgnoreUnrecognized {
		w.fail(errors.NewUnrecognized(tok.Raw))
	}
}

func (w *walker) fail(err *errors.Error) {
	if w.err == nil {
		w.err = err
	}
}
