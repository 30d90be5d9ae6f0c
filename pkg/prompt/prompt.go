// Package prompt asks the user for required arguments that were not given
// on the command line.
package prompt

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/token"
)

// Prompter asks for the raw values of one argument.
type Prompter interface {
	Prompt(ctx context.Context, arg command.Argument) ([]string, error)
}

// Func adapts a function to Prompter.
type Func func(ctx context.Context, arg command.Argument) ([]string, error)

// Prompt implements Prompter.
func (f Func) Prompt(ctx context.Context, arg command.Argument) ([]string, error) {
	return f(ctx, arg)
}

// HuhPrompter prompts with huh forms: a confirm for flags, a select for
// arguments with allowed values and a text input otherwise.
type HuhPrompter struct {
	Input      io.Reader
	Output     io.Writer
	Accessible bool
}

// NewHuhPrompter returns a prompter on the process's terminal.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

// Prompt implements Prompter.
func (p *HuhPrompter) Prompt(ctx context.Context, arg command.Argument) ([]string, error) {
	var (
		answer  string
		confirm bool
	)

	field := Field(arg, &answer, &confirm)
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.Accessible)
	if p.Input != nil {
		form = form.WithInput(p.Input)
	}
	if p.Output != nil {
		form = form.WithOutput(p.Output)
	}

	if err := form.RunWithContext(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrMissingArgument,
			fmt.Sprintf("No value given for '%s'", Title(arg)),
			"Pass the value on the command line")
	}

	if arg.Type() == command.TypeBool && len(arg.AllowedValues()) == 0 {
		return []string{strconv.FormatBool(confirm)}, nil
	}
	return ParseAnswer(arg, answer)
}

// Field builds the huh field that asks for arg, storing its result in
// answer, or in confirm for boolean arguments.
func Field(arg command.Argument, answer *string, confirm *bool) huh.Field {
	title := Title(arg)
	description := Description(arg)

	if allowed := arg.AllowedValues(); len(allowed) > 0 {
		return huh.NewSelect[string]().
			Title(title).
			Description(description).
			Options(huh.NewOptions(allowed...)...).
			Value(answer)
	}
	if arg.Type() == command.TypeBool {
		return huh.NewConfirm().
			Title(title).
			Description(description).
			Value(confirm)
	}
	return huh.NewInput().
		Title(title).
		Description(description).
		Value(answer).
		Validate(func(s string) error {
			_, err := ParseAnswer(arg, s)
			return err
		})
}

// Title is the prompt title for arg.
func Title(arg command.Argument) string {
	if o, ok := arg.(*command.Option); ok {
		return o.Long()
	}
	return arg.Name()
}

// Description is the help line shown under the prompt title.
func Description(arg command.Argument) string {
	desc := arg.Description()
	if arg.Arity().AllowsMany() {
		hint := "Separate values with spaces; quote values that contain spaces"
		if desc == "" {
			return hint
		}
		return desc + ". " + hint
	}
	return desc
}

// ParseAnswer turns the text the user typed into raw values. Multi-valued
// arguments split the answer like a response-file line.
func ParseAnswer(arg command.Argument, answer string) ([]string, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		if arg.Arity().Min > 0 {
			return nil, fmt.Errorf("%s is required", Title(arg))
		}
		return nil, nil
	}
	if !arg.Arity().AllowsMany() {
		return []string{answer}, nil
	}

	values, err := token.Split(answer)
	if err != nil {
		return nil, err
	}
	if !arg.Arity().Accepts(len(values)) {
		return nil, fmt.Errorf("%s expects %s values, got %d", Title(arg), arg.Arity(), len(values))
	}
	return values, nil
}
