package app

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/rileyhilliard/pipecli/internal/util"
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/errors"
)

const maxSuggestDistance = 3

// structured returns the structured error in err's chain, if any.
func structured(err error) (*errors.Error, bool) {
	var pErr *errors.Error
	ok := stderrors.As(err, &pErr)
	return pErr, ok
}

// addSuggestion replaces the generic hint of an unrecognized-token error
// with the names it most resembles: options for an option token,
// subcommands otherwise.
func addSuggestion(err error, target *command.Command) {
	pErr, ok := structured(err)
	if !ok || pErr.Code != errors.ErrUnrecognized {
		return
	}

	subject := pErr.Subject
	var candidates []string
	if strings.HasPrefix(subject, "-") {
		if i := strings.IndexAny(subject, "=:"); i > 0 {
			subject = subject[:i]
		}
		candidates = optionCandidates(target)
	} else {
		for _, child := range target.Children() {
			candidates = append(candidates, child.Name())
		}
	}

	matches := util.SuggestSimilar(subject, candidates, maxSuggestDistance)
	switch len(matches) {
	case 0:
		return
	case 1:
		pErr.Suggestion = fmt.Sprintf("Did you mean '%s'?", matches[0])
	default:
		pErr.Suggestion = "Did you mean one of: " + strings.Join(matches, ", ")
	}
}

// optionCandidates lists the long identifiers matchable at target: its own
// options and the inherited options of its ancestors.
func optionCandidates(target *command.Command) []string {
	var out []string
	for _, o := range target.Options() {
		out = append(out, o.Long())
	}
	for p := target.Parent(); p != nil; p = p.Parent() {
		for _, o := range p.Options() {
			if o.Inherited() {
				out = append(out, o.Long())
			}
		}
	}
	return out
}
