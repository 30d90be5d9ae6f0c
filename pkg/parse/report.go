package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/pipecli/internal/util"
	"github.com/rileyhilliard/pipecli/pkg/command"
)

// Report writes a deterministic, human-readable description of r: the
// target, the raw values of every argument on the path, and any
// unrecognized or remaining tokens.
func Report(w io.Writer, r *Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "command: %s\n", r.Target.FullName())
	for _, cmd := range r.Path() {
		args := cmd.Arguments()
		if len(args) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s\n", cmd.Name())

		width := 0
		for _, a := range args {
			width = max(width, len(label(a)))
		}
		for _, a := range args {
			values := "(none)"
			if r.HasValues(a) {
				values = util.QuoteList(r.Values(a))
			}
			fmt.Fprintf(&b, "    %-*s  %s\n", width, label(a), values)
		}
	}

	unrecognized := make([]string, len(r.Unrecognized))
	for i, tok := range r.Unrecognized {
		unrecognized[i] = tok.Raw
	}
	fmt.Fprintf(&b, "unrecognized: %s\n", util.JoinOrNone(unrecognized))
	if r.Separated {
		fmt.Fprintf(&b, "remaining: %s\n", util.QuoteList(r.Remaining))
	}
	if r.HelpRequested {
		b.WriteString("help: requested\n")
	}
	if r.VersionRequested {
		b.WriteString("version: requested\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func label(a command.Argument) string {
	if o, ok := a.(*command.Option); ok {
		return o.Template()
	}
	return "<" + a.Name() + ">"
}
