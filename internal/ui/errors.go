package ui

import (
	"errors"
	"strings"

	perrors "github.com/rileyhilliard/pipecli/pkg/errors"
)

// RenderError formats err for the terminal. Structured errors get the
// three-part layout: what failed, why, and how to fix it.
func RenderError(s Styles, err error) string {
	var b strings.Builder

	var pErr *perrors.Error
	if !errors.As(err, &pErr) {
		b.WriteString(s.Error.Render(SymbolFail + " " + err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(s.Error.Render(SymbolFail + " " + pErr.Message))
	b.WriteString("\n")
	if pErr.Cause != nil {
		b.WriteString("\n  ")
		b.WriteString(pErr.Cause.Error())
		b.WriteString("\n")
	}
	if pErr.Suggestion != "" {
		b.WriteString("\n  ")
		b.WriteString(s.Muted.Render(pErr.Suggestion))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderWarning formats a single warning line.
func RenderWarning(s Styles, msg string) string {
	return s.Warning.Render(SymbolWarning+" "+msg) + "\n"
}
