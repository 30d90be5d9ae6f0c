package ui

import (
	"strings"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Name    string // Program name
	Version string // Version string (e.g., "v0.4.0")
	Tagline string // Optional tagline
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the program name and version, an optional tagline
// and a divider.
func RenderHeader(s Styles, info HeaderInfo) string {
	var output strings.Builder

	output.WriteString(s.Heading.Render(info.Name))
	if info.Version != "" {
		output.WriteString(" ")
		output.WriteString(s.Command.Render(info.Version))
	}
	output.WriteString("\n")

	if info.Tagline != "" {
		output.WriteString(s.Operand.Render(info.Tagline))
		output.WriteString("\n")
	}

	output.WriteString(s.Muted.Render(strings.Repeat("━", HeaderWidth)))
	output.WriteString("\n")
	return output.String()
}
