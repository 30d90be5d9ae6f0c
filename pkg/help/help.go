// Package help renders usage text for a command.
package help

import (
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/pipecli/internal/ui"
	"github.com/rileyhilliard/pipecli/internal/util"
	"github.com/rileyhilliard/pipecli/pkg/command"
)

// Renderer writes help for a command.
type Renderer interface {
	Render(w io.Writer, cmd *command.Command) error
}

// TextRenderer renders plain-text help styled with lipgloss.
type TextRenderer struct {
	Styles ui.Styles
	// HelpOptions and VersionOption describe the implicit options so they
	// can be listed alongside the declared ones.
	HelpOptions   []string
	VersionOption string
}

// NewTextRenderer returns a renderer using the given styles and the default
// implicit options.
func NewTextRenderer(styles ui.Styles) *TextRenderer {
	return &TextRenderer{
		Styles:        styles,
		HelpOptions:   []string{"-h", "--help", "-?"},
		VersionOption: "--version",
	}
}

type row struct {
	label  string
	styled string
	detail string
}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, cmd *command.Command) error {
	var b strings.Builder
	s := r.Styles

	b.WriteString(s.Heading.Render("Usage:"))
	b.WriteString(" ")
	b.WriteString(r.usage(cmd))
	b.WriteString("\n")

	if cmd.Description() != "" {
		b.WriteString("\n")
		b.WriteString(cmd.Description())
		b.WriteString("\n")
	}

	var operands []row
	for _, op := range cmd.Operands() {
		label := operandLabel(op)
		operands = append(operands, row{label: label, styled: s.Operand.Render(label), detail: r.detail(op)})
	}
	r.section(&b, "Operands:", operands)

	var options []row
	for _, opt := range cmd.VisibleOptions() {
		label := opt.Template()
		if !opt.IsFlag() {
			label += " <" + string(opt.Type()) + ">"
		}
		options = append(options, row{label: label, styled: s.Option.Render(label), detail: r.detail(opt)})
	}
	if len(r.HelpOptions) > 0 {
		label := strings.Join(r.HelpOptions, "|")
		options = append(options, row{label: label, styled: s.Option.Render(label), detail: "Show help and exit"})
	}
	if cmd.IsRoot() && r.VersionOption != "" {
		options = append(options, row{label: r.VersionOption, styled: s.Option.Render(r.VersionOption), detail: "Show version and exit"})
	}
	r.section(&b, "Options:", options)

	var commands []row
	for _, child := range cmd.Children() {
		commands = append(commands, row{label: child.Name(), styled: s.Command.Render(child.Name()), detail: child.Description()})
	}
	r.section(&b, "Commands:", commands)

	if len(commands) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render(fmt.Sprintf("Use \"%s <command> --help\" for more information about a command.", cmd.FullName())))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *TextRenderer) usage(cmd *command.Command) string {
	parts := []string{r.Styles.Command.Render(cmd.FullName())}
	if len(cmd.Children()) > 0 {
		if cmd.Handler() == nil {
			parts = append(parts, "<command>")
		} else {
			parts = append(parts, "[command]")
		}
	}
	for _, op := range cmd.Operands() {
		label := operandLabel(op)
		if op.Arity().Min == 0 {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	if len(cmd.VisibleOptions()) > 0 {
		parts = append(parts, "[options]")
	}
	return strings.Join(parts, " ")
}

func (r *TextRenderer) section(b *strings.Builder, title string, rows []row) {
	if len(rows) == 0 {
		return
	}
	width := 0
	for _, rw := range rows {
		width = max(width, len(rw.label))
	}

	b.WriteString("\n")
	b.WriteString(r.Styles.Heading.Render(title))
	b.WriteString("\n")
	for _, rw := range rows {
		line := "  " + rw.styled
		if rw.detail != "" {
			line += strings.Repeat(" ", width-len(rw.label)+2) + rw.detail
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// detail is the description followed by arity, default and allowed values.
func (r *TextRenderer) detail(arg command.Argument) string {
	var notes []string
	a := arg.Arity()
	if a.AllowsMany() || (arg.Kind() == command.KindOption && a.Min > 0) {
		notes = append(notes, "arity "+a.String())
	}
	if def, ok := arg.Default(); ok {
		notes = append(notes, "default: "+command.Format(def))
	}
	if allowed := arg.AllowedValues(); len(allowed) > 0 {
		notes = append(notes, "allowed: "+util.JoinOrNone(allowed))
	}

	text := arg.Description()
	if len(notes) > 0 {
		annotation := r.Styles.Muted.Render("(" + strings.Join(notes, "; ") + ")")
		if text == "" {
			return annotation
		}
		text += " " + annotation
	}
	return text
}

func operandLabel(op *command.Operand) string {
	label := "<" + op.Name() + ">"
	if op.Arity().AllowsMany() {
		label += "..."
	}
	return label
}

// All renders help for cmd and every command below it, depth first,
// separated by blank lines.
func All(w io.Writer, r Renderer, cmd *command.Command) error {
	var err error
	first := true
	cmd.Walk(func(c *command.Command) {
		if err != nil {
			return
		}
		if !first {
			if _, err = io.WriteString(w, "\n"); err != nil {
				return
			}
		}
		first = false
		err = r.Render(w, c)
	})
	return err
}
