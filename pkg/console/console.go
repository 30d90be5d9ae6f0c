// Package console abstracts the process's standard streams so the pipeline
// can detect redirected input and write output without touching os directly.
package console

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console is the I/O collaborator of an execution.
type Console interface {
	Out() io.Writer
	Err() io.Writer
	// IsInputRedirected reports whether stdin is a pipe or file rather than
	// a terminal.
	IsInputRedirected() bool
	// ReadRedirectedInput reads all remaining input lines. It returns nil
	// when input is not redirected.
	ReadRedirectedInput() ([]string, error)
	// IsOutputTerminal reports whether stdout is attached to a terminal.
	IsOutputTerminal() bool
}

// File is the subset of *os.File the system console needs.
type File interface {
	io.Reader
	Fd() uintptr
}

type systemConsole struct {
	in  File
	out *os.File
	err *os.File
}

// System returns the console of the current process.
func System() Console {
	return New(os.Stdin, os.Stdout, os.Stderr)
}

// New returns a console over the given files.
func New(in File, out, errOut *os.File) Console {
	return &systemConsole{in: in, out: out, err: errOut}
}

func (c *systemConsole) Out() io.Writer { return c.out }
func (c *systemConsole) Err() io.Writer { return c.err }

func (c *systemConsole) IsInputRedirected() bool {
	if c.in == nil {
		return false
	}
	if term.IsTerminal(int(c.in.Fd())) {
		return false
	}
	// /dev/null is a character device, not input.
	f, ok := c.in.(*os.File)
	if !ok {
		return true
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

func (c *systemConsole) ReadRedirectedInput() ([]string, error) {
	if !c.IsInputRedirected() {
		return nil, nil
	}
	return ReadLines(c.in)
}

func (c *systemConsole) IsOutputTerminal() bool {
	return c.out != nil && term.IsTerminal(int(c.out.Fd()))
}

// ReadLines reads r to the end and returns its lines without line endings.
// A trailing empty line is dropped.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
