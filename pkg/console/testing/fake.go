// Package testing provides an in-memory console for tests.
package testing

import (
	"bytes"
	"io"
	"sync"

	"github.com/rileyhilliard/pipecli/pkg/console"
)

// FakeConsole is an in-memory console. Input is redirected when Input is
// non-nil.
type FakeConsole struct {
	// Input holds the piped lines; nil means stdin is a terminal.
	Input []string
	// Terminal controls IsOutputTerminal.
	Terminal bool
	// ReadErr, when set, is returned by ReadRedirectedInput.
	ReadErr error

	mu     sync.Mutex
	reads  int
	stdout bytes.Buffer
	stderr bytes.Buffer
}

var _ console.Console = (*FakeConsole)(nil)

// New returns a fake console with no piped input.
func New() *FakeConsole {
	return &FakeConsole{}
}

// WithInput returns a fake console whose stdin carries lines.
func WithInput(lines ...string) *FakeConsole {
	if lines == nil {
		lines = []string{}
	}
	return &FakeConsole{Input: lines}
}

func (f *FakeConsole) Out() io.Writer { return &lockedWriter{mu: &f.mu, buf: &f.stdout} }
func (f *FakeConsole) Err() io.Writer { return &lockedWriter{mu: &f.mu, buf: &f.stderr} }

func (f *FakeConsole) IsInputRedirected() bool { return f.Input != nil }

func (f *FakeConsole) ReadRedirectedInput() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	if f.Input == nil {
		return nil, nil
	}
	return append([]string(nil), f.Input...), nil
}

func (f *FakeConsole) IsOutputTerminal() bool { return f.Terminal }

// Stdout returns everything written to Out.
func (f *FakeConsole) Stdout() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stdout.String()
}

// Stderr returns everything written to Err.
func (f *FakeConsole) Stderr() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stderr.String()
}

// Reads returns how many times the piped input was read.
func (f *FakeConsole) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

type lockedWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
