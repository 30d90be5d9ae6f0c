package console

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "trailing newline", input: "a\nb\n", want: []string{"a", "b"}},
		{name: "no trailing newline", input: "a\nb", want: []string{"a", "b"}},
		{name: "crlf", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "blank lines kept", input: "a\n\nb\n", want: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLines(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSystemConsole_PipedInput(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	_, err = w.WriteString("a\nb\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	c := New(r, nil, nil)
	assert.True(t, c.IsInputRedirected())
	assert.False(t, c.IsOutputTerminal())

	lines, err := c.ReadRedirectedInput()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestSystemConsole_NoInput(t *testing.T) {
	c := New(nil, nil, nil)
	assert.False(t, c.IsInputRedirected())

	lines, err := c.ReadRedirectedInput()
	require.NoError(t, err)
	assert.Nil(t, lines)
}
