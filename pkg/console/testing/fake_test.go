package testing

import (
	"errors"
	"fmt"
	gotesting "testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeConsole(t *gotesting.T) {
	c := WithInput("a", "b")
	assert.True(t, c.IsInputRedirected())

	lines, err := c.ReadRedirectedInput()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)
	assert.Equal(t, 1, c.Reads())

	fmt.Fprint(c.Out(), "out")
	fmt.Fprint(c.Err(), "err")
	assert.Equal(t, "out", c.Stdout())
	assert.Equal(t, "err", c.Stderr())
}

func TestFakeConsole_NotRedirected(t *gotesting.T) {
	c := New()
	assert.False(t, c.IsInputRedirected())
	assert.False(t, c.IsOutputTerminal())

	lines, err := c.ReadRedirectedInput()
	require.NoError(t, err)
	assert.Nil(t, lines)

	assert.True(t, WithInput().IsInputRedirected(), "empty pipe is still a pipe")
}

func TestFakeConsole_ReadError(t *gotesting.T) {
	c := WithInput("x")
	c.ReadErr = errors.New("broken pipe")
	_, err := c.ReadRedirectedInput()
	assert.EqualError(t, err, "broken pipe")
}
