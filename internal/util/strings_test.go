package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinOrNone(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		want    string
	}{
		{name: "no allowed values", allowed: nil, want: "(none)"},
		{name: "declared but empty", allowed: []string{}, want: "(none)"},
		{name: "single level", allowed: []string{"debug"}, want: "debug"},
		{name: "colors in declaration order", allowed: []string{"red", "blue", "green"}, want: "red, blue, green"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinOrNone(tt.allowed))
		})
	}
}

func TestJoinOrDefault(t *testing.T) {
	assert.Equal(t, "(no subcommands)", JoinOrDefault(nil, "(no subcommands)"))
	assert.Equal(t, "", JoinOrDefault([]string{}, ""))
	assert.Equal(t, "add, remove", JoinOrDefault([]string{"add", "remove"}, "(no subcommands)"))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		min  int
		want string
	}{
		{min: 0, want: "values"},
		{min: 1, want: "value"},
		{min: 2, want: "values"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Pluralize(tt.min, "value", "values"), "min %d", tt.min)
	}
}

func TestQuoteList(t *testing.T) {
	assert.Equal(t, "[]", QuoteList(nil), "no remaining tokens")
	assert.Equal(t, `["--", "-x"]`, QuoteList([]string{"--", "-x"}))
	assert.Equal(t, `["Jane Doe"]`, QuoteList([]string{"Jane Doe"}), "spaces stay inside one value")
	assert.Equal(t, `["say \"hi\""]`, QuoteList([]string{`say "hi"`}))
}
