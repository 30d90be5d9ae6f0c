package util

import "strings"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
func ShellQuote(s string) string {
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ShellJoin renders an argument vector the way it would be typed, quoting
// only the arguments that need it.
func ShellJoin(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n'\"\\$`*?;&|<>()") {
			parts[i] = ShellQuote(a)
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
