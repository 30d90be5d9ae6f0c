package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Completed successfully
	SymbolFail    = "✗" // Failed
	SymbolWarning = "⚠" // Needs attention
	SymbolArrow   = "→" // Suggestion or next step
)
