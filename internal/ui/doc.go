// Package ui holds the terminal styling shared by help output, error reports
// and the developer CLI.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility, plus two accents:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings
//	ColorInfo      (cyan)   - Options
//	ColorMuted     (gray)   - Annotations such as defaults and arity
//	ColorSecondary (blue)   - Operands
//	ColorAccent    (pink)   - Headings
//	ColorLink      (cyan)   - Command names
//
// Styles are always built against a lipgloss renderer for a specific writer,
// so the color profile follows that writer (see NewRenderer). ColorNever
// and NO_COLOR produce plain text.
//
// # Symbols
//
//	SymbolSuccess  (checkmark) - Completed successfully
//	SymbolFail     (X)         - Failed
//	SymbolWarning  (triangle)  - Needs attention
//	SymbolArrow    (arrow)     - Suggestion
package ui
