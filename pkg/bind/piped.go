package bind

import "github.com/rileyhilliard/pipecli/pkg/parse"

// MergePipedInput appends piped lines to the target's unbounded operand,
// after any explicit values. It reports whether anything was merged; there
// is nothing to merge into when the target has no unbounded operand.
func MergePipedInput(res *parse.Result, lines []string) bool {
	if res == nil || res.Target == nil || len(lines) == 0 {
		return false
	}
	op, ok := res.Target.UnboundedOperand()
	if !ok {
		return false
	}
	res.Append(op, lines...)
	return true
}
