// Package pipeline is the middleware engine that drives one execution from
// raw arguments to an exit code.
package pipeline

import "fmt"

// Stage is a named phase of the pipeline. Middleware registered for a stage
// runs after every middleware of earlier stages.
type Stage int

const (
	StagePreTokenize Stage = iota
	StageTokenize
	StageParseInput
	StagePostParseInputPreBindValues
	StageBindValues
	StageInvoke
)

var stageNames = map[Stage]string{
	StagePreTokenize:                 "PreTokenize",
	StageTokenize:                    "Tokenize",
	StageParseInput:                  "ParseInput",
	StagePostParseInputPreBindValues: "PostParseInputPreBindValues",
	StageBindValues:                  "BindValues",
	StageInvoke:                      "Invoke",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// DefaultStages returns the default stage order.
func DefaultStages() []Stage {
	return []Stage{
		StagePreTokenize,
		StageTokenize,
		StageParseInput,
		StagePostParseInputPreBindValues,
		StageBindValues,
		StageInvoke,
	}
}
