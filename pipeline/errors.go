package pipeline

import "github.com/teranos/dsg/errors"

var (
	// ErrUnknownStage means a stage name or value outside the closed set
	ErrUnknownStage = errors.New("unknown stage")

	// ErrHookConflict means a plugin registered its hooks twice
	ErrHookConflict = errors.New("hook conflict")

	// ErrStageAlreadyRun means a stage was dispatched a second time in one run
	ErrStageAlreadyRun = errors.New("stage already run")

	// ErrHalted means an earlier stage failed and the run cannot continue
	ErrHalted = errors.New("pipeline halted")

	// ErrParamsType means a hook received parameters of the wrong type
	ErrParamsType = errors.New("unexpected stage parameter type")

	// ErrUnresolvedPrerequisite means a hook needs a Context field that an
	// earlier stage should have populated, and it is absent
	ErrUnresolvedPrerequisite = errors.New("unresolved prerequisite")
)
