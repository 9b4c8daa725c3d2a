// Package pipeline runs the fixed sequence of generation stages and lets
// plugins intercept each one through before and after hooks.
//
// Stage order is fixed and so is the coupling between hooks: a hook may only
// rely on Context fields populated by stages earlier in Stages(). The
// sequence and its dependencies:
//
//	CreateServerDotEnv
//	CreateServerGoMod
//	CreateServerDockerComposeDev
//	CreateMessageBroker                      may redirect Directories.MessageBroker
//	CreateMessageBrokerTopicsEnum            reads Directories.MessageBroker
//	CreateMessageBrokerClientOptionsFactory  reads Directories.MessageBroker
//	CreateMessageBrokerModule                reads Directories.MessageBroker, may set BrokerModule
//	CreateMessageBrokerService               reads Directories.MessageBroker
//	CreateServerAppModule                    reads BrokerModule
package pipeline

import (
	"strconv"
	"strings"

	"github.com/teranos/dsg/errors"
)

// Stage identifies one generation step. The set of stages is closed.
type Stage int

const (
	CreateServerDotEnv Stage = iota + 1
	CreateServerGoMod
	CreateServerDockerComposeDev
	CreateMessageBroker
	CreateMessageBrokerTopicsEnum
	CreateMessageBrokerClientOptionsFactory
	CreateMessageBrokerModule
	CreateMessageBrokerService
	CreateServerAppModule
)

var stageNames = map[Stage]string{
	CreateServerDotEnv:                      "CreateServerDotEnv",
	CreateServerGoMod:                       "CreateServerGoMod",
	CreateServerDockerComposeDev:            "CreateServerDockerComposeDev",
	CreateMessageBroker:                     "CreateMessageBroker",
	CreateMessageBrokerTopicsEnum:           "CreateMessageBrokerTopicsEnum",
	CreateMessageBrokerClientOptionsFactory: "CreateMessageBrokerClientOptionsFactory",
	CreateMessageBrokerModule:               "CreateMessageBrokerModule",
	CreateMessageBrokerService:              "CreateMessageBrokerService",
	CreateServerAppModule:                   "CreateServerAppModule",
}

// Stages returns every stage in run order
func Stages() []Stage {
	return []Stage{
		CreateServerDotEnv,
		CreateServerGoMod,
		CreateServerDockerComposeDev,
		CreateMessageBroker,
		CreateMessageBrokerTopicsEnum,
		CreateMessageBrokerClientOptionsFactory,
		CreateMessageBrokerModule,
		CreateMessageBrokerService,
		CreateServerAppModule,
	}
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "Stage(" + strconv.Itoa(int(s)) + ")"
}

// Valid reports whether s is one of the known stages
func (s Stage) Valid() bool {
	_, ok := stageNames[s]
	return ok
}

// ParseStage returns the stage with the given name, ignoring case
func ParseStage(name string) (Stage, error) {
	for stage, n := range stageNames {
		if strings.EqualFold(n, name) {
			return stage, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownStage, "%q", name)
}

// Phase is the side of a stage a hook runs on
type Phase int

const (
	PhaseBefore Phase = iota + 1
	PhaseAfter
)

func (p Phase) String() string {
	switch p {
	case PhaseBefore:
		return "before"
	case PhaseAfter:
		return "after"
	default:
		return "unknown"
	}
}

// State is the progress of a single stage within a run
type State int

const (
	NotRun State = iota
	BeforeApplied
	Executed
	AfterApplied
	Done
)

func (s State) String() string {
	switch s {
	case NotRun:
		return "not-run"
	case BeforeApplied:
		return "before-applied"
	case Executed:
		return "executed"
	case AfterApplied:
		return "after-applied"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}
