package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across dsg.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldPlugin    = "plugin"
	FieldResource  = "resource"

	// Pipeline
	FieldStage = "stage"
	FieldPhase = "phase"
	FieldState = "state"

	// Synthesis
	FieldTemplate    = "template"
	FieldDeclaration = "declaration"
	FieldMember      = "member"
	FieldTopicID     = "topic_id"
	FieldTopicName   = "topic_name"

	// Files and paths
	FieldPath      = "path"
	FieldDirectory = "directory"

	// Timing and counts
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	modules.New(logger.ComponentLogger("modules"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	stageLogger := logger.ChildLogger(baseLogger, logger.FieldStage, stage.String())
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	if parent == nil {
		parent = Logger
	}
	return parent.With(keysAndValues...)
}
