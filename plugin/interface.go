// Package plugin provides the plugin architecture for dsg generation stages.
//
// A plugin contributes before and after hooks to the fixed stage sequence of
// the pipeline package. Plugins are compiled in and registered with a
// Registry; the Registry turns the enabled plugins into one hook table.
//
// Example plugins:
//   - kafka: message broker wiring (env, go.mod, compose, controller, module)
package plugin

import (
	"context"

	"github.com/teranos/dsg/pipeline"
)

// Plugin defines the interface that all generator plugins must implement.
type Plugin interface {
	// Metadata returns information about this plugin
	Metadata() Metadata

	// Register returns the plugin's hooks keyed by stage.
	// It is called once per hook table built.
	Register() pipeline.Events
}

// Initializer is an optional interface for plugins that need configuration
// or a logger before their hooks run.
type Initializer interface {
	Plugin

	// Init is called once, in registration order, before any stage runs
	Init(ctx context.Context, services ServiceRegistry) error
}

// Metadata describes a plugin
type Metadata struct {
	// Name is the plugin identifier (e.g., "kafka")
	Name string

	// Version is the plugin version (semver)
	Version string

	// GeneratorVersion is the required dsg version (semver constraint)
	GeneratorVersion string

	// Description is a human-readable description
	Description string

	// Author is the plugin author/maintainer
	Author string

	// License is the plugin license (e.g., "MIT", "Apache-2.0")
	License string
}
