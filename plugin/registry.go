package plugin

import (
	"context"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/pipeline"
)

// Registry manages all generator plugins. Registration order is kept: it is
// the order in which hooks of different plugins run on the same stage.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string
	version string // dsg version
}

// NewRegistry creates a new plugin registry
func NewRegistry(generatorVersion string) *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
		version: generatorVersion,
	}
}

// Register registers a plugin
// Returns error if plugin name conflicts or version incompatible
func (r *Registry) Register(plugin Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadata := plugin.Metadata()
	if metadata.Name == "" {
		return errors.NewInvalidInputError("plugin has no name")
	}

	// Check for name conflicts
	if _, exists := r.plugins[metadata.Name]; exists {
		return errors.Mark(errors.Newf("plugin already registered: %s", metadata.Name), errors.ErrConflict)
	}

	// Validate version compatibility
	if err := r.validateVersion(metadata); err != nil {
		return errors.Wrapf(err, "version incompatible for %s", metadata.Name)
	}

	r.plugins[metadata.Name] = plugin
	r.order = append(r.order, metadata.Name)
	return nil
}

// Get retrieves a plugin by name
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plugin, ok := r.plugins[name]
	return plugin, ok
}

// List returns all registered plugin names in registration order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// resolve returns the named plugins in registration order. A nil names
// selects every plugin.
func (r *Registry) resolve(names []string) ([]Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if names == nil {
		plugins := make([]Plugin, 0, len(r.order))
		for _, name := range r.order {
			plugins = append(plugins, r.plugins[name])
		}
		return plugins, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := r.plugins[name]; !ok {
			return nil, errors.WithHint(
				errors.NewNotFoundError("plugin %q is not registered", name),
				"run 'dsg plugins' to list available plugins",
			)
		}
		wanted[name] = true
	}

	var plugins []Plugin
	for _, name := range r.order {
		if wanted[name] {
			plugins = append(plugins, r.plugins[name])
		}
	}
	return plugins, nil
}

// InitializeAll initializes the named plugins (all when names is nil) in
// registration order
func (r *Registry) InitializeAll(ctx context.Context, names []string, services ServiceRegistry) error {
	plugins, err := r.resolve(names)
	if err != nil {
		return err
	}

	for _, p := range plugins {
		initializer, ok := p.(Initializer)
		if !ok {
			continue
		}
		if err := initializer.Init(ctx, services); err != nil {
			return errors.Wrapf(err, "failed to initialize plugin %s", p.Metadata().Name)
		}
	}
	return nil
}

// Hooks builds the hook table of the named plugins (all when names is nil)
func (r *Registry) Hooks(names []string) (*pipeline.Hooks, error) {
	plugins, err := r.resolve(names)
	if err != nil {
		return nil, err
	}

	hooks := pipeline.NewHooks()
	for _, p := range plugins {
		if err := hooks.Register(p.Metadata().Name, p.Register()); err != nil {
			return nil, err
		}
	}
	return hooks, nil
}

// validateVersion checks if plugin version is compatible with dsg version
func (r *Registry) validateVersion(metadata Metadata) error {
	if metadata.GeneratorVersion == "" {
		// No version constraint specified
		return nil
	}

	// Parse dsg version
	dsgVer, err := semver.NewVersion(r.version)
	if err != nil {
		return errors.Wrapf(err, "invalid dsg version %s", r.version)
	}

	// Parse version constraint
	constraint, err := semver.NewConstraint(metadata.GeneratorVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", metadata.GeneratorVersion)
	}

	// Check compatibility
	if !constraint.Check(dsgVer) {
		return errors.Newf("plugin requires dsg %s, but running %s", metadata.GeneratorVersion, r.version)
	}

	return nil
}
