package pipeline

import (
	"context"
	"sort"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/modules"
)

// BeforeFunc receives a stage's parameters and returns the parameters the
// stage actually runs with.
type BeforeFunc func(ctx context.Context, dctx *Context, params any) (any, error)

// AfterFunc receives a stage's output and may return modules to merge into
// the run's Module Map. A nil map adds nothing.
type AfterFunc func(ctx context.Context, dctx *Context, out *Output) (*modules.Map, error)

// Output is what a stage produced
type Output struct {
	Stage Stage
	// Params are the parameters the stage ran with, after every before hook
	Params any
	// Modules are the files the stage itself generated
	Modules *modules.Map
}

// Hook is the optional before/after pair a plugin attaches to one stage
type Hook struct {
	Before BeforeFunc
	After  AfterFunc
}

// Events maps stages to a plugin's hooks. A map key can only appear once,
// so a plugin has at most one hook pair per stage.
type Events map[Stage]Hook

// Before adapts a typed before hook. The hook fails with ErrParamsType when
// the stage passes parameters of another type.
func Before[P any](fn func(ctx context.Context, dctx *Context, params P) (P, error)) BeforeFunc {
	return func(ctx context.Context, dctx *Context, params any) (any, error) {
		typed, ok := params.(P)
		if !ok {
			var want P
			return nil, errors.Wrapf(ErrParamsType, "got %T, want %T", params, want)
		}
		return fn(ctx, dctx, typed)
	}
}

// After adapts a typed after hook, see Before
func After[P any](fn func(ctx context.Context, dctx *Context, params P, produced *modules.Map) (*modules.Map, error)) AfterFunc {
	return func(ctx context.Context, dctx *Context, out *Output) (*modules.Map, error) {
		typed, ok := out.Params.(P)
		if !ok {
			var want P
			return nil, errors.Wrapf(ErrParamsType, "got %T, want %T", out.Params, want)
		}
		return fn(ctx, dctx, typed, out.Modules)
	}
}

// Registration is one plugin's hook on one stage
type Registration struct {
	Owner string
	Hook  Hook
}

// Hooks collects hook registrations. Hooks of different plugins on the same
// stage run in plugin registration order.
type Hooks struct {
	owners  []string
	byStage map[Stage][]Registration
}

// NewHooks returns an empty registry
func NewHooks() *Hooks {
	return &Hooks{byStage: make(map[Stage][]Registration)}
}

// Register adds all events of owner. A second registration for the same
// owner is rejected rather than overwriting the first, as is any unknown
// stage. Nothing is registered on error.
func (h *Hooks) Register(owner string, events Events) error {
	if owner == "" {
		return errors.NewInvalidInputError("hook owner must not be empty")
	}
	for _, o := range h.owners {
		if o == owner {
			return errors.WithHint(
				errors.Wrapf(ErrHookConflict, "hooks for %s are already registered", owner),
				"a plugin registers all of its stages in a single Events map",
			)
		}
	}

	stages := make([]Stage, 0, len(events))
	for stage, hook := range events {
		if !stage.Valid() {
			return errors.Wrapf(ErrUnknownStage, "%s registered a hook on %s", owner, stage)
		}
		if hook.Before == nil && hook.After == nil {
			continue
		}
		stages = append(stages, stage)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })

	h.owners = append(h.owners, owner)
	for _, stage := range stages {
		h.byStage[stage] = append(h.byStage[stage], Registration{Owner: owner, Hook: events[stage]})
	}
	return nil
}

// For returns the registrations of a stage in run order
func (h *Hooks) For(stage Stage) []Registration {
	return append([]Registration(nil), h.byStage[stage]...)
}

// Owners returns the registered owners in registration order
func (h *Hooks) Owners() []string {
	return append([]string(nil), h.owners...)
}
