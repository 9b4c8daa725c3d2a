package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/logger"
	"github.com/teranos/dsg/modules"
)

// Executor runs the logic of a stage itself, between its hooks
type Executor interface {
	Execute(ctx context.Context, dctx *Context, stage Stage, params any) (*modules.Map, error)
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc func(ctx context.Context, dctx *Context, stage Stage, params any) (*modules.Map, error)

func (f ExecutorFunc) Execute(ctx context.Context, dctx *Context, stage Stage, params any) (*modules.Map, error) {
	return f(ctx, dctx, stage, params)
}

// Dispatcher runs stages of one run. Each stage runs at most once and the
// first failure halts the run: every later RunStage returns ErrHalted.
type Dispatcher struct {
	dctx   *Context
	hooks  *Hooks
	exec   Executor
	states map[Stage]State
	failed error
	logger *zap.SugaredLogger
}

// NewDispatcher binds hooks and an executor to a run context. A nil executor
// runs no stage logic; hooks still run.
func NewDispatcher(dctx *Context, hooks *Hooks, exec Executor) *Dispatcher {
	if hooks == nil {
		hooks = NewHooks()
	}
	return &Dispatcher{
		dctx:   dctx,
		hooks:  hooks,
		exec:   exec,
		states: make(map[Stage]State),
		logger: dctx.Logger.Named("pipeline"),
	}
}

// State returns how far a stage has progressed
func (d *Dispatcher) State(stage Stage) State {
	return d.states[stage]
}

// Err returns the failure that halted the run, if any
func (d *Dispatcher) Err() error {
	return d.failed
}

// RunStage runs the before hooks of stage in order, each receiving the
// parameters returned by the previous one, then the stage itself, then the
// after hooks. Modules the stage and its after hooks return are merged into
// the Context's Module Map.
func (d *Dispatcher) RunStage(ctx context.Context, stage Stage, params any) (*Output, error) {
	if d.failed != nil {
		return nil, errors.WithSecondaryError(
			errors.Wrapf(ErrHalted, "cannot run %s", stage), d.failed)
	}
	if !stage.Valid() {
		return nil, errors.Wrapf(ErrUnknownStage, "%s", stage)
	}
	if d.states[stage] != NotRun {
		return nil, errors.Wrapf(ErrStageAlreadyRun, "%s is %s", stage, d.states[stage])
	}
	if err := ctx.Err(); err != nil {
		return nil, d.halt(stage, errors.Wrap(err, "run cancelled"))
	}

	start := time.Now()
	log := d.logger.With(logger.FieldStage, stage.String())
	registrations := d.hooks.For(stage)

	for _, reg := range registrations {
		if reg.Hook.Before == nil {
			continue
		}
		log.Debugw("hook", logger.FieldPhase, PhaseBefore.String(), logger.FieldPlugin, reg.Owner)
		next, err := reg.Hook.Before(ctx, d.dctx, params)
		if err != nil {
			return nil, d.halt(stage, errors.Wrapf(err, "%s before hook of %s", reg.Owner, stage))
		}
		params = next
	}
	d.states[stage] = BeforeApplied

	var produced *modules.Map
	if d.exec != nil {
		var err error
		produced, err = d.exec.Execute(ctx, d.dctx, stage, params)
		if err != nil {
			return nil, d.halt(stage, errors.Wrapf(err, "stage %s", stage))
		}
	}
	if produced == nil {
		produced = modules.New(d.dctx.Logger)
	}
	d.dctx.Modules.Merge(produced)
	d.states[stage] = Executed

	out := &Output{Stage: stage, Params: params, Modules: produced}
	for _, reg := range registrations {
		if reg.Hook.After == nil {
			continue
		}
		log.Debugw("hook", logger.FieldPhase, PhaseAfter.String(), logger.FieldPlugin, reg.Owner)
		fragment, err := reg.Hook.After(ctx, d.dctx, out)
		if err != nil {
			return nil, d.halt(stage, errors.Wrapf(err, "%s after hook of %s", reg.Owner, stage))
		}
		d.dctx.Modules.Merge(fragment)
	}
	d.states[stage] = AfterApplied

	d.states[stage] = Done
	log.Infow("stage done",
		logger.FieldCount, produced.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (d *Dispatcher) halt(stage Stage, err error) error {
	d.failed = err
	d.logger.Errorw("stage failed", logger.FieldStage, stage.String(), logger.FieldError, err.Error())
	return err
}
