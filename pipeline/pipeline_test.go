package pipeline

import (
	"context"
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/modules"
)

func newTestContext() *Context {
	return NewContext(
		Resource{Name: "Order Service", ModulePath: "example.com/orders"},
		Directories{Base: "server", Src: "server/internal", MessageBroker: "server/internal/broker"},
		nil,
		zap.NewNop().Sugar(),
	)
}

func moduleMap(ms ...modules.Module) *modules.Map {
	mm := modules.New(nil)
	for _, m := range ms {
		mm.Set(m)
	}
	return mm
}

func TestPhaseAndStateNames(t *testing.T) {
	assert.Equal(t, "before", PhaseBefore.String())
	assert.Equal(t, "after", PhaseAfter.String())
	assert.Equal(t, "unknown", Phase(0).String())
	assert.Equal(t, "not-run", NotRun.String())
	assert.Equal(t, "done", Done.String())
}

func TestRunStageLogsHookPhases(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dctx := NewContext(Resource{Name: "orders", ModulePath: "example.com/orders"}, Directories{}, nil, zap.New(core).Sugar())

	hooks := NewHooks()
	require.NoError(t, hooks.Register("kafka", Events{
		CreateServerDotEnv: {
			Before: func(ctx context.Context, dctx *Context, params any) (any, error) { return params, nil },
			After:  func(ctx context.Context, dctx *Context, out *Output) (*modules.Map, error) { return nil, nil },
		},
	}))

	_, err := NewDispatcher(dctx, hooks, nil).RunStage(context.Background(), CreateServerDotEnv, DotEnvParams{})
	require.NoError(t, err)

	var phases []string
	for _, entry := range logs.FilterMessage("hook").All() {
		phases = append(phases, entry.ContextMap()["phase"].(string))
		assert.Equal(t, "kafka", entry.ContextMap()["plugin"])
	}
	assert.Equal(t, []string{"before", "after"}, phases)
}

func TestStages(t *testing.T) {
	stages := Stages()
	require.Len(t, stages, 9)
	assert.Equal(t, CreateServerDotEnv, stages[0])
	assert.Equal(t, CreateMessageBroker, stages[3])
	assert.Equal(t, CreateServerAppModule, stages[8])

	for i, s := range stages {
		assert.True(t, s.Valid())
		parsed, err := ParseStage(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
		if i > 0 {
			assert.Greater(t, s, stages[i-1])
		}
	}

	parsed, err := ParseStage("createmessagebroker")
	require.NoError(t, err)
	assert.Equal(t, CreateMessageBroker, parsed)

	_, err = ParseStage("CreateServerPackageJson")
	assert.True(t, errors.Is(err, ErrUnknownStage))

	assert.False(t, Stage(42).Valid())
	assert.Equal(t, "Stage(42)", Stage(42).String())
}

func TestHooksRegister(t *testing.T) {
	noop := Hook{Before: func(ctx context.Context, dctx *Context, params any) (any, error) { return params, nil }}

	t.Run("conflict", func(t *testing.T) {
		h := NewHooks()
		require.NoError(t, h.Register("kafka", Events{CreateMessageBroker: noop}))
		err := h.Register("kafka", Events{CreateServerDotEnv: noop})
		assert.True(t, errors.Is(err, ErrHookConflict))
		assert.Empty(t, h.For(CreateServerDotEnv))
		assert.Equal(t, []string{"kafka"}, h.Owners())
	})

	t.Run("unknown stage registers nothing", func(t *testing.T) {
		h := NewHooks()
		err := h.Register("kafka", Events{CreateMessageBroker: noop, Stage(99): noop})
		assert.True(t, errors.Is(err, ErrUnknownStage))
		assert.Empty(t, h.For(CreateMessageBroker))
		assert.Empty(t, h.Owners())
	})

	t.Run("empty owner", func(t *testing.T) {
		err := NewHooks().Register("", Events{CreateMessageBroker: noop})
		assert.True(t, errors.IsInvalidInputError(err))
	})

	t.Run("registration order across owners", func(t *testing.T) {
		h := NewHooks()
		require.NoError(t, h.Register("first", Events{CreateMessageBroker: noop}))
		require.NoError(t, h.Register("second", Events{CreateMessageBroker: noop, CreateServerDotEnv: Hook{}}))

		regs := h.For(CreateMessageBroker)
		require.Len(t, regs, 2)
		assert.Equal(t, "first", regs[0].Owner)
		assert.Equal(t, "second", regs[1].Owner)
		assert.Empty(t, h.For(CreateServerDotEnv), "empty hook pairs are ignored")
	})
}

func TestRunStageBeforeReplacesParams(t *testing.T) {
	dctx := newTestContext()
	hooks := NewHooks()
	require.NoError(t, hooks.Register("a", Events{
		CreateServerDotEnv: {Before: Before(func(ctx context.Context, dctx *Context, p DotEnvParams) (DotEnvParams, error) {
			p.EnvVariables = append(p.EnvVariables, EnvVar{Key: "A", Value: "1"})
			return p, nil
		})},
	}))
	require.NoError(t, hooks.Register("b", Events{
		CreateServerDotEnv: {Before: Before(func(ctx context.Context, dctx *Context, p DotEnvParams) (DotEnvParams, error) {
			p.EnvVariables = append(p.EnvVariables, EnvVar{Key: "B", Value: "2"})
			return p, nil
		})},
	}))

	var seen DotEnvParams
	exec := ExecutorFunc(func(ctx context.Context, dctx *Context, stage Stage, params any) (*modules.Map, error) {
		seen = params.(DotEnvParams)
		return moduleMap(modules.Module{Path: "server/.env", Code: "A=1\nB=2\n"}), nil
	})

	d := NewDispatcher(dctx, hooks, exec)
	out, err := d.RunStage(context.Background(), CreateServerDotEnv, DotEnvParams{
		EnvVariables: []EnvVar{{Key: "BASE", Value: "0"}},
	})
	require.NoError(t, err)

	want := []EnvVar{{Key: "BASE", Value: "0"}, {Key: "A", Value: "1"}, {Key: "B", Value: "2"}}
	assert.Equal(t, want, seen.EnvVariables)
	assert.Equal(t, want, out.Params.(DotEnvParams).EnvVariables)
	assert.Equal(t, []string{"server/.env"}, dctx.Modules.Paths())
	assert.Equal(t, Done, d.State(CreateServerDotEnv))
}

func TestRunStageAfterMergesFragment(t *testing.T) {
	dctx := newTestContext()
	hooks := NewHooks()
	require.NoError(t, hooks.Register("kafka", Events{
		CreateMessageBrokerService: {After: After(func(ctx context.Context, dctx *Context, p BrokerServiceParams, produced *modules.Map) (*modules.Map, error) {
			assert.Equal(t, 1, produced.Len())
			return moduleMap(
				modules.Module{Path: "service.go", Code: "plugin"},
				modules.Module{Path: "extra.go", Code: "extra"},
			), nil
		})},
	}))

	exec := ExecutorFunc(func(ctx context.Context, dctx *Context, stage Stage, params any) (*modules.Map, error) {
		return moduleMap(modules.Module{Path: "service.go", Code: "host"}), nil
	})

	_, err := NewDispatcher(dctx, hooks, exec).RunStage(context.Background(), CreateMessageBrokerService, BrokerServiceParams{})
	require.NoError(t, err)

	assert.Equal(t, []modules.Module{
		{Path: "service.go", Code: "plugin"},
		{Path: "extra.go", Code: "extra"},
	}, dctx.Modules.Entries())
}

func TestRunStageStateMachine(t *testing.T) {
	dctx := newTestContext()
	hooks := NewHooks()
	var d *Dispatcher
	var observed []State

	require.NoError(t, hooks.Register("observer", Events{
		CreateMessageBroker: {
			Before: func(ctx context.Context, dctx *Context, params any) (any, error) {
				observed = append(observed, d.State(CreateMessageBroker))
				return params, nil
			},
			After: func(ctx context.Context, dctx *Context, out *Output) (*modules.Map, error) {
				observed = append(observed, d.State(CreateMessageBroker))
				return nil, nil
			},
		},
	}))
	exec := ExecutorFunc(func(ctx context.Context, dctx *Context, stage Stage, params any) (*modules.Map, error) {
		observed = append(observed, d.State(stage))
		return nil, nil
	})

	d = NewDispatcher(dctx, hooks, exec)
	assert.Equal(t, NotRun, d.State(CreateMessageBroker))

	_, err := d.RunStage(context.Background(), CreateMessageBroker, MessageBrokerParams{})
	require.NoError(t, err)
	assert.Equal(t, []State{NotRun, BeforeApplied, Executed}, observed)
	assert.Equal(t, Done, d.State(CreateMessageBroker))

	_, err = d.RunStage(context.Background(), CreateMessageBroker, MessageBrokerParams{})
	assert.True(t, errors.Is(err, ErrStageAlreadyRun))
}

func TestRunStageHaltsOnFailure(t *testing.T) {
	dctx := newTestContext()
	hooks := NewHooks()
	require.NoError(t, hooks.Register("kafka", Events{
		CreateServerAppModule: {Before: func(ctx context.Context, dctx *Context, params any) (any, error) {
			return nil, errors.Wrap(ErrUnresolvedPrerequisite, "broker module file not found")
		}},
	}))

	d := NewDispatcher(dctx, hooks, nil)
	_, err := d.RunStage(context.Background(), CreateServerAppModule, AppModuleParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedPrerequisite))
	assert.Contains(t, err.Error(), "kafka before hook of CreateServerAppModule")
	assert.Equal(t, NotRun, d.State(CreateServerAppModule))

	_, err = d.RunStage(context.Background(), CreateServerDotEnv, DotEnvParams{})
	assert.True(t, errors.Is(err, ErrHalted))
	assert.True(t, errors.Is(d.Err(), ErrUnresolvedPrerequisite))
	assert.Equal(t, 0, dctx.Modules.Len())
}

func TestRunStageExecutorFailure(t *testing.T) {
	dctx := newTestContext()
	afterCalled := false
	hooks := NewHooks()
	require.NoError(t, hooks.Register("p", Events{
		CreateServerGoMod: {After: func(ctx context.Context, dctx *Context, out *Output) (*modules.Map, error) {
			afterCalled = true
			return nil, nil
		}},
	}))
	exec := ExecutorFunc(func(ctx context.Context, dctx *Context, stage Stage, params any) (*modules.Map, error) {
		return nil, errors.New("boom")
	})

	d := NewDispatcher(dctx, hooks, exec)
	_, err := d.RunStage(context.Background(), CreateServerGoMod, GoModParams{})
	assert.ErrorContains(t, err, "boom")
	assert.False(t, afterCalled)
	assert.Equal(t, BeforeApplied, d.State(CreateServerGoMod))
}

func TestRunStageParamsTypeMismatch(t *testing.T) {
	dctx := newTestContext()
	hooks := NewHooks()
	require.NoError(t, hooks.Register("p", Events{
		CreateServerDotEnv: {Before: Before(func(ctx context.Context, dctx *Context, p DotEnvParams) (DotEnvParams, error) {
			return p, nil
		})},
	}))

	_, err := NewDispatcher(dctx, hooks, nil).RunStage(context.Background(), CreateServerDotEnv, GoModParams{})
	assert.True(t, errors.Is(err, ErrParamsType))
	assert.Contains(t, err.Error(), "pipeline.GoModParams")
}

func TestRunStageUnknownAndCancelled(t *testing.T) {
	d := NewDispatcher(newTestContext(), nil, nil)
	_, err := d.RunStage(context.Background(), Stage(0), nil)
	assert.True(t, errors.Is(err, ErrUnknownStage))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.RunStage(ctx, CreateServerDotEnv, DotEnvParams{})
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = d.RunStage(context.Background(), CreateServerGoMod, GoModParams{})
	assert.True(t, errors.Is(err, ErrHalted))
}

// A before hook redirecting the broker directory is observed verbatim by an
// after hook of a later stage.
func TestContextPropagation(t *testing.T) {
	dctx := newTestContext()
	hooks := NewHooks()
	var observed string

	require.NoError(t, hooks.Register("kafka", Events{
		CreateMessageBroker: {Before: Before(func(ctx context.Context, dctx *Context, p MessageBrokerParams) (MessageBrokerParams, error) {
			dctx.Directories.MessageBroker = path.Join(dctx.Directories.Src, "kafka")
			return p, nil
		})},
		CreateMessageBrokerService: {After: After(func(ctx context.Context, dctx *Context, p BrokerServiceParams, produced *modules.Map) (*modules.Map, error) {
			observed = dctx.Directories.MessageBroker
			return moduleMap(modules.Module{Path: path.Join(observed, "service.go"), Code: "package kafka\n"}), nil
		})},
	}))

	d := NewDispatcher(dctx, hooks, nil)
	_, err := d.RunStage(context.Background(), CreateMessageBroker, MessageBrokerParams{})
	require.NoError(t, err)
	_, err = d.RunStage(context.Background(), CreateMessageBrokerService, BrokerServiceParams{})
	require.NoError(t, err)

	assert.Equal(t, "server/internal/kafka", observed)
	_, ok := dctx.Modules.Get("server/internal/kafka/service.go")
	assert.True(t, ok)
}

func TestNewContext(t *testing.T) {
	dctx := NewContext(Resource{Name: "x"}, Directories{}, nil, nil)
	_, err := uuid.Parse(dctx.RunID)
	assert.NoError(t, err)
	assert.NotNil(t, dctx.Modules)
	assert.NotNil(t, dctx.Logger)
	assert.Nil(t, dctx.BrokerModule)

	other := NewContext(Resource{Name: "x"}, Directories{}, nil, nil)
	assert.NotEqual(t, dctx.RunID, other.RunID)
}

func TestImportPath(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		dir     string
		want    string
		wantErr bool
	}{
		{"nested", "server", "server/internal/kafka", "example.com/orders/internal/kafka", false},
		{"root", "server", "server", "example.com/orders", false},
		{"dot base", ".", "internal/kafka", "example.com/orders/internal/kafka", false},
		{"outside", "server", "client/kafka", "", true},
		{"escape", ".", "../kafka", "", true},
		{"prefix only", "server", "serverless/x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dctx := newTestContext()
			dctx.Directories.Base = tt.base
			got, err := dctx.ImportPath(tt.dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("no module path", func(t *testing.T) {
		dctx := newTestContext()
		dctx.Resource.ModulePath = ""
		_, err := dctx.ImportPath("server/internal")
		assert.True(t, errors.Is(err, ErrUnresolvedPrerequisite))
	})
}
