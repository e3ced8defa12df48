// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/wasmsoak/hostabi"
)

// Instance is an instantiated guest together with the runtime that owns it.
type Instance struct {
	runtime wazero.Runtime
	module  api.Module
	tracer  oteltrace.Tracer
	log     logging.Logger
}

// Bootstrap compiles [wasm], links the bound [trampolines] under
// [hostabi.ModuleName] and instantiates the guest, running its start
// function if it has one. The returned instance must be closed.
func Bootstrap(
	ctx context.Context,
	cfg *Config,
	log logging.Logger,
	wasm []byte,
	trampolines Trampolines,
) (*Instance, error) {
	ctx, span := cfg.tracer.Start(ctx, "harness.Bootstrap", oteltrace.WithAttributes(
		attribute.Int("size", len(wasm)),
		attribute.String("engine", cfg.engine.String()),
	))
	defer span.End()

	rt := cfg.newRuntime(ctx)
	inst, err := bootstrap(ctx, rt, wasm, trampolines)
	if err != nil {
		_ = rt.Close(ctx)
		span.RecordError(err)
		return nil, err
	}

	log.Debug("guest instantiated",
		zap.Int("size", len(wasm)),
		zap.Strings("imports", trampolines.Bound()),
	)
	return &Instance{
		runtime: rt,
		module:  inst,
		tracer:  cfg.tracer,
		log:     log,
	}, nil
}

func bootstrap(ctx context.Context, rt wazero.Runtime, wasm []byte, trampolines Trampolines) (api.Module, error) {
	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	builder := rt.NewHostModuleBuilder(hostabi.ModuleName)
	trampolines.export(builder)
	if _, err := builder.Instantiate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLink, err)
	}

	// the guest has no WASI _start, only its start section runs here
	modCfg := wazero.NewModuleConfig().
		WithName("guest").
		WithStartFunctions()
	mod, err := rt.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInstantiate, err)
	}
	return mod, nil
}

// Dispatch invokes the zero-argument, zero-result export [name].
func (i *Instance) Dispatch(ctx context.Context, name string) error {
	ctx, span := i.tracer.Start(ctx, "harness.Dispatch", oteltrace.WithAttributes(
		attribute.String("export", name),
	))
	defer span.End()

	fn := i.module.ExportedFunction(name)
	if fn == nil {
		return fmt.Errorf("%w: %q", ErrExportNotFound, name)
	}
	def := fn.Definition()
	if len(def.ParamTypes()) != 0 || len(def.ResultTypes()) != 0 {
		return fmt.Errorf("%w: %q has %d params and %d results", ErrExportSignature, name, len(def.ParamTypes()), len(def.ResultTypes()))
	}

	if _, err := fn.Call(ctx); err != nil {
		span.RecordError(err)
		i.log.Debug("guest trapped",
			zap.String("export", name),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s: %w", ErrGuestTrap, name, err)
	}
	return nil
}

// Memory returns the guest's exported memory.
func (i *Instance) Memory() (hostabi.Memory, error) {
	return exportedMemory(i.module)
}

func (i *Instance) Close(ctx context.Context) error {
	return i.runtime.Close(ctx)
}
