// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sandbox

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/ava-labs/wasmsoak/hostabi"
)

var _ Contract = (*WasmContract)(nil)

// WasmContract runs a deployed module natively on wasmtime. Every call
// instantiates the module in a fresh store with its own fuel.
type WasmContract struct {
	id      ids.ID
	wasm    []byte
	sandbox *Sandbox
}

func (c *WasmContract) Call(ctx context.Context, method string, host hostabi.Host) error {
	_, err := c.callMetered(ctx, method, host)
	return err
}

func (c *WasmContract) callMetered(_ context.Context, method string, host hostabi.Host) (uint64, error) {
	mod, err := c.sandbox.getModule(c.id, c.wasm)
	if err != nil {
		return 0, err
	}

	cfg := c.sandbox.cfg
	store := wasmtime.NewStore(c.sandbox.engine)
	store.Limiter(
		cfg.limitMaxMemory,
		defaultLimitMaxTableElements,
		defaultLimitMaxInstances,
		defaultLimitMaxTables,
		defaultLimitMaxMemories,
	)
	store.SetEpochDeadline(1)
	if err := store.AddFuel(cfg.maxFuel); err != nil {
		return 0, err
	}

	imports := newImportModule(host)
	linker, err := imports.createLinker(c.sandbox.engine)
	if err != nil {
		return 0, err
	}
	inst, err := linker.Instantiate(store, mod)
	if err != nil {
		return fuelConsumed(store), fmt.Errorf("%w: %w", ErrInstantiate, callError(imports, err))
	}

	fn := inst.GetFunc(store, method)
	if fn == nil {
		return fuelConsumed(store), fmt.Errorf("%w: %q", ErrMethodNotFound, method)
	}
	fnType := fn.Type(store)
	if len(fnType.Params()) != 0 || len(fnType.Results()) != 0 {
		return fuelConsumed(store), fmt.Errorf("%w: %q", ErrMethodSignature, method)
	}

	_, err = fn.Call(store)
	if err != nil {
		return fuelConsumed(store), callError(imports, err)
	}
	return fuelConsumed(store), nil
}

// callError prefers the error of a failing host function over the trap it
// was turned into.
func callError(imports *importModule, err error) error {
	if imports.err != nil {
		return fmt.Errorf("%w: %w", ErrHostFunction, imports.err)
	}
	return handleTrapError(err)
}

func fuelConsumed(store *wasmtime.Store) uint64 {
	consumed, _ := store.FuelConsumed()
	return consumed
}
