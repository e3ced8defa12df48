// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sandbox is the outer sandbox contracts are deployed into. It exposes
// the register ABI to every call and collects the logs the call emits.
package sandbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/bytecodealliance/wasmtime-go/v14"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/wasmsoak/hostabi"
	"github.com/ava-labs/wasmsoak/utils"
)

// goContractPrefix derives the ids of Go contracts, keeping them apart from
// wasm contract ids and from the ids.Empty.Prefix space.
var goContractPrefix = utils.ToID([]byte("wasmsoak/go-contract"))

// Contract is code deployed into the sandbox. It sees the sandbox only
// through [host], which is scoped to a single call.
type Contract interface {
	Call(ctx context.Context, method string, host hostabi.Host) error
}

// meteredContract reports the fuel a call consumed.
type meteredContract interface {
	callMetered(ctx context.Context, method string, host hostabi.Host) (uint64, error)
}

// Outcome is the observable result of a call.
type Outcome struct {
	Logs    []string
	Fuel    uint64
	Elapsed time.Duration
}

type compiledModule struct {
	module *wasmtime.Module
	size   int
}

type Sandbox struct {
	log     logging.Logger
	cfg     *Config
	engine  *wasmtime.Engine
	metrics *metrics

	moduleCache cache.Cacher[ids.ID, *compiledModule]

	lock      sync.RWMutex
	contracts map[ids.ID]Contract
	deployed  uint64
}

func New(cfg *Config, log logging.Logger, registerer prometheus.Registerer) (*Sandbox, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Sandbox{
		log:     log,
		cfg:     cfg,
		engine:  wasmtime.NewEngineWithConfig(cfg.wasmConfig),
		metrics: m,
		moduleCache: cache.NewSizedLRU(cfg.moduleCacheSize, func(id ids.ID, mod *compiledModule) int {
			return len(id) + mod.size
		}),
		contracts: map[ids.ID]Contract{},
	}, nil
}

// Deploy registers a Go contract and returns its id.
func (s *Sandbox) Deploy(contract Contract) ids.ID {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.deployed++
	id := goContractPrefix.Prefix(s.deployed)
	s.contracts[id] = contract
	s.metrics.deployed.Set(float64(len(s.contracts)))
	s.log.Debug("deployed contract", zap.Stringer("id", id))
	return id
}

// DeployWasm compiles [wasm] and registers it as a native contract. The id
// is the SHA-256 of the bytecode, deploying the same module twice yields the
// same contract.
func (s *Sandbox) DeployWasm(wasm []byte) (ids.ID, error) {
	id := utils.ToID(wasm)
	if _, err := s.getModule(id, wasm); err != nil {
		return ids.Empty, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.contracts[id] = &WasmContract{
		id:      id,
		wasm:    wasm,
		sandbox: s,
	}
	s.metrics.deployed.Set(float64(len(s.contracts)))
	s.log.Debug("deployed wasm contract",
		zap.Stringer("id", id),
		zap.Int("size", len(wasm)),
	)
	return id, nil
}

// Call invokes [method] of contract [id] with [args] as its input. The
// outcome is returned even when the call fails and holds the logs emitted
// before the failure.
func (s *Sandbox) Call(ctx context.Context, id ids.ID, method string, args []byte) (*Outcome, error) {
	ctx, span := s.cfg.tracer.Start(ctx, "sandbox.Call", oteltrace.WithAttributes(
		attribute.Stringer("contract", id),
		attribute.String("method", method),
		attribute.Int("args", len(args)),
	))
	defer span.End()

	s.lock.RLock()
	contract, ok := s.contracts[id]
	s.lock.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, id)
	}

	var (
		state = newCallState(args)
		start = time.Now()
		fuel  uint64
		err   error
	)
	if metered, ok := contract.(meteredContract); ok {
		fuel, err = metered.callMetered(ctx, method, state)
	} else {
		err = contract.Call(ctx, method, state)
	}
	outcome := &Outcome{
		Logs:    state.logs,
		Fuel:    fuel,
		Elapsed: time.Since(start),
	}
	s.metrics.recordCall(outcome.Elapsed, fuel, err)

	if err != nil {
		span.RecordError(err)
		s.log.Debug("call failed",
			zap.Stringer("contract", id),
			zap.String("method", method),
			zap.Strings("logs", outcome.Logs),
			zap.Error(err),
		)
		return outcome, err
	}
	s.log.Debug("call succeeded",
		zap.Stringer("contract", id),
		zap.String("method", method),
		zap.Uint64("fuel", fuel),
		zap.Duration("elapsed", outcome.Elapsed),
		zap.Uint64s("registers", state.registers.IDs()),
	)
	return outcome, nil
}

func (s *Sandbox) getModule(id ids.ID, wasm []byte) (*wasmtime.Module, error) {
	if mod, ok := s.moduleCache.Get(id); ok {
		return mod.module, nil
	}
	mod, err := wasmtime.NewModule(s.engine, wasm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModule, err)
	}
	s.moduleCache.Put(id, &compiledModule{
		module: mod,
		size:   len(wasm),
	})
	return mod, nil
}
