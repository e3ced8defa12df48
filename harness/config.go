// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"go.opentelemetry.io/otel/trace/noop"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/wasmsoak/hostabi"
)

// Engine selects how the embedded runtime executes guest bytecode.
type Engine uint8

const (
	// EngineInterpreter executes guests with wazero's bytecode interpreter.
	EngineInterpreter Engine = iota
	// EngineCompiler compiles guests to native code ahead of execution.
	EngineCompiler
)

func (e Engine) String() string {
	switch e {
	case EngineInterpreter:
		return "interpreter"
	case EngineCompiler:
		return "compiler"
	default:
		return fmt.Sprintf("unknown(%d)", e)
	}
}

// ParseEngine is the inverse of [Engine.String].
func ParseEngine(s string) (Engine, error) {
	switch s {
	case "interpreter", "":
		return EngineInterpreter, nil
	case "compiler":
		return EngineCompiler, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidEngine, s)
	}
}

const maxMemoryLimitPages = 65536

var (
	DefaultEngine           = EngineInterpreter
	DefaultEntryPoint       = hostabi.EntryPoint
	DefaultMemoryLimitPages = uint32(256) // 16 MiB
)

// Config is the immutable configuration of an embedding contract.
type Config struct {
	engine           Engine
	entryPoint       string
	memoryLimitPages uint32
	features         Features
	tracer           oteltrace.Tracer
}

// NewConfig returns a config with default settings.
func NewConfig() *Config {
	cfg, _ := NewConfigBuilder().Build()
	return cfg
}

func (c *Config) Engine() Engine {
	return c.engine
}

func (c *Config) EntryPoint() string {
	return c.entryPoint
}

func (c *Config) MemoryLimitPages() uint32 {
	return c.memoryLimitPages
}

func (c *Config) Features() Features {
	return c.features
}

func (c *Config) newRuntime(ctx context.Context) wazero.Runtime {
	var rcfg wazero.RuntimeConfig
	switch c.engine {
	case EngineCompiler:
		rcfg = wazero.NewRuntimeConfigCompiler()
	default:
		rcfg = wazero.NewRuntimeConfigInterpreter()
	}
	rcfg = rcfg.WithMemoryLimitPages(c.memoryLimitPages).WithCloseOnContextDone(true)
	return wazero.NewRuntimeWithConfig(ctx, rcfg)
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		engine:           DefaultEngine,
		entryPoint:       DefaultEntryPoint,
		memoryLimitPages: DefaultMemoryLimitPages,
		features:         DefaultFeatures(),
	}
}

type ConfigBuilder struct {
	engine           Engine
	entryPoint       string
	memoryLimitPages uint32
	features         Features
	tracer           oteltrace.Tracer
}

// WithEngine defines how guests are executed.
//
// Default is EngineInterpreter.
func (b *ConfigBuilder) WithEngine(engine Engine) *ConfigBuilder {
	b.engine = engine
	return b
}

// WithEntryPoint defines the guest export invoked by the dispatcher. It must
// take no arguments and return no results.
//
// Default is `cpu_ram_soak`.
func (b *ConfigBuilder) WithEntryPoint(name string) *ConfigBuilder {
	b.entryPoint = name
	return b
}

// WithMemoryLimitPages defines the maximum number of 64 KiB pages a guest
// memory may grow to.
func (b *ConfigBuilder) WithMemoryLimitPages(pages uint32) *ConfigBuilder {
	b.memoryLimitPages = pages
	return b
}

// WithFeatures selects which host functions are bound and where they
// terminate.
func (b *ConfigBuilder) WithFeatures(features Features) *ConfigBuilder {
	b.features = features
	return b
}

// WithTracer defines the tracer used for bootstrap and dispatch spans.
func (b *ConfigBuilder) WithTracer(tracer oteltrace.Tracer) *ConfigBuilder {
	b.tracer = tracer
	return b
}

func (b *ConfigBuilder) Build() (*Config, error) {
	if b.entryPoint == "" {
		return nil, ErrInvalidEntryPoint
	}
	if b.memoryLimitPages == 0 || b.memoryLimitPages > maxMemoryLimitPages {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMemoryLimit, b.memoryLimitPages)
	}
	if b.engine != EngineInterpreter && b.engine != EngineCompiler {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEngine, b.engine)
	}
	tracer := b.tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("harness")
	}
	return &Config{
		engine:           b.engine,
		entryPoint:       b.entryPoint,
		memoryLimitPages: b.memoryLimitPages,
		features:         b.features,
		tracer:           tracer,
	}, nil
}
