// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sandbox

import (
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/bytecodealliance/wasmtime-go/v14"
	"go.opentelemetry.io/otel/trace/noop"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/wasmsoak/hostabi"
)

var (
	DefaultMaxFuel           = uint64(10_000_000_000)
	DefaultMaxWasmStack      = 256 * units.MiB
	DefaultLimitMaxMemory    = int64(256 * hostabi.MemoryPageSize) // 256 pages
	DefaultModuleCacheSize   = 64 * units.MiB
	DefaultProfilingStrategy = wasmtime.ProfilingStrategyNone

	defaultWasmThreads         = false
	defaultFuelMetering        = true
	defaultWasmMultiMemory     = false
	defaultWasmMemory64        = false
	defaultCompilerStrategy    = wasmtime.StrategyCranelift
	defaultEpochInterruption   = true
	defaultNaNCanonicalization = "true"
	defaultCraneliftOptLevel   = wasmtime.OptLevelSpeed

	// a single instance with one memory and table per call
	defaultLimitMaxTableElements = int64(4096)
	defaultLimitMaxInstances     = int64(1)
	defaultLimitMaxTables        = int64(1)
	defaultLimitMaxMemories      = int64(1)
)

// Config is the configuration of an outer sandbox.
type Config struct {
	wasmConfig *wasmtime.Config

	maxFuel         uint64
	moduleCacheSize int
	limitMaxMemory  int64
	tracer          oteltrace.Tracer
}

// NewConfig returns a config with default settings.
func NewConfig() *Config {
	cfg, _ := NewConfigBuilder().Build()
	return cfg
}

func (c *Config) MaxFuel() uint64 {
	return c.maxFuel
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		maxFuel:           DefaultMaxFuel,
		maxWasmStack:      DefaultMaxWasmStack,
		limitMaxMemory:    DefaultLimitMaxMemory,
		moduleCacheSize:   DefaultModuleCacheSize,
		profilingStrategy: DefaultProfilingStrategy,
	}
}

type ConfigBuilder struct {
	maxFuel           uint64
	maxWasmStack      int
	limitMaxMemory    int64
	moduleCacheSize   int
	profilingStrategy wasmtime.ProfilingStrategy
	tracer            oteltrace.Tracer
}

// WithMaxFuel defines the fuel every native call starts with.
func (b *ConfigBuilder) WithMaxFuel(fuel uint64) *ConfigBuilder {
	b.maxFuel = fuel
	return b
}

// WithMaxWasmStack defines the maximum amount of stack space available for
// executing WebAssembly code.
//
// Default is 256 MiB.
func (b *ConfigBuilder) WithMaxWasmStack(max int) *ConfigBuilder {
	b.maxWasmStack = max
	return b
}

// WithLimitMaxMemory defines the maximum number of bytes of linear memory a
// native contract may use.
func (b *ConfigBuilder) WithLimitMaxMemory(max int64) *ConfigBuilder {
	b.limitMaxMemory = max
	return b
}

// WithModuleCacheSize defines the size in bytes of the compiled module cache.
func (b *ConfigBuilder) WithModuleCacheSize(size int) *ConfigBuilder {
	b.moduleCacheSize = size
	return b
}

// WithProfilingStrategy defines the profiling strategy used for defining the
// default profiler.
//
// Default is `wasmtime.ProfilingStrategyNone`.
func (b *ConfigBuilder) WithProfilingStrategy(strategy wasmtime.ProfilingStrategy) *ConfigBuilder {
	b.profilingStrategy = strategy
	return b
}

func (b *ConfigBuilder) WithTracer(tracer oteltrace.Tracer) *ConfigBuilder {
	b.tracer = tracer
	return b
}

func (b *ConfigBuilder) Build() (*Config, error) {
	if b.maxFuel == 0 {
		return nil, ErrInvalidFuel
	}

	cfg := defaultWasmtimeConfig()
	cfg.SetMaxWasmStack(b.maxWasmStack)
	cfg.SetProfiler(b.profilingStrategy)

	tracer := b.tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("sandbox")
	}
	return &Config{
		wasmConfig:      cfg,
		maxFuel:         b.maxFuel,
		moduleCacheSize: b.moduleCacheSize,
		limitMaxMemory:  b.limitMaxMemory,
		tracer:          tracer,
	}, nil
}

func defaultWasmtimeConfig() *wasmtime.Config {
	cfg := wasmtime.NewConfig()

	// non configurable defaults
	cfg.SetCraneliftOptLevel(defaultCraneliftOptLevel)
	cfg.SetConsumeFuel(defaultFuelMetering)
	cfg.SetWasmThreads(defaultWasmThreads)
	cfg.SetWasmMultiMemory(defaultWasmMultiMemory)
	cfg.SetWasmMemory64(defaultWasmMemory64)
	cfg.SetStrategy(defaultCompilerStrategy)
	cfg.SetEpochInterruption(defaultEpochInterruption)
	cfg.SetCraneliftFlag("enable_nan_canonicalization", defaultNaNCanonicalization)
	return cfg
}
