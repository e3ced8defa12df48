// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/bytecodealliance/wasmtime-go/v14"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/wasmsoak/hostabi"
	"github.com/ava-labs/wasmsoak/registers"
)

var _ hostabi.Host = (*testHost)(nil)

// testHost is a minimal outer sandbox: its input is [args] and logs are
// collected unchecked.
type testHost struct {
	args      []byte
	registers *registers.Store
	logs      [][]byte
	logErr    error
}

func newTestHost(args []byte) *testHost {
	return &testHost{
		args:      args,
		registers: registers.New(),
	}
}

func (h *testHost) Input(registerID uint64) {
	h.registers.Set(registerID, h.args)
}

func (h *testHost) ReadRegister(registerID uint64) []byte {
	return h.registers.Get(registerID)
}

func (h *testHost) RegisterLen(registerID uint64) uint64 {
	return h.registers.Len(registerID)
}

func (h *testHost) LogUTF8(msg []byte) error {
	if h.logErr != nil {
		return h.logErr
	}
	h.logs = append(h.logs, msg)
	return nil
}

func (h *testHost) logStrings() []string {
	out := make([]string, 0, len(h.logs))
	for _, l := range h.logs {
		out = append(out, string(l))
	}
	return out
}

func wat2wasm(t testing.TB, wat string) []byte {
	wasm, err := wasmtime.Wat2Wasm(wat)
	require.NoError(t, err)
	return wasm
}

func newTestContract(t testing.TB, builder *ConfigBuilder) *Contract {
	cfg, err := builder.Build()
	require.NoError(t, err)
	return NewContract(cfg, logging.NoLog{})
}

// callGuest runs [wat] through a default contract with [loopLimit] as the
// guest input.
func callGuest(t testing.TB, wat string, loopLimit uint32) (*testHost, error) {
	contract := newTestContract(t, NewConfigBuilder())
	host := newTestHost(EncodeInvocation(loopLimit, wat2wasm(t, wat)))
	err := contract.Call(context.Background(), hostabi.EntryPoint, host)
	return host, err
}

const abiImports = `
  (import "env" "input" (func $input (param i64)))
  (import "env" "register_len" (func $register_len (param i64) (result i64)))
  (import "env" "read_register" (func $read_register (param i64 i64)))
  (import "env" "log_utf8" (func $log_utf8 (param i64 i64)))
  (memory (export "memory") 1)
`

func TestBootstrapCompileError(t *testing.T) {
	require := require.New(t)

	cfg := NewConfig()
	_, err := Bootstrap(context.Background(), cfg, logging.NoLog{}, []byte("not a module"), Trampolines{})
	require.ErrorIs(err, ErrCompile)
}

func TestBootstrapUnboundImport(t *testing.T) {
	require := require.New(t)

	features := DefaultFeatures()
	features.ForwardInput = false
	contract := newTestContract(t, NewConfigBuilder().WithFeatures(features))

	wasm := wat2wasm(t, `(module `+abiImports+` (func (export "cpu_ram_soak")))`)
	host := newTestHost(EncodeInvocation(1, wasm))
	err := contract.Call(context.Background(), hostabi.EntryPoint, host)
	require.ErrorIs(err, ErrInstantiate)
	require.Empty(host.logs)
}

func TestBootstrapStartTrap(t *testing.T) {
	require := require.New(t)

	_, err := callGuest(t, `
(module
  (func $start unreachable)
  (start $start)
  (func (export "cpu_ram_soak")))`, 1)
	require.ErrorIs(err, ErrInstantiate)
}

func TestBootstrapStartRunsBeforeDispatch(t *testing.T) {
	require := require.New(t)

	_, err := callGuest(t, `
(module `+abiImports+`
  (func $start (call $input (i64.const 3)))
  (start $start)
  (func (export "cpu_ram_soak")
    (if (i64.ne (call $register_len (i64.const 3)) (i64.const 4))
      (then unreachable))))`, 1)
	require.NoError(err)
}

func TestDispatchExport(t *testing.T) {
	tests := []struct {
		name string
		wat  string
		err  error
	}{
		{
			name: "missing",
			wat:  `(module (func (export "something_else")))`,
			err:  ErrExportNotFound,
		},
		{
			name: "memory is not a function",
			wat:  `(module (memory (export "cpu_ram_soak") 1))`,
			err:  ErrExportNotFound,
		},
		{
			name: "takes params",
			wat:  `(module (func (export "cpu_ram_soak") (param i32)))`,
			err:  ErrExportSignature,
		},
		{
			name: "returns results",
			wat:  `(module (func (export "cpu_ram_soak") (result i32) (i32.const 1)))`,
			err:  ErrExportSignature,
		},
		{
			name: "guest trap",
			wat:  `(module (func (export "cpu_ram_soak") unreachable))`,
			err:  ErrGuestTrap,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := callGuest(t, tt.wat, 1)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestGuestOutOfBoundsTrap(t *testing.T) {
	require := require.New(t)

	host, err := callGuest(t, `
(module
  (memory 1)
  (func (export "cpu_ram_soak")
    (drop (i32.load (i32.const 70000)))))`, 1)
	require.ErrorIs(err, ErrGuestTrap)
	require.Empty(host.logs)
}

func TestTrampolineMemoryOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "read_register past end",
			body: `(call $input (i64.const 0))
    (call $read_register (i64.const 0) (i64.const 65534))`,
		},
		{
			name: "read_register beyond 32-bit",
			body: `(call $input (i64.const 0))
    (call $read_register (i64.const 0) (i64.const 4294967296))`,
		},
		{
			name: "log_utf8 past end",
			body: `(call $log_utf8 (i64.const 10) (i64.const 65530))`,
		},
		{
			name: "log_utf8 length beyond 32-bit",
			body: `(call $log_utf8 (i64.const 4294967297) (i64.const 0))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			host, err := callGuest(t, `(module `+abiImports+`
  (func (export "cpu_ram_soak")
    `+tt.body+`))`, 1)
			require.ErrorIs(err, ErrGuestTrap)
			require.ErrorIs(err, hostabi.ErrMemoryOutOfBounds)
			require.Empty(host.logs)
		})
	}
}

// echoWAT logs the bytes of the guest input as seen through register 5.
const echoWAT = `(module ` + abiImports + `
  (func (export "cpu_ram_soak")
    (call $input (i64.const 5))
    (call $input (i64.const 5))
    (if (i64.ne (call $register_len (i64.const 5)) (i64.const 4))
      (then unreachable))
    (call $read_register (i64.const 5) (i64.const 100))
    (call $log_utf8 (i64.const 4) (i64.const 100))))`

func TestGuestInputRoundTrip(t *testing.T) {
	require := require.New(t)

	// "abcd" little endian
	host, err := callGuest(t, echoWAT, 0x64636261)
	require.NoError(err)
	require.Equal([]string{"abcd"}, host.logStrings())
	// guest registers never reach the outer sandbox
	require.False(host.registers.Has(5))
}

func TestUnsetRegisterLen(t *testing.T) {
	require := require.New(t)

	_, err := callGuest(t, `(module `+abiImports+`
  (func (export "cpu_ram_soak")
    (if (i64.ne (call $register_len (i64.const 9)) (i64.const 0))
      (then unreachable))
    ;; an absent register reads as empty, leaving memory untouched
    (i32.store (i32.const 0) (i32.const 7))
    (call $read_register (i64.const 9) (i64.const 0))
    (if (i32.ne (i32.load (i32.const 0)) (i32.const 7))
      (then unreachable))))`, 1)
	require.NoError(err)
}

func TestForwardLogError(t *testing.T) {
	require := require.New(t)

	errOuter := errors.New("outer log failed")
	contract := newTestContract(t, NewConfigBuilder())
	host := newTestHost(EncodeInvocation(1, wat2wasm(t, echoWAT)))
	host.logErr = errOuter

	err := contract.Call(context.Background(), hostabi.EntryPoint, host)
	require.ErrorIs(err, ErrGuestTrap)
	require.ErrorIs(err, ErrForwardLog)
	require.ErrorIs(err, errOuter)
}

func TestContractMalformedInput(t *testing.T) {
	for n := 0; n <= LoopLimitLen; n++ {
		require := require.New(t)

		contract := newTestContract(t, NewConfigBuilder())
		contract.bootstrap = func(context.Context, *Config, logging.Logger, []byte, Trampolines) (*Instance, error) {
			require.FailNow("bootstrap must not run on malformed input")
			return nil, nil
		}
		err := contract.Call(context.Background(), hostabi.EntryPoint, newTestHost(make([]byte, n)))
		require.ErrorIs(err, ErrMalformedInput)
	}
}

func TestContractUnknownMethod(t *testing.T) {
	require := require.New(t)

	contract := newTestContract(t, NewConfigBuilder())
	err := contract.Call(context.Background(), "main", newTestHost(EncodeInvocation(1, []byte{0})))
	require.ErrorIs(err, ErrUnknownMethod)
}

func TestContractCustomEntryPoint(t *testing.T) {
	require := require.New(t)

	contract := newTestContract(t, NewConfigBuilder().WithEntryPoint("soak"))
	wasm := wat2wasm(t, `(module (func (export "soak")))`)
	require.NoError(contract.Call(context.Background(), "soak", newTestHost(EncodeInvocation(1, wasm))))
}

func TestContractInvocationsIndependent(t *testing.T) {
	require := require.New(t)

	// fails if register 7 survived a previous invocation
	wasm := wat2wasm(t, `(module `+abiImports+`
  (func (export "cpu_ram_soak")
    (if (i64.ne (call $register_len (i64.const 7)) (i64.const 0))
      (then unreachable))
    (call $input (i64.const 7))))`)

	contract := newTestContract(t, NewConfigBuilder())
	for i := 0; i < 3; i++ {
		require.NoError(contract.Call(context.Background(), hostabi.EntryPoint, newTestHost(EncodeInvocation(uint32(i), wasm))))
	}
}

func TestContractCompilerEngine(t *testing.T) {
	require := require.New(t)

	contract := newTestContract(t, NewConfigBuilder().WithEngine(EngineCompiler))
	host := newTestHost(EncodeInvocation(0x64636261, wat2wasm(t, echoWAT)))
	require.NoError(contract.Call(context.Background(), hostabi.EntryPoint, host))
	require.Equal([]string{"abcd"}, host.logStrings())
}

func TestInstanceMemory(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	state := NewHostState(EncodeLoopLimit(7))
	trampolines := NewTrampolines(DefaultFeatures(), state, newTestHost(nil))
	wasm := wat2wasm(t, `
(module `+abiImports+`
  (func (export "cpu_ram_soak")
    (call $input (i64.const 0))
    (call $read_register (i64.const 0) (i64.const 16))))`)

	inst, err := Bootstrap(ctx, NewConfig(), logging.NoLog{}, wasm, trampolines)
	require.NoError(err)
	defer func() {
		require.NoError(inst.Close(ctx))
	}()
	require.NoError(inst.Dispatch(ctx, hostabi.EntryPoint))

	mem, err := inst.Memory()
	require.NoError(err)
	require.Equal(uint64(hostabi.MemoryPageSize), mem.Size())
	got, err := mem.Read(16, 4)
	require.NoError(err)
	require.Equal(EncodeLoopLimit(7), got)

	noMemory, err := Bootstrap(ctx, NewConfig(), logging.NoLog{}, wat2wasm(t, `(module (func (export "cpu_ram_soak")))`), Trampolines{})
	require.NoError(err)
	defer func() {
		require.NoError(noMemory.Close(ctx))
	}()
	_, err = noMemory.Memory()
	require.ErrorIs(err, hostabi.ErrMissingMemory)
}
