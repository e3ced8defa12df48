// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/wasmsoak/guest"
	"github.com/ava-labs/wasmsoak/hostabi"
)

func TestHostStateInput(t *testing.T) {
	require := require.New(t)

	input := []byte{1, 2, 3, 4}
	state := NewHostState(input)
	input[0] = 9
	require.Equal([]byte{1, 2, 3, 4}, state.Input())

	got := state.Input()
	got[1] = 9
	require.Equal([]byte{1, 2, 3, 4}, state.Input())

	state.WriteInput(2)
	state.WriteInput(2)
	require.Equal([]byte{1, 2, 3, 4}, state.Registers().Get(2))
	require.Equal([]uint64{2}, state.Registers().IDs())
}

func TestNewTrampolines(t *testing.T) {
	tests := []struct {
		name     string
		features Features
		bound    []string
	}{
		{
			name:     "default",
			features: DefaultFeatures(),
			bound:    hostabi.FnNames,
		},
		{
			name:     "no input",
			features: Features{VirtualRegisters: true, ForwardLogs: true},
			bound:    []string{hostabi.ReadRegisterFnName, hostabi.RegisterLenFnName, hostabi.LogUTF8FnName},
		},
		{
			name:     "no logs",
			features: Features{VirtualRegisters: true, ForwardInput: true},
			bound:    []string{hostabi.InputFnName, hostabi.ReadRegisterFnName, hostabi.RegisterLenFnName},
		},
		{
			name:     "registers only",
			features: Features{},
			bound:    []string{hostabi.ReadRegisterFnName, hostabi.RegisterLenFnName},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trampolines := NewTrampolines(tt.features, NewHostState(nil), newTestHost(nil))
			require.Equal(t, tt.bound, trampolines.Bound())
		})
	}
}

func TestTrampolinesVirtualRegisters(t *testing.T) {
	require := require.New(t)

	state := NewHostState([]byte{1, 2, 3, 4})
	outer := newTestHost([]byte("outer input"))
	trampolines := NewTrampolines(DefaultFeatures(), state, outer)

	trampolines.Input(0)
	require.Equal(uint64(4), trampolines.RegisterLen(0))
	require.Equal([]byte{1, 2, 3, 4}, trampolines.ReadRegister(0))
	require.False(outer.registers.Has(0))
}

func TestTrampolinesPassThrough(t *testing.T) {
	require := require.New(t)

	state := NewHostState([]byte{1, 2, 3, 4})
	outer := newTestHost([]byte("outer input"))
	trampolines := NewTrampolines(Features{ForwardInput: true}, state, outer)

	// with shared registers the guest sees the outer call input
	trampolines.Input(0)
	require.Equal(uint64(len("outer input")), trampolines.RegisterLen(0))
	require.Equal([]byte("outer input"), trampolines.ReadRegister(0))
	require.Empty(state.Registers().IDs())
}

func TestLogsForwardedUnchanged(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	// not valid utf-8, validation belongs to the outer sandbox
	msg := []byte{0xff, 'h', 'i'}
	wasm := wat2wasm(t, `(module `+abiImports+`
  (data (i32.const 32) "\ffhi")
  (func (export "cpu_ram_soak")
    (call $log_utf8 (i64.const 3) (i64.const 32))))`)
	invocation := EncodeInvocation(1, wasm)

	host := hostabi.NewMockHost(ctrl)
	gomock.InOrder(
		host.EXPECT().Input(hostabi.InputRegister),
		host.EXPECT().RegisterLen(hostabi.InputRegister).Return(uint64(len(invocation))),
		host.EXPECT().ReadRegister(hostabi.InputRegister).Return(invocation),
		host.EXPECT().LogUTF8(msg).Return(nil),
	)

	contract := newTestContract(t, NewConfigBuilder())
	require.NoError(contract.Call(context.Background(), hostabi.EntryPoint, host))
}

func TestReferenceKernel(t *testing.T) {
	wasm, err := guest.CPURAMSoak()
	require.NoError(t, err)

	tests := []struct {
		loopLimit uint32
		want      string
	}{
		{loopLimit: 0, want: "Done 0 iterations!"},
		{loopLimit: 1, want: "Done 1 iterations!"},
		{loopLimit: 10, want: "Done 10 iterations!"},
		{loopLimit: 1000, want: "Done 1000 iterations!"},
		{loopLimit: 123456, want: "Done 123456 iterations!"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require := require.New(t)

			contract := newTestContract(t, NewConfigBuilder())
			host := newTestHost(EncodeInvocation(tt.loopLimit, wasm))
			require.NoError(contract.Call(context.Background(), hostabi.EntryPoint, host))
			require.Equal([]string{tt.want}, host.logStrings())
		})
	}
}

func BenchmarkReferenceKernel(b *testing.B) {
	require := require.New(b)

	wasm, err := guest.CPURAMSoak()
	require.NoError(err)
	contract := newTestContract(b, NewConfigBuilder())
	input := EncodeInvocation(1000, wasm)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		require.NoError(contract.Call(context.Background(), hostabi.EntryPoint, newTestHost(input)))
	}
}
