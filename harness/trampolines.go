// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/ava-labs/wasmsoak/hostabi"
)

// Features selects which register ABI calls are bound for the guest and
// where they terminate.
type Features struct {
	// VirtualRegisters terminates read_register and register_len in the
	// invocation's HostState. When disabled they read the outer registers.
	VirtualRegisters bool `yaml:"virtual_registers" json:"virtualRegisters"`
	// ForwardInput binds input. The guest input is taken from the HostState
	// when registers are virtual and from the outer call otherwise.
	ForwardInput bool `yaml:"forward_input" json:"forwardInput"`
	// ForwardLogs binds log_utf8 and forwards guest logs to the outer sandbox.
	ForwardLogs bool `yaml:"forward_logs" json:"forwardLogs"`
}

func DefaultFeatures() Features {
	return Features{
		VirtualRegisters: true,
		ForwardInput:     true,
		ForwardLogs:      true,
	}
}

// Trampolines are the host functions exposed to the guest under
// [hostabi.ModuleName]. A nil function is not bound, so a guest importing it
// fails to instantiate.
type Trampolines struct {
	Input        func(registerID uint64)
	ReadRegister func(registerID uint64) []byte
	RegisterLen  func(registerID uint64) uint64
	LogUTF8      func(msg []byte) error
}

// NewTrampolines binds the register ABI to [state] and [outer] according to
// [features].
func NewTrampolines(features Features, state *HostState, outer hostabi.Host) Trampolines {
	var t Trampolines
	if features.VirtualRegisters {
		t.ReadRegister = state.Registers().Get
		t.RegisterLen = state.Registers().Len
	} else {
		t.ReadRegister = outer.ReadRegister
		t.RegisterLen = outer.RegisterLen
	}
	if features.ForwardInput {
		if features.VirtualRegisters {
			t.Input = state.WriteInput
		} else {
			t.Input = outer.Input
		}
	}
	if features.ForwardLogs {
		t.LogUTF8 = outer.LogUTF8
	}
	return t
}

// Bound returns the names of the bound host functions.
func (t Trampolines) Bound() []string {
	bound := make([]string, 0, len(hostabi.FnNames))
	if t.Input != nil {
		bound = append(bound, hostabi.InputFnName)
	}
	if t.ReadRegister != nil {
		bound = append(bound, hostabi.ReadRegisterFnName)
	}
	if t.RegisterLen != nil {
		bound = append(bound, hostabi.RegisterLenFnName)
	}
	if t.LogUTF8 != nil {
		bound = append(bound, hostabi.LogUTF8FnName)
	}
	return bound
}

var (
	i64x1 = []api.ValueType{api.ValueTypeI64}
	i64x2 = []api.ValueType{api.ValueTypeI64, api.ValueTypeI64}
)

// export defines the bound trampolines on [builder]. Host functions report
// failures by panicking with an error, which wazero surfaces to the caller of
// the guest export as a trap.
func (t Trampolines) export(builder wazero.HostModuleBuilder) {
	if t.Input != nil {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				t.Input(stack[0])
			}), i64x1, nil).
			WithParameterNames("register_id").
			Export(hostabi.InputFnName)
	}

	if t.ReadRegister != nil {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
				mem, err := exportedMemory(mod)
				if err != nil {
					panic(err)
				}
				if err := mem.Write(stack[1], t.ReadRegister(stack[0])); err != nil {
					panic(err)
				}
			}), i64x2, nil).
			WithParameterNames("register_id", "ptr").
			Export(hostabi.ReadRegisterFnName)
	}

	if t.RegisterLen != nil {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = t.RegisterLen(stack[0])
			}), i64x1, i64x1).
			WithParameterNames("register_id").
			WithResultNames("len").
			Export(hostabi.RegisterLenFnName)
	}

	if t.LogUTF8 != nil {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
				mem, err := exportedMemory(mod)
				if err != nil {
					panic(err)
				}
				msg, err := mem.Read(stack[1], stack[0])
				if err != nil {
					panic(err)
				}
				if err := t.LogUTF8(msg); err != nil {
					panic(fmt.Errorf("%w: %w", ErrForwardLog, err))
				}
			}), i64x2, nil).
			WithParameterNames("len", "ptr").
			Export(hostabi.LogUTF8FnName)
	}
}
