// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sandbox

import (
	"fmt"

	"github.com/bytecodealliance/wasmtime-go/v14"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/wasmsoak/hostabi"
)

var _ hostabi.Memory = (*callerMemory)(nil)

// callerMemory is the exported memory of the contract calling a host
// function. It is only valid for the duration of that host call.
type callerMemory struct {
	caller *wasmtime.Caller
	inner  *wasmtime.Memory
}

func newCallerMemory(caller *wasmtime.Caller) (*callerMemory, error) {
	export := caller.GetExport(hostabi.MemoryName)
	if export == nil || export.Memory() == nil {
		return nil, fmt.Errorf("%w: %q", hostabi.ErrMissingMemory, hostabi.MemoryName)
	}
	return &callerMemory{
		caller: caller,
		inner:  export.Memory(),
	}, nil
}

func (m *callerMemory) Read(offset uint64, length uint64) ([]byte, error) {
	if err := hostabi.CheckRange(offset, length, m.Size()); err != nil {
		return nil, err
	}
	data := m.inner.UnsafeData(m.caller)
	return slices.Clone(data[offset : offset+length]), nil
}

func (m *callerMemory) Write(offset uint64, data []byte) error {
	if err := hostabi.CheckRange(offset, uint64(len(data)), m.Size()); err != nil {
		return err
	}
	copy(m.inner.UnsafeData(m.caller)[offset:], data)
	return nil
}

func (m *callerMemory) Size() uint64 {
	return uint64(m.inner.DataSize(m.caller))
}
