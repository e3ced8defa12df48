// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/wasmsoak/hostabi"
)

var _ hostabi.Memory = (*guestMemory)(nil)

// guestMemory adapts a wazero memory to [hostabi.Memory]. Bounds are enforced
// by wazero; the adapter only rejects ranges outside the 32-bit address space.
type guestMemory struct {
	inner api.Memory
}

func exportedMemory(mod api.Module) (*guestMemory, error) {
	mem := mod.ExportedMemory(hostabi.MemoryName)
	if mem == nil {
		return nil, fmt.Errorf("%w: %q", hostabi.ErrMissingMemory, hostabi.MemoryName)
	}
	return &guestMemory{inner: mem}, nil
}

func (m *guestMemory) Read(offset uint64, length uint64) ([]byte, error) {
	off, n, err := hostabi.ToUint32Range(offset, length)
	if err != nil {
		return nil, err
	}
	view, ok := m.inner.Read(off, n)
	if !ok {
		return nil, fmt.Errorf("%w: read offset %d length %d memory size %d", hostabi.ErrMemoryOutOfBounds, offset, length, m.inner.Size())
	}
	// view aliases guest memory
	return slices.Clone(view), nil
}

func (m *guestMemory) Write(offset uint64, data []byte) error {
	off, _, err := hostabi.ToUint32Range(offset, uint64(len(data)))
	if err != nil {
		return err
	}
	if !m.inner.Write(off, data) {
		return fmt.Errorf("%w: write offset %d length %d memory size %d", hostabi.ErrMemoryOutOfBounds, offset, len(data), m.inner.Size())
	}
	return nil
}

func (m *guestMemory) Size() uint64 {
	return uint64(m.inner.Size())
}
