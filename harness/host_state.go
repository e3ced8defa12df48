// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"golang.org/x/exp/slices"

	"github.com/ava-labs/wasmsoak/registers"
)

// HostState is the shadow state a guest's register calls terminate in. It is
// created for a single export call and discarded afterwards.
type HostState struct {
	// input is what the guest sees as its own input, which is not the outer
	// call's input: that one also carries the guest bytecode.
	input     []byte
	registers *registers.Store
}

func NewHostState(input []byte) *HostState {
	return &HostState{
		input:     slices.Clone(input),
		registers: registers.New(),
	}
}

// Input returns a copy of the guest visible input.
func (h *HostState) Input() []byte {
	return slices.Clone(h.input)
}

func (h *HostState) Registers() *registers.Store {
	return h.registers
}

// WriteInput copies the guest input into [registerID].
func (h *HostState) WriteInput(registerID uint64) {
	h.registers.Set(registerID, h.input)
}
