// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sandbox

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/exp/slices"

	"github.com/ava-labs/wasmsoak/hostabi"
	"github.com/ava-labs/wasmsoak/registers"
)

var _ hostabi.Host = (*callState)(nil)

// callState is the register ABI of a single call: the call arguments, the
// registers written during the call and the logs it emitted.
type callState struct {
	args      []byte
	registers *registers.Store
	logs      []string
}

func newCallState(args []byte) *callState {
	return &callState{
		args:      slices.Clone(args),
		registers: registers.New(),
	}
}

func (c *callState) Input(registerID uint64) {
	c.registers.Set(registerID, c.args)
}

func (c *callState) ReadRegister(registerID uint64) []byte {
	return c.registers.Get(registerID)
}

func (c *callState) RegisterLen(registerID uint64) uint64 {
	return c.registers.Len(registerID)
}

func (c *callState) LogUTF8(msg []byte) error {
	if !utf8.Valid(msg) {
		return fmt.Errorf("%w: %q", hostabi.ErrInvalidUTF8, msg)
	}
	c.logs = append(c.logs, string(msg))
	return nil
}
