// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// LoopLimitLen is the size of the little-endian loop limit prefixing an
// invocation input.
const LoopLimitLen = wrappers.IntLen

// Invocation is a decoded outer call input.
type Invocation struct {
	LoopLimit uint32
	// GuestInput is the raw loop limit prefix, which is all the guest sees
	// of the outer input.
	GuestInput []byte
	Wasm       []byte
}

// DecodeInvocation splits [input] into the loop limit and the guest bytecode.
// The bytecode is not validated here.
func DecodeInvocation(input []byte) (*Invocation, error) {
	if len(input) < LoopLimitLen+1 {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrMalformedInput, len(input), LoopLimitLen+1)
	}
	return &Invocation{
		LoopLimit:  binary.LittleEndian.Uint32(input[:LoopLimitLen]),
		GuestInput: input[:LoopLimitLen:LoopLimitLen],
		Wasm:       input[LoopLimitLen:],
	}, nil
}

// EncodeInvocation builds the outer call input for [loopLimit] iterations of
// [wasm].
func EncodeInvocation(loopLimit uint32, wasm []byte) []byte {
	out := make([]byte, LoopLimitLen, LoopLimitLen+len(wasm))
	binary.LittleEndian.PutUint32(out, loopLimit)
	return append(out, wasm...)
}

// EncodeLoopLimit is the guest input for [loopLimit] iterations.
func EncodeLoopLimit(loopLimit uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, loopLimit)
}
