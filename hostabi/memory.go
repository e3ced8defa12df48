// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hostabi

import (
	"fmt"
	"math"
)

// Memory is a guest's linear memory as seen by a host function. Every access
// is bounds checked and fails with [ErrMemoryOutOfBounds] instead of
// panicking.
type Memory interface {
	// Read returns a copy of [length] bytes starting at [offset].
	Read(offset uint64, length uint64) ([]byte, error)
	// Write copies [data] into memory starting at [offset].
	Write(offset uint64, data []byte) error
	// Size returns the current memory size in bytes.
	Size() uint64
}

// CheckRange verifies that [offset, offset+length) lies within a memory of
// [size] bytes without overflowing.
func CheckRange(offset uint64, length uint64, size uint64) error {
	if offset > size || length > size-offset {
		return fmt.Errorf("%w: offset %d length %d memory size %d", ErrMemoryOutOfBounds, offset, length, size)
	}
	return nil
}

// ToUint32Range narrows a guest supplied range to the 32-bit address space of
// wasm32 memories. Values that do not fit are out of bounds by definition.
func ToUint32Range(offset uint64, length uint64) (uint32, uint32, error) {
	if offset > math.MaxUint32 || length > math.MaxUint32 {
		return 0, 0, fmt.Errorf("%w: offset %d length %d exceeds 32-bit address space", ErrMemoryOutOfBounds, offset, length)
	}
	return uint32(offset), uint32(length), nil
}
