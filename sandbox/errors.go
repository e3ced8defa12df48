// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sandbox

import (
	"errors"
	"fmt"

	"github.com/bytecodealliance/wasmtime-go/v14"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrInvalidModule    = errors.New("invalid wasm module")
	ErrInstantiate      = errors.New("failed to instantiate wasm module")
	ErrMethodNotFound   = errors.New("failed to find exported function")
	ErrMethodSignature  = errors.New("exported function must take no params and return no results")
	ErrHostFunction     = errors.New("host function failed")
	ErrInvalidFuel      = errors.New("max fuel must be positive")

	// Trap errors
	ErrTrapStackOverflow          = errors.New("the current stack space was exhausted")
	ErrTrapMemoryOutOfBounds      = errors.New("out-of-bounds memory access")
	ErrTrapHeapMisaligned         = errors.New("a wasm atomic operation was presented with a not-naturally-aligned linear-memory address")
	ErrTrapTableOutOfBounds       = errors.New("out-of-bounds table access")
	ErrTrapIndirectCallToNull     = errors.New("an indirect call to a null table entry was executed")
	ErrTrapBadSignature           = errors.New("signature mismatch on indirect call")
	ErrTrapIntegerOverflow        = errors.New("an integer arithmetic operation caused an overflow")
	ErrTrapIntegerDivisionByZero  = errors.New("an integer divide-by-zero was executed")
	ErrTrapBadConversionToInteger = errors.New("failed float-to-int conversion")
	ErrTrapUnreachableCodeReached = errors.New("code that was supposed to have been unreachable was reached")
	ErrTrapInterrupt              = errors.New("an interrupt was received")
	ErrTrapOutOfFuel              = errors.New("the contract ran out of fuel")
	ErrTrapUnknown                = errors.New("unknown trap")
)

var trapErrors = map[wasmtime.TrapCode]error{
	wasmtime.StackOverflow:          ErrTrapStackOverflow,
	wasmtime.MemoryOutOfBounds:      ErrTrapMemoryOutOfBounds,
	wasmtime.HeapMisaligned:         ErrTrapHeapMisaligned,
	wasmtime.TableOutOfBounds:       ErrTrapTableOutOfBounds,
	wasmtime.IndirectCallToNull:     ErrTrapIndirectCallToNull,
	wasmtime.BadSignature:           ErrTrapBadSignature,
	wasmtime.IntegerOverflow:        ErrTrapIntegerOverflow,
	wasmtime.IntegerDivisionByZero:  ErrTrapIntegerDivisionByZero,
	wasmtime.BadConversionToInteger: ErrTrapBadConversionToInteger,
	wasmtime.UnreachableCodeReached: ErrTrapUnreachableCodeReached,
	wasmtime.Interrupt:              ErrTrapInterrupt,
	wasmtime.OutOfFuel:              ErrTrapOutOfFuel,
}

// handleTrapError maps a wasmtime trap to its sentinel. The trap message is
// kept for context.
func handleTrapError(err error) error {
	var trap *wasmtime.Trap
	if !errors.As(err, &trap) {
		return err
	}
	code := trap.Code()
	if code == nil {
		return fmt.Errorf("%w: %s", ErrTrapUnknown, trap.Message())
	}
	trapErr, ok := trapErrors[*code]
	if !ok {
		return fmt.Errorf("%w: code %d: %s", ErrTrapUnknown, *code, trap.Message())
	}
	return fmt.Errorf("%w: %s", trapErr, trap.Message())
}
