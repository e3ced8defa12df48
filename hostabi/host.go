// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hostabi defines the register based host ABI shared by the outer
// sandbox and the embedded interpreter.
//
// Guests see the ABI as four imports under [ModuleName]:
//
//	input(register_id: u64)
//	read_register(register_id: u64, ptr: u64)
//	register_len(register_id: u64) -> u64
//	log_utf8(len: u64, ptr: u64)
//
// Go code running inside a sandbox sees the same calls through [Host], where
// pointers into the caller's memory become Go slices.
package hostabi

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_host.go . Host

// Host is the register ABI exposed to code executing inside a sandbox.
type Host interface {
	// Input places the current call's argument bytes into [registerID].
	Input(registerID uint64)
	// ReadRegister returns a copy of the bytes in [registerID], empty if unset.
	ReadRegister(registerID uint64) []byte
	// RegisterLen returns the byte length of [registerID], 0 if unset.
	RegisterLen(registerID uint64) uint64
	// LogUTF8 records [msg] as a log line visible outside the sandbox.
	LogUTF8(msg []byte) error
}

// ReadInput fetches the caller's input the way contracts do on the real
// runtime: through a register rather than as a parameter.
func ReadInput(h Host, registerID uint64) []byte {
	h.Input(registerID)
	if h.RegisterLen(registerID) == 0 {
		return []byte{}
	}
	return h.ReadRegister(registerID)
}
