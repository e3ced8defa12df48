// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hostabi

import "github.com/ava-labs/avalanchego/utils/units"

const (
	// ModuleName is the import namespace of the register ABI.
	ModuleName = "env"

	InputFnName        = "input"
	ReadRegisterFnName = "read_register"
	RegisterLenFnName  = "register_len"
	LogUTF8FnName      = "log_utf8"

	// MemoryName is the export under which guests expose their linear memory.
	MemoryName = "memory"

	// EntryPoint is the zero-argument, zero-result export invoked on guests.
	EntryPoint = "cpu_ram_soak"

	// InputRegister is the register a contract reads its own input into.
	InputRegister uint64 = 0

	MemoryPageSize = 64 * units.KiB
)

// FnNames lists the register ABI imports in a stable order.
var FnNames = []string{
	InputFnName,
	ReadRegisterFnName,
	RegisterLenFnName,
	LogUTF8FnName,
}
