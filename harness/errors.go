// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import "errors"

var (
	ErrMalformedInput  = errors.New("malformed invocation input")
	ErrUnknownMethod   = errors.New("unknown method")
	ErrCompile         = errors.New("failed to compile guest module")
	ErrLink            = errors.New("failed to bind host functions")
	ErrInstantiate     = errors.New("failed to instantiate guest module")
	ErrExportNotFound  = errors.New("failed to find exported function")
	ErrExportSignature = errors.New("exported function has unexpected signature")
	ErrGuestTrap       = errors.New("guest trapped")
	ErrForwardLog      = errors.New("failed to forward guest log")

	ErrInvalidEntryPoint  = errors.New("entry point must not be empty")
	ErrInvalidMemoryLimit = errors.New("memory limit must be between 1 and 65536 pages")
	ErrInvalidEngine      = errors.New("invalid engine")
)
