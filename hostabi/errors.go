// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hostabi

import "errors"

var (
	ErrMemoryOutOfBounds = errors.New("out of bounds guest memory access")
	ErrMissingMemory     = errors.New("guest does not export memory")
	ErrInvalidUTF8       = errors.New("log message is not valid utf-8")
)
