// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import "errors"

var (
	ErrNoLoopLimits   = errors.New("plan has no loop limits")
	ErrEmptyMethod    = errors.New("plan method is empty")
	ErrUnexpectedLogs = errors.New("unexpected logs")
)
