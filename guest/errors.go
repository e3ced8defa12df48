// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package guest

import "errors"

var (
	ErrAssemble    = errors.New("failed to assemble wat")
	ErrEmptyModule = errors.New("empty guest module")
)
