// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name            = "wasmsoak"
	JSONRPCEndpoint = "/wasmsoak"
)
