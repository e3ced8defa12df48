// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"

	avarpc "github.com/ava-labs/avalanchego/utils/rpc"
)

type JSONRPCClient struct {
	requester avarpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: avarpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		Name+".ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Nested(ctx context.Context) (ids.ID, error) {
	resp := new(ContractReply)
	err := cli.requester.SendRequest(ctx,
		Name+".nested",
		nil,
		resp,
	)
	return resp.ContractID, err
}

func (cli *JSONRPCClient) DeployWasm(ctx context.Context, wasm []byte) (ids.ID, error) {
	resp := new(ContractReply)
	err := cli.requester.SendRequest(ctx,
		Name+".deployWasm",
		&DeployWasmArgs{Wasm: wasm},
		resp,
	)
	return resp.ContractID, err
}

func (cli *JSONRPCClient) Call(ctx context.Context, id ids.ID, method string, args []byte) (*CallReply, error) {
	resp := new(CallReply)
	err := cli.requester.SendRequest(ctx,
		Name+".call",
		&CallArgs{
			ContractID: id,
			Method:     method,
			Args:       args,
		},
		resp,
	)
	return resp, err
}
