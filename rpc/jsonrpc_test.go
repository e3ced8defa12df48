// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ava-labs/wasmsoak/guest"
	"github.com/ava-labs/wasmsoak/harness"
	"github.com/ava-labs/wasmsoak/hostabi"
	"github.com/ava-labs/wasmsoak/sandbox"
	"github.com/ava-labs/wasmsoak/server"
)

func newTestClient(t *testing.T) *JSONRPCClient {
	sb, err := sandbox.New(sandbox.NewConfig(), logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(t, err)
	nestedID := sb.Deploy(harness.NewContract(harness.NewConfig(), logging.NoLog{}))
	service := NewJSONRPCServer(logging.NoLog{}, sb, noop.NewTracerProvider().Tracer("test"), nestedID)
	handler, err := server.NewHandler(logging.NoLog{}, Name, service)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle(JSONRPCEndpoint, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewJSONRPCClient(srv.URL)
}

func TestJSONRPC(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestClient(t)

	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	wasm, err := guest.CPURAMSoak()
	require.NoError(err)
	nativeID, err := cli.DeployWasm(ctx, wasm)
	require.NoError(err)
	nestedID, err := cli.Nested(ctx)
	require.NoError(err)
	require.NotEqual(ids.Empty, nestedID)

	native, err := cli.Call(ctx, nativeID, hostabi.EntryPoint, harness.EncodeLoopLimit(10))
	require.NoError(err)
	require.Empty(native.Error)
	require.Equal([]string{"Done 10 iterations!"}, native.Logs)
	require.NotZero(native.Fuel)

	nested, err := cli.Call(ctx, nestedID, hostabi.EntryPoint, harness.EncodeInvocation(10, wasm))
	require.NoError(err)
	require.Empty(nested.Error)
	require.Equal(native.Logs, nested.Logs)
}

func TestJSONRPCErrors(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestClient(t)

	_, err := cli.DeployWasm(ctx, []byte("not a module"))
	require.Error(err)

	// ids handed out by Deploy never collide with test ids
	_, err = cli.Call(ctx, ids.GenerateTestID(), hostabi.EntryPoint, nil)
	require.ErrorContains(err, sandbox.ErrContractNotFound.Error())

	nestedID, err := cli.Nested(ctx)
	require.NoError(err)
	reply, err := cli.Call(ctx, nestedID, hostabi.EntryPoint, []byte{1})
	require.NoError(err)
	require.Contains(reply.Error, harness.ErrMalformedInput.Error())
}
