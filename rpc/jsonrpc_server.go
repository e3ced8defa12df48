// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/wasmsoak/sandbox"
)

// JSONRPCServer exposes a sandbox over JSON-RPC. The embedding contract is
// deployed once and shared by every nested call.
type JSONRPCServer struct {
	log      logging.Logger
	sandbox  *sandbox.Sandbox
	tracer   oteltrace.Tracer
	nestedID ids.ID
}

func NewJSONRPCServer(log logging.Logger, sb *sandbox.Sandbox, tracer oteltrace.Tracer, nestedID ids.ID) *JSONRPCServer {
	return &JSONRPCServer{
		log:      log,
		sandbox:  sb,
		tracer:   tracer,
		nestedID: nestedID,
	}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.log.Debug("ping")
	reply.Success = true
	return nil
}

type ContractReply struct {
	ContractID ids.ID `json:"contractId"`
}

// Nested returns the id of the embedding contract.
func (j *JSONRPCServer) Nested(_ *http.Request, _ *struct{}, reply *ContractReply) error {
	reply.ContractID = j.nestedID
	return nil
}

type DeployWasmArgs struct {
	Wasm []byte `json:"wasm"`
}

func (j *JSONRPCServer) DeployWasm(req *http.Request, args *DeployWasmArgs, reply *ContractReply) error {
	_, span := j.tracer.Start(req.Context(), "JSONRPCServer.DeployWasm")
	defer span.End()

	id, err := j.sandbox.DeployWasm(args.Wasm)
	if err != nil {
		return err
	}
	reply.ContractID = id
	return nil
}

type CallArgs struct {
	ContractID ids.ID `json:"contractId"`
	Method     string `json:"method"`
	Args       []byte `json:"args"`
}

type CallReply struct {
	Logs    []string      `json:"logs"`
	Fuel    uint64        `json:"fuel"`
	Elapsed time.Duration `json:"elapsed"`
	// Error is set when the contract failed, the logs emitted before the
	// failure are still returned.
	Error string `json:"error,omitempty"`
}

func (j *JSONRPCServer) Call(req *http.Request, args *CallArgs, reply *CallReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Call")
	defer span.End()

	outcome, err := j.sandbox.Call(ctx, args.ContractID, args.Method, args.Args)
	if outcome == nil {
		return err
	}
	reply.Logs = outcome.Logs
	reply.Fuel = outcome.Fuel
	reply.Elapsed = outcome.Elapsed
	if err != nil {
		j.log.Debug("contract call failed",
			zap.Stringer("contract", args.ContractID),
			zap.Error(err),
		)
		reply.Error = err.Error()
	}
	return nil
}
