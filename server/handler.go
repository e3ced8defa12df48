// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/rpc/v2"
	"go.uber.org/zap"
)

var jsonContentTypes = []string{
	"application/json",
	"application/json;charset=UTF-8",
}

// NewHandler serves the exported methods of [service] as JSON-RPC methods
// named "[name].method".
func NewHandler(log logging.Logger, name string, service any) (http.Handler, error) {
	codec := json.NewCodec()
	handler := rpc.NewServer()
	for _, contentType := range jsonContentTypes {
		handler.RegisterCodec(codec, contentType)
	}
	if err := handler.RegisterService(service, name); err != nil {
		return nil, err
	}
	log.Debug("registered JSON-RPC service",
		zap.String("service", name),
		zap.Strings("contentTypes", jsonContentTypes),
	)
	return handler, nil
}
