// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/trace/noop"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ trace.Tracer = (*noOpTracer)(nil)

type noOpTracer struct {
	oteltrace.Tracer
}

func newNoOpTracer(name string) *noOpTracer {
	return &noOpTracer{Tracer: noop.NewTracerProvider().Tracer(name)}
}

func (noOpTracer) Close() error {
	return nil
}
