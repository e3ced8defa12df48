// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trace builds the tracer shared by the harness and the sandbox.
package trace

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	DefaultEndpoint = "http://localhost:9411/api/v2/spans"
	DefaultAppName  = "wasmsoak"

	exportTimeout = 10 * time.Second
	// longer than [exportTimeout] so pending batches are flushed on close
	shutdownTimeout = 15 * time.Second
)

type Config struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Endpoint is the zipkin collector spans are exported to.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// The fraction of traces to sample.
	// If >= 1 always samples.
	// If <= 0 never samples.
	SampleRate float64 `yaml:"sample_rate" json:"sampleRate"`

	AppName string `yaml:"app_name" json:"appName"`
	Version string `yaml:"version" json:"version"`
}

type tracer struct {
	oteltrace.Tracer

	tp *sdktrace.TracerProvider
}

func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return t.tp.Shutdown(ctx)
}

// New returns a tracer exporting to zipkin, or a no-op tracer when tracing
// is disabled. The tracer must be closed to flush pending spans.
func New(config *Config) (trace.Tracer, error) {
	appName := config.AppName
	if appName == "" {
		appName = DefaultAppName
	}
	if !config.Enabled {
		return newNoOpTracer(appName), nil
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("version", config.Version),
				semconv.ServiceNameKey.String(appName),
			),
		),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)
	return &tracer{
		Tracer: tp.Tracer(appName),
		tp:     tp,
	}, nil
}
