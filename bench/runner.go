// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bench compares running a guest natively in the sandbox with running
// it through the embedded interpreter.
package bench

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/wasmsoak/guest"
	"github.com/ava-labs/wasmsoak/harness"
	"github.com/ava-labs/wasmsoak/sandbox"
)

type Runner struct {
	log     logging.Logger
	sandbox *sandbox.Sandbox
	tracer  oteltrace.Tracer
}

func NewRunner(log logging.Logger, sb *sandbox.Sandbox, tracer oteltrace.Tracer) *Runner {
	return &Runner{
		log:     log,
		sandbox: sb,
		tracer:  tracer,
	}
}

// Run deploys the plan's guest both natively and behind the embedding
// contract and calls each with every loop limit. A run fails if a call does
// not log exactly its expected completion message.
func (r *Runner) Run(ctx context.Context, plan *Plan) (*Report, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	wasm, err := guest.Load(plan.Guest)
	if err != nil {
		return nil, err
	}
	engine, err := harness.ParseEngine(plan.Engine)
	if err != nil {
		return nil, err
	}
	cfg, err := harness.NewConfigBuilder().
		WithEngine(engine).
		WithEntryPoint(plan.Method).
		WithFeatures(plan.features()).
		WithTracer(r.tracer).
		Build()
	if err != nil {
		return nil, err
	}

	nativeID, err := r.sandbox.DeployWasm(wasm)
	if err != nil {
		return nil, err
	}
	nestedID := r.sandbox.Deploy(harness.NewContract(cfg, r.log))

	report := &Report{Rows: make([]Row, 0, len(plan.LoopLimits))}
	for _, loopLimit := range plan.LoopLimits {
		native, err := r.call(ctx, nativeID, plan.Method, harness.EncodeLoopLimit(loopLimit), loopLimit)
		if err != nil {
			return nil, fmt.Errorf("native run with loop limit %d: %w", loopLimit, err)
		}
		nested, err := r.call(ctx, nestedID, plan.Method, harness.EncodeInvocation(loopLimit, wasm), loopLimit)
		if err != nil {
			return nil, fmt.Errorf("nested run with loop limit %d: %w", loopLimit, err)
		}

		row := Row{
			LoopLimit:  loopLimit,
			NativeFuel: native.Fuel,
			Native:     native.Elapsed,
			Nested:     nested.Elapsed,
		}
		r.log.Info("measured loop limit",
			zap.Uint32("loopLimit", loopLimit),
			zap.Uint64("nativeFuel", row.NativeFuel),
			zap.Duration("native", row.Native),
			zap.Duration("nested", row.Nested),
		)
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func (r *Runner) call(ctx context.Context, id ids.ID, method string, args []byte, loopLimit uint32) (*sandbox.Outcome, error) {
	outcome, err := r.sandbox.Call(ctx, id, method, args)
	if err != nil {
		if outcome != nil {
			r.log.Warn("call failed", zap.Strings("logs", outcome.Logs))
		}
		return nil, err
	}
	if err := VerifyLogs(outcome.Logs, loopLimit); err != nil {
		return nil, err
	}
	return outcome, nil
}

// ExpectedLog is the message a guest logs after [loopLimit] iterations.
func ExpectedLog(loopLimit uint32) string {
	return fmt.Sprintf("Done %d iterations!", loopLimit)
}

// VerifyLogs checks that [logs] consists of exactly the completion message
// for [loopLimit].
func VerifyLogs(logs []string, loopLimit uint32) error {
	if want := []string{ExpectedLog(loopLimit)}; !slices.Equal(want, logs) {
		return fmt.Errorf("%w: want %q, got %q", ErrUnexpectedLogs, want, logs)
	}
	return nil
}
