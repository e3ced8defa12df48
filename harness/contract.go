// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/wasmsoak/hostabi"
)

type bootstrapFunc func(context.Context, *Config, logging.Logger, []byte, Trampolines) (*Instance, error)

// Contract is deployed into an outer sandbox and runs the guest bytecode
// carried by each call inside an embedded interpreter.
type Contract struct {
	log logging.Logger
	cfg *Config

	bootstrap bootstrapFunc
}

func NewContract(cfg *Config, log logging.Logger) *Contract {
	return &Contract{
		log:       log,
		cfg:       cfg,
		bootstrap: Bootstrap,
	}
}

// Call handles one outer invocation of [method]. Its input is the loop limit
// followed by the guest bytecode, see [EncodeInvocation]. Every call gets a
// fresh engine and HostState, nothing survives between calls.
func (c *Contract) Call(ctx context.Context, method string, host hostabi.Host) error {
	if method != c.cfg.entryPoint {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	inv, err := DecodeInvocation(hostabi.ReadInput(host, hostabi.InputRegister))
	if err != nil {
		return err
	}

	c.log.Debug("invoking guest",
		zap.String("method", method),
		zap.Uint32("loopLimit", inv.LoopLimit),
		zap.Int("size", len(inv.Wasm)),
	)

	state := NewHostState(inv.GuestInput)
	inst, err := c.bootstrap(ctx, c.cfg, c.log, inv.Wasm, NewTrampolines(c.cfg.features, state, host))
	if err != nil {
		return err
	}
	defer func() {
		if err := inst.Close(ctx); err != nil {
			c.log.Warn("failed to close guest instance", zap.Error(err))
		}
	}()

	return inst.Dispatch(ctx, c.cfg.entryPoint)
}
