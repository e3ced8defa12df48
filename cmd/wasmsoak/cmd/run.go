// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ava-labs/wasmsoak/guest"
	"github.com/ava-labs/wasmsoak/harness"
	"github.com/ava-labs/wasmsoak/hostabi"
	"github.com/ava-labs/wasmsoak/utils"
)

type runCmd struct {
	loopLimit uint32
	guest     string
	native    bool
	engine    string
	method    string
}

func newRunCmd(s *wasmsoak) *cobra.Command {
	r := &runCmd{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a guest once and print its logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.run(cmd, s)
		},
	}
	cmd.Flags().Uint32Var(&r.loopLimit, "loop-limit", 1, "number of iterations the guest runs")
	cmd.Flags().StringVar(&r.guest, "guest", "", "path to a .wasm or .wat guest, the reference kernel if empty")
	cmd.Flags().BoolVar(&r.native, "native", false, "run the guest directly in the sandbox instead of through the interpreter")
	cmd.Flags().StringVar(&r.engine, "engine", harness.DefaultEngine.String(), "embedded engine, interpreter or compiler")
	cmd.Flags().StringVar(&r.method, "method", hostabi.EntryPoint, "export to call")
	return cmd
}

func (r *runCmd) run(cmd *cobra.Command, s *wasmsoak) error {
	wasm, err := guest.Load(r.guest)
	if err != nil {
		return err
	}
	sb, err := s.newSandbox(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	var (
		id   ids.ID
		args []byte
		mode string
	)
	if r.native {
		id, err = sb.DeployWasm(wasm)
		if err != nil {
			return err
		}
		args = harness.EncodeLoopLimit(r.loopLimit)
		mode = "native"
	} else {
		engine, err := harness.ParseEngine(r.engine)
		if err != nil {
			return err
		}
		cfg, err := harness.NewConfigBuilder().
			WithEngine(engine).
			WithEntryPoint(r.method).
			WithTracer(s.tracer).
			Build()
		if err != nil {
			return err
		}
		id = sb.Deploy(harness.NewContract(cfg, s.log))
		args = harness.EncodeInvocation(r.loopLimit, wasm)
		mode = "nested " + engine.String()
	}

	outcome, err := sb.Call(cmd.Context(), id, r.method, args)
	if outcome != nil {
		for _, l := range outcome.Logs {
			utils.Outf("{{cyan}}log:{{/}} %s\n", l)
		}
	}
	if err != nil {
		return err
	}
	utils.Outf("{{green}}%s run succeeded{{/}} elapsed=%s fuel=%d\n", mode, outcome.Elapsed, outcome.Fuel)
	return nil
}
