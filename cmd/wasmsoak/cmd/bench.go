// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ava-labs/wasmsoak/bench"
	"github.com/ava-labs/wasmsoak/utils"
)

func newBenchCmd(s *wasmsoak) *cobra.Command {
	var loopLimits string
	cmd := &cobra.Command{
		Use:   "bench [plan.yaml]",
		Short: "Compare native and nested execution over a range of loop limits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := bench.DefaultPlan()
			if len(args) == 1 {
				var err error
				plan, err = bench.LoadPlan(args[0])
				if err != nil {
					return err
				}
			}
			if loopLimits != "" {
				limits, err := utils.ParseUint32s(loopLimits)
				if err != nil {
					return err
				}
				plan.LoopLimits = limits
			}

			sb, err := s.newSandbox(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			report, err := bench.NewRunner(s.log, sb, s.tracer).Run(cmd.Context(), plan)
			if err != nil {
				return err
			}
			report.Write(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&loopLimits, "loop-limit", "", "comma separated loop limits, overrides the plan")
	return cmd
}
