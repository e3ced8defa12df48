// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/wasmsoak/guest"
	"github.com/ava-labs/wasmsoak/utils"
)

func newGuestCmd(s *wasmsoak) *cobra.Command {
	var (
		out string
		wat bool
	)
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Write the reference cpu_ram_soak kernel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if wat {
				_, err := fmt.Fprint(cmd.OutOrStdout(), guest.CPURAMSoakWAT)
				return err
			}
			wasm, err := guest.CPURAMSoak()
			if err != nil {
				return err
			}
			if err := utils.SaveBytes(out, wasm); err != nil {
				return err
			}
			s.log.Debug("wrote guest", zap.String("path", out), zap.Int("size", len(wasm)))
			utils.Outf("{{green}}wrote{{/}} %s (%d bytes)\n", out, len(wasm))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "cpu_ram_soak.wasm", "output path")
	cmd.Flags().BoolVar(&wat, "wat", false, "print the text format instead of writing bytecode")
	return cmd
}
