// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/wasmsoak/harness"
	"github.com/ava-labs/wasmsoak/rpc"
	"github.com/ava-labs/wasmsoak/server"
)

const metricsEndpoint = "/metrics"

func newServeCmd(s *wasmsoak) *cobra.Command {
	var (
		host string
		port uint16
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sandbox over JSON-RPC along with its metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := prometheus.NewRegistry()
			sb, err := s.newSandbox(registry)
			if err != nil {
				return err
			}
			cfg, err := harness.NewConfigBuilder().
				WithTracer(s.tracer).
				Build()
			if err != nil {
				return err
			}
			nestedID := sb.Deploy(harness.NewContract(cfg, s.log))

			handler, err := server.NewHandler(s.log, rpc.Name, rpc.NewJSONRPCServer(s.log, sb, s.tracer, nestedID))
			if err != nil {
				return err
			}
			listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
			if err != nil {
				return err
			}
			srv := server.New(s.log, listener, server.NewDefaultHTTPConfig())
			srv.AddRoute(handler, rpc.JSONRPCEndpoint)
			srv.AddRoute(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), metricsEndpoint)

			done := make(chan error, 1)
			go func() {
				done <- srv.Dispatch()
			}()
			s.log.Info("serving",
				zap.Stringer("addr", listener.Addr()),
				zap.Stringer("nested", nestedID),
			)

			select {
			case err := <-done:
				return err
			case <-cmd.Context().Done():
			}
			if err := srv.Shutdown(); err != nil {
				return err
			}
			if err := <-done; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "http-host", "127.0.0.1", "host to listen on")
	cmd.Flags().Uint16Var(&port, "http-port", 9650, "port to listen on")
	return cmd
}
