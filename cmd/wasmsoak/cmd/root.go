// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"io"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/wasmsoak/sandbox"

	soaktrace "github.com/ava-labs/wasmsoak/trace"
)

const appName = "wasmsoak"

// Version is set at build time.
var Version = "dev"

type wasmsoak struct {
	logLevel        string
	logDir          string
	traceEndpoint   string
	traceSampleRate float64

	log       logging.Logger
	logCloser io.Closer
	tracer    trace.Tracer
}

func NewRootCmd() *cobra.Command {
	s := &wasmsoak{}
	cmd := &cobra.Command{
		Use:               appName,
		Short:             "Measure the cost of running wasm inside an embedded interpreter",
		PersistentPreRunE: s.init,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return s.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "info", "log level")
	cmd.PersistentFlags().StringVar(&s.logDir, "log-dir", "", "directory to write JSON logs to, logs only to stderr if empty")
	cmd.PersistentFlags().StringVar(&s.traceEndpoint, "trace-endpoint", "", "zipkin endpoint to export spans to, tracing is disabled if empty")
	cmd.PersistentFlags().Float64Var(&s.traceSampleRate, "trace-sample-rate", 1, "fraction of traces to sample")

	cmd.AddCommand(
		newRunCmd(s),
		newBenchCmd(s),
		newGuestCmd(s),
		newServeCmd(s),
	)
	return cmd
}

func (s *wasmsoak) init(*cobra.Command, []string) error {
	level, err := logging.ToLevel(s.logLevel)
	if err != nil {
		return err
	}
	s.log, s.logCloser, err = newLogger(appName, level, s.logDir)
	if err != nil {
		return err
	}

	s.tracer, err = soaktrace.New(&soaktrace.Config{
		Enabled:    s.traceEndpoint != "",
		Endpoint:   s.traceEndpoint,
		SampleRate: s.traceSampleRate,
		AppName:    appName,
		Version:    Version,
	})
	if err != nil {
		return err
	}

	s.log.Debug("initialized",
		zap.String("log-level", s.logLevel),
		zap.String("log-dir", s.logDir),
		zap.Bool("tracing", s.traceEndpoint != ""),
	)
	return nil
}

func (s *wasmsoak) close() error {
	var errs []error
	if s.tracer != nil {
		errs = append(errs, s.tracer.Close())
	}
	if s.log != nil {
		s.log.Stop()
	}
	if s.logCloser != nil {
		errs = append(errs, s.logCloser.Close())
	}
	return errors.Join(errs...)
}

func (s *wasmsoak) newSandbox(registerer prometheus.Registerer) (*sandbox.Sandbox, error) {
	cfg, err := sandbox.NewConfigBuilder().
		WithTracer(s.tracer).
		Build()
	if err != nil {
		return nil, err
	}
	return sandbox.New(cfg, s.log, registerer)
}
