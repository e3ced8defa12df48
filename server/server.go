// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type HTTPConfig struct {
	ReadTimeout       time.Duration `yaml:"read_timeout" json:"readTimeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout" json:"writeTimeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" json:"idleTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" json:"shutdownTimeout"`
	AllowedOrigins    []string      `yaml:"allowed_origins" json:"allowedOrigins"`
}

func NewDefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		// nested benchmark runs can take a while
		WriteTimeout:    5 * time.Minute,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"*"},
	}
}

// Server serves the routes added to it on a single listener.
type Server struct {
	log             logging.Logger
	router          *mux.Router
	srv             *http.Server
	listener        net.Listener
	shutdownTimeout time.Duration
}

func New(log logging.Logger, listener net.Listener, config HTTPConfig) *Server {
	router := mux.NewRouter()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(router)

	log.Info("API created",
		zap.Stringer("addr", listener.Addr()),
		zap.Strings("allowedOrigins", config.AllowedOrigins),
	)
	return &Server{
		log:    log,
		router: router,
		srv: &http.Server{
			Handler:           gziphandler.GzipHandler(corsHandler),
			ReadTimeout:       config.ReadTimeout,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
		listener:        listener,
		shutdownTimeout: config.ShutdownTimeout,
	}
}

// AddRoute registers [handler] at [endpoint].
func (s *Server) AddRoute(handler http.Handler, endpoint string) {
	s.log.Info("adding route", zap.String("endpoint", endpoint))
	s.router.Handle(endpoint, handler)
}

// Dispatch serves until the server is shut down.
func (s *Server) Dispatch() error {
	return s.srv.Serve(s.listener)
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}
