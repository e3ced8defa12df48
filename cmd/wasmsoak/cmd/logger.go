// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/wasmsoak/utils"
)

const (
	logMaxSize  = 8 // megabytes
	logMaxFiles = 4
	logMaxAge   = 7 // days
)

// newLogger writes colored logs to stderr and, when [dir] is set, JSON logs
// to a rotated file in [dir]. The returned closer flushes the file.
func newLogger(name string, level logging.Level, dir string) (logging.Logger, io.Closer, error) {
	consoleCore := logging.NewWrappedCore(level, os.Stderr, logging.Colors.ConsoleEncoder())
	if dir == "" {
		return logging.NewLogger("", consoleCore), nopCloser{}, nil
	}

	logDir, err := utils.InitSubDirectory(dir, "logs")
	if err != nil {
		return nil, nil, err
	}
	rw := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, name+".log"),
		MaxSize:    logMaxSize,
		MaxAge:     logMaxAge,
		MaxBackups: logMaxFiles,
		Compress:   true,
	}
	fileCore := logging.NewWrappedCore(level, rw, logging.JSON.FileEncoder())
	return logging.NewLogger("", consoleCore, fileCore), rw, nil
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}
