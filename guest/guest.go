// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package guest provides the reference cpu_ram_soak kernel and loaders for
// guest bytecode.
package guest

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytecodealliance/wasmtime-go/v14"
)

//go:embed cpu_ram_soak.wat
var CPURAMSoakWAT string

// CPURAMSoak returns the assembled reference kernel.
func CPURAMSoak() ([]byte, error) {
	return Assemble(CPURAMSoakWAT)
}

// Assemble converts the text format [wat] into wasm bytecode.
func Assemble(wat string) ([]byte, error) {
	wasm, err := wasmtime.Wat2Wasm(wat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssemble, err)
	}
	return wasm, nil
}

// Load reads guest bytecode from [path]. Files with a .wat extension are
// assembled, anything else is returned as is. An empty path selects the
// reference kernel.
func Load(path string) ([]byte, error) {
	if path == "" {
		return CPURAMSoak()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".wat") {
		return Assemble(string(data))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyModule, path)
	}
	return data, nil
}
