// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

// ToID is the content address of [bytes].
func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := filepath.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// SaveBytes writes [b] to [filename], creating missing parent directories.
func SaveBytes(filename string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(filename), perms.ReadWriteExecute); err != nil {
		return err
	}
	return os.WriteFile(filename, b, perms.ReadWrite)
}

// Outputs to stdout.
//
// e.g.,
//
//	Out("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Out("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

// ParseUint32s parses a comma separated list such as "1,10,100".
func ParseUint32s(s string) ([]uint32, error) {
	fields := strings.Split(s, ",")
	out := make([]uint32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", f, err)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}
