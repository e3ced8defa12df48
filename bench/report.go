// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// Row is the measurement of one loop limit in both execution modes.
type Row struct {
	LoopLimit  uint32
	NativeFuel uint64
	Native     time.Duration
	Nested     time.Duration
}

// Slowdown is how many times longer the nested run took.
func (r Row) Slowdown() float64 {
	if r.Native <= 0 {
		return 0
	}
	return float64(r.Nested) / float64(r.Native)
}

type Report struct {
	Rows []Row
}

// Write renders the report with one column per loop limit.
func (r *Report) Write(w io.Writer) {
	var (
		header   = []string{"exec_mode"}
		fuel     = []string{"native fuel"}
		native   = []string{"native"}
		nested   = []string{"nested interpreter"}
		slowdown = []string{"slowdown"}
	)
	for _, row := range r.Rows {
		header = append(header, fmt.Sprintf("loop_limit = %d", row.LoopLimit))
		fuel = append(fuel, humanize.Comma(int64(row.NativeFuel)))
		native = append(native, row.Native.Round(time.Microsecond).String())
		nested = append(nested, row.Nested.Round(time.Microsecond).String())
		slowdown = append(slowdown, fmt.Sprintf("%.1fx", row.Slowdown()))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk([][]string{fuel, native, nested, slowdown})
	table.Render()
}
