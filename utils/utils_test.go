// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToID(t *testing.T) {
	require := require.New(t)

	require.Equal(ToID([]byte("a")), ToID([]byte("a")))
	require.NotEqual(ToID([]byte("a")), ToID([]byte("b")))
}

func TestSaveBytes(t *testing.T) {
	require := require.New(t)

	filename := filepath.Join(t.TempDir(), "nested", "guest.wasm")
	require.NoError(SaveBytes(filename, []byte{0, 'a', 's', 'm'}))

	b, err := os.ReadFile(filename)
	require.NoError(err)
	require.Equal([]byte{0, 'a', 's', 'm'}, b)
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	p, err := InitSubDirectory(t.TempDir(), "logs")
	require.NoError(err)
	require.DirExists(p)
}

func TestParseUint32s(t *testing.T) {
	tests := []struct {
		in      string
		want    []uint32
		wantErr bool
	}{
		{in: "1", want: []uint32{1}},
		{in: "1,10,100", want: []uint32{1, 10, 100}},
		{in: " 1, 2 ,", want: []uint32{1, 2}},
		{in: "", want: []uint32{}},
		{in: "4294967295", want: []uint32{4294967295}},
		{in: "4294967296", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "ten", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUint32s(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
