// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registers implements the byte-buffer registers of the register
// host ABI. A register is an ephemeral slot addressed by a caller-chosen
// uint64 id; ids carry no ordering and are not allocation indexes.
package registers

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Store maps register ids to owned byte buffers. An absent id reads back as
// an empty buffer. Store is not safe for concurrent use.
type Store struct {
	registers map[uint64][]byte
}

func New() *Store {
	return &Store{
		registers: make(map[uint64][]byte),
	}
}

// Set replaces the value of [id] with a copy of [data].
func (s *Store) Set(id uint64, data []byte) {
	s.registers[id] = slices.Clone(data)
}

// Get returns the bytes stored in [id], or an empty buffer if [id] was never
// set. The returned slice is owned by the caller.
func (s *Store) Get(id uint64) []byte {
	data := s.registers[id]
	if len(data) == 0 {
		return []byte{}
	}
	return slices.Clone(data)
}

// Len returns the byte length of [id], 0 if absent.
func (s *Store) Len(id uint64) uint64 {
	return uint64(len(s.registers[id]))
}

// Has reports whether [id] was set, including to a zero length value.
func (s *Store) Has(id uint64) bool {
	_, ok := s.registers[id]
	return ok
}

// IDs returns the set register ids in ascending order.
func (s *Store) IDs() []uint64 {
	ids := maps.Keys(s.registers)
	slices.Sort(ids)
	return ids
}
