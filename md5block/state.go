package md5block

import (
	"encoding/binary"
	"fmt"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// State is a four-register chaining value.
type State struct {
	A, B, C, D uint32
}

// Add returns the register-wise sum of s and o modulo 2^32.
func (s State) Add(o State) State {
	return State{s.A + o.A, s.B + o.B, s.C + o.C, s.D + o.D}
}

// Words returns the registers in digest order.
func (s State) Words() [4]uint32 { return [4]uint32{s.A, s.B, s.C, s.D} }

// Bytes returns the little-endian serialization used by MD5 digests.
func (s State) Bytes() [16]byte {
	var b [16]byte
	for i, w := range s.Words() {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// String renders the registers as concatenated big-endian words, the form the published collision
// tables use for intermediate hash values.
func (s State) String() string {
	return fmt.Sprintf("%08x%08x%08x%08x", s.A, s.B, s.C, s.D)
}

// Block is a 512-bit message block as sixteen little-endian words.
type Block [Words]uint32

// BlockFromBytes decodes a 64-byte block.
func BlockFromBytes(b []byte) (Block, error) {
	var m Block
	if len(b) != BlockSize {
		return m, fmt.Errorf("md5block: block must be %d bytes, got %d", BlockSize, len(b))
	}
	for i := range m {
		m[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return m, nil
}

// Bytes encodes the block as 64 little-endian bytes.
func (m *Block) Bytes() []byte {
	b := make([]byte, BlockSize)
	for i, w := range m {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}
