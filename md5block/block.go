// Package md5block is the plain MD5 compression function: one 512-bit block applied to a chaining
// value, without padding or length encoding. It knows nothing about collision search and serves as
// the ground truth every candidate is finally checked against.
package md5block

import . "math/bits"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Compress applies 64 steps of block m to iv and returns iv plus the final registers.
func Compress(iv State, m *Block) State {
	a, b, c, d := iv.A, iv.B, iv.C, iv.D
	for i := 0; i < Steps; i++ {
		r := Round(i)
		t := a + Funcs[r](b, c, d) + m[Word(i)] + K[i]
		/* Registers rotate roles each step: the new value becomes b and the rest shift down. */
		a, b, c, d = d, b+RotateLeft32(t, Shift[r][i&3]), b, c
	}
	return iv.Add(State{a, b, c, d})
}

// Sum chains Compress over blocks starting from iv. No padding is applied.
func Sum(iv State, blocks ...Block) State {
	for i := range blocks {
		iv = Compress(iv, &blocks[i])
	}
	return iv
}
