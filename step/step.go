// Package step simulates single MD5 steps in both directions. Forward computes the chaining
// variable a step produces from its message word; Inverse recovers the message word from the
// chaining variable, which lets a search choose chaining variables first and derive the block.
package step

import (
	"github.com/p7r0x7/md5coll/md5block"
	. "math/bits"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Params is everything that varies between steps.
type Params struct {
	Func  md5block.Func
	Shift int
	K     uint32
	Word  int
}

// Table holds the parameters of all 64 steps, indexed from 0.
var Table = func() (t [md5block.Steps]Params) {
	for i := range t {
		r := md5block.Round(i)
		t[i] = Params{md5block.Funcs[r], md5block.Shift[r][i&3], md5block.K[i], md5block.Word(i)}
	}
	return
}()

// For returns the parameters of 0-based step i.
func For(i int) Params { return Table[i] }

// Sum returns the pre-rotation sum a + f(b,c,d) + w + K.
func Sum(p Params, a, b, c, d, w uint32) uint32 {
	return a + p.Func(b, c, d) + w + p.K
}

// Forward returns b + rotl(a + f(b,c,d) + w + K, s): the chaining variable produced by the step.
func Forward(p Params, a, b, c, d, w uint32) uint32 {
	return b + RotateLeft32(Sum(p, a, b, c, d, w), p.Shift)
}

// Inverse returns the message word w for which Forward(p, a, b, c, d, w) == out.
func Inverse(p Params, out, a, b, c, d uint32) uint32 {
	return RotateLeft32(out-b, -p.Shift) - a - p.Func(b, c, d) - p.K
}
