package md5block

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Func is one of the four bitwise round functions.
type Func func(x, y, z uint32) uint32

// F selects y where x is set and z elsewhere.
func F(x, y, z uint32) uint32 { return x&y | ^x&z }

// G selects x where z is set and y elsewhere.
func G(x, y, z uint32) uint32 { return x&z | y&^z }

func H(x, y, z uint32) uint32 { return x ^ y ^ z }

func I(x, y, z uint32) uint32 { return y ^ (x | ^z) }

// Funcs maps each round to its function.
var Funcs = [4]Func{F, G, H, I}
