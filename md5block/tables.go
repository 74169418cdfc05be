package md5block

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Constant tables shared by the compression function and the step simulator.

const (
	// Steps is the number of steps in one compression.
	Steps = 64
	// Words is the number of 32-bit words in a block.
	Words = 16
	// BlockSize is the size of a block in bytes.
	BlockSize = Words * 4
)

// IV is the standard initial chaining value.
var IV = State{A: 0x67452301, B: 0xefcdab89, C: 0x98badcfe, D: 0x10325476}

// K holds the additive constants, floor(abs(sin(i+1)) * 2^32).
var K = [Steps]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee, 0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be, 0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa, 0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed, 0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c, 0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05, 0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039, 0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1, 0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}

// Shift holds the left-rotation amounts, indexed by round and then by step modulo four.
var Shift = [4][4]int{
	{7, 12, 17, 22},
	{5, 9, 14, 20},
	{4, 11, 16, 23},
	{6, 10, 15, 21},
}

/* Each round walks the message words from a starting index with a fixed stride modulo 16. The
first round reads the block in order; the others permute it so every word is consumed once per
round. */
var schedule = [4]struct{ start, stride int }{{0, 1}, {1, 5}, {5, 3}, {0, 7}}

// Round returns the round (0 through 3) that step i belongs to.
func Round(i int) int { return i >> 4 }

// Word returns the index of the message word consumed by step i.
func Word(i int) int {
	s := schedule[Round(i)]
	return (s.start + s.stride*(i&15)) & 15
}
