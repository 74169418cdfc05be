// Package vectors holds the published two-block MD5 collision from Wang et al. (table 2 of "How to
// Break MD5 and Other Hash Functions") and its second-block variant: the fixed first blocks, two
// colliding second-block pairs, their intermediate hash values and the word-wise differences.
package vectors

import "github.com/p7r0x7/md5coll/md5block"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// M0 and M0Prime are the fixed first blocks.
var (
	M0 = md5block.Block{
		0x02dd31d1, 0xc4eee6c5, 0x069a3d69, 0x5cf9af98, 0x87b5ca2f, 0xab7e4612, 0x3e580440, 0x897ffbb8,
		0x0634ad55, 0x02b3f409, 0x8388e483, 0x5a417125, 0xe8255108, 0x9fc9cdf7, 0xf2bd1dd9, 0x5b3c3780,
	}
	M0Prime = md5block.Block{
		0x02dd31d1, 0xc4eee6c5, 0x069a3d69, 0x5cf9af98, 0x07b5ca2f, 0xab7e4612, 0x3e580440, 0x897ffbb8,
		0x0634ad55, 0x02b3f409, 0x8388e483, 0x5a41f125, 0xe8255108, 0x9fc9cdf7, 0x72bd1dd9, 0x5b3c3780,
	}
)

// DiffM0 and DiffM1 are the signed word-wise differences M0Prime-M0 and M1Prime-M1.
var (
	DiffM0 = [16]int64{4: 1 << 31, 11: 1 << 15, 14: 1 << 31}
	DiffM1 = [16]int64{4: 1 << 31, 11: -(1 << 15), 14: 1 << 31}
)

// Pair is one published colliding second-block pair.
type Pair struct {
	Name        string
	M1, M1Prime md5block.Block
	/* Chaining value after both blocks, as big-endian words. */
	IHV string
	/* MD5 of the padded 128-byte messages M0‖M1 and M0′‖M1′. */
	Digest string
}

var Pairs = []Pair{
	{
		Name: "wang-1",
		M1: md5block.Block{
			0xd11d0b96, 0x9c7b41dc, 0xf497d8e4, 0xd555655a, 0xc79a7335, 0x0cfdebf0, 0x66f12930, 0x8fb109d1,
			0x797f2775, 0xeb5cd530, 0xbaade822, 0x5c15cc79, 0xddcb74ed, 0x6dd3c55f, 0xd80a9bb1, 0xe3a7cc35,
		},
		M1Prime: md5block.Block{
			0xd11d0b96, 0x9c7b41dc, 0xf497d8e4, 0xd555655a, 0x479a7335, 0x0cfdebf0, 0x66f12930, 0x8fb109d1,
			0x797f2775, 0xeb5cd530, 0xbaade822, 0x5c154c79, 0xddcb74ed, 0x6dd3c55f, 0x580a9bb1, 0xe3a7cc35,
		},
		IHV:    "9603161fa30f9dbf9f65ffbcf41fc7ef",
		Digest: "a4c0d35c95a63a805915367dcfe6b751",
	},
	{
		Name: "wang-2",
		M1: md5block.Block{
			0x313e82d8, 0x5b8f3456, 0xd4ac6dae, 0xc619c936, 0xb4e253dd, 0xfd03da87, 0x06633902, 0xa0cd48d2,
			0x42339fe9, 0xe87e570f, 0x70b654ce, 0x1e0da880, 0xbc2198c6, 0x9383a8b6, 0x2b65f996, 0x702af76f,
		},
		M1Prime: md5block.Block{
			0x313e82d8, 0x5b8f3456, 0xd4ac6dae, 0xc619c936, 0x34e253dd, 0xfd03da87, 0x06633902, 0xa0cd48d2,
			0x42339fe9, 0xe87e570f, 0x70b654ce, 0x1e0d2880, 0xbc2198c6, 0x9383a8b6, 0xab65f996, 0x702af76f,
		},
		IHV:    "8d5e701961804e08715d6b586324c015",
		Digest: "79054025255fb1a26e4bc422aef54eb4",
	},
}

// IHV0 is the chaining value after M0, as big-endian words.
const IHV0 = "525893243093d7ca2a06dc5420c5be06"
