package step

import "github.com/p7r0x7/md5coll/md5block"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Chain holds Q-3 through Q64 of one compression. Q-3..Q0 are the input chaining value as
// (a, d, c, b); Qi for i >= 1 is the chaining variable produced by 0-based step i-1.
type Chain [md5block.Steps + 4]uint32

// Seed returns a chain whose first four entries come from iv.
func Seed(iv md5block.State) (q Chain) {
	q.Set(-3, iv.A)
	q.Set(-2, iv.D)
	q.Set(-1, iv.C)
	q.Set(0, iv.B)
	return
}

// Trace runs every step of m from iv and records the whole chain.
func Trace(iv md5block.State, m *md5block.Block) Chain {
	q := Seed(iv)
	q.Run(m, 0, md5block.Steps)
	return q
}

// Q returns Qi.
func (q *Chain) Q(i int) uint32 { return q[i+3] }

// Set stores Qi.
func (q *Chain) Set(i int, v uint32) { q[i+3] = v }

// Forward computes Q(i+1) from 0-based step i and returns it.
func (q *Chain) Forward(i int, m *md5block.Block) uint32 {
	p := &Table[i]
	v := Forward(*p, q.Q(i-3), q.Q(i), q.Q(i-1), q.Q(i-2), m[p.Word])
	q.Set(i+1, v)
	return v
}

// Inverse recovers and stores the message word of 0-based step i from Q(i-3)..Q(i+1).
func (q *Chain) Inverse(i int, m *md5block.Block) uint32 {
	p := &Table[i]
	w := Inverse(*p, q.Q(i+1), q.Q(i-3), q.Q(i), q.Q(i-1), q.Q(i-2))
	m[p.Word] = w
	return w
}

// Sum returns the pre-rotation sum of 0-based step i.
func (q *Chain) Sum(i int, m *md5block.Block) uint32 {
	p := &Table[i]
	return Sum(*p, q.Q(i-3), q.Q(i), q.Q(i-1), q.Q(i-2), m[p.Word])
}

// Run computes steps [from, to).
func (q *Chain) Run(m *md5block.Block, from, to int) {
	for i := from; i < to; i++ {
		q.Forward(i, m)
	}
}

// Output returns the chaining value after step 64, before the feed-forward addition.
func (q *Chain) Output() md5block.State {
	return md5block.State{A: q.Q(61), B: q.Q(64), C: q.Q(63), D: q.Q(62)}
}
