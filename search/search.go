// Package search drives one worker's side of the second-block collision search. A Searcher runs
// independent trials; each trial chooses chaining variables that satisfy the condition table,
// derives the message words they imply, enumerates the free bits of Q9 and Q10 and checks every
// resulting chain against the later round conditions before comparing real digests.
package search

import (
	"github.com/p7r0x7/md5coll/conditions"
	"github.com/p7r0x7/md5coll/md5block"
	"github.com/p7r0x7/md5coll/step"
	. "math/bits"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Outcome is how a trial ended.
type Outcome uint8

const (
	// Exhausted means no Q1 produced a valid Q17..Q21 within the early chain cap.
	Exhausted Outcome = iota
	// Rejected means every Q9/Q10 combination failed a later check.
	Rejected
	// NearCollision means a chain passed every check but the digests differ.
	NearCollision
	// Collision means the digests of both messages are equal.
	Collision
)

func (o Outcome) String() string {
	return [...]string{"exhausted", "rejected", "near-collision", "collision"}[o]
}

// Pair is a candidate second block and its partner.
type Pair struct {
	M1, M1Prime md5block.Block
	/* Chaining values after M1 and M1′; equal for a collision. */
	IHV, IHVPrime md5block.State
}

// Result reports the outcome of a trial. Pair is set for NearCollision and Collision.
type Result struct {
	Outcome
	Pair
}

// Searcher owns the mutable state of one search worker. It is not safe for concurrent use.
type Searcher struct {
	cfg   Config
	masks [conditions.Steps + 1]conditions.Mask
	src   Source
	q     step.Chain
	m     md5block.Block
	stats Stats

	/* Sum checks indexed by 0-based step. */
	sumMask, sumWant [md5block.Steps]uint32
}

// New validates cfg, fills its defaults and returns a Searcher drawing from src.
func New(cfg Config, src Source) (*Searcher, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Searcher{cfg: cfg, masks: cfg.Table.Masks(), src: src}
	for _, c := range cfg.SumChecks {
		s.sumMask[c.Step] |= 1 << c.Bit
		s.sumWant[c.Step] |= c.Value << c.Bit
	}
	return s, nil
}

// Config returns the configuration in effect, defaults included.
func (s *Searcher) Config() Config { return s.cfg }

// Stats returns the counters accumulated so far.
func (s *Searcher) Stats() Stats { return s.stats }

// Trial runs the search once from scratch.
func (s *Searcher) Trial() Result {
	s.stats.Trials++
	s.init()
	s.earlyChain()
	if !s.searchQ1() {
		s.stats.Exhausted++
		return Result{Outcome: Exhausted}
	}
	s.stats.EarlyChains++
	return s.enumerate()
}

// init seeds Q-3..Q0 from the chaining value and draws Q2..Q16 under their conditions.
func (s *Searcher) init() {
	s.q = step.Seed(s.cfg.IHV)
	s.q.Set(1, 0)
	for i := 2; i <= 16; i++ {
		s.q.Set(i, s.masks[i].Apply(s.src.Uint32(), s.q.Q(i-1)))
	}
}

// earlyChain derives words 5..15, which depend only on Q2..Q16.
func (s *Searcher) earlyChain() {
	for i := 5; i < 16; i++ {
		s.q.Inverse(i, &s.m)
	}
}

// searchQ1 draws Q1 until the forward chain Q17..Q21 meets its conditions or the cap runs out.
// Q1 also takes on Q2's relative bits, since Q2 was drawn before it.
func (s *Searcher) searchQ1() bool {
	m1, m2 := s.masks[1], s.masks[2]
	for n := 0; n < s.cfg.EarlyChainCap; n++ {
		s.stats.Q1Draws++
		q1 := m2.Back(m1.Apply(s.src.Uint32(), s.q.Q(0)), s.q.Q(2))
		if !m1.Satisfied(q1, s.q.Q(0)) {
			continue
		}
		s.q.Set(1, q1)
		for i := 0; i < 5; i++ {
			s.q.Inverse(i, &s.m)
		}
		if s.forward(16, 21) {
			return true
		}
	}
	return false
}

// forward computes steps [from, to) and checks each new chaining variable against its mask and
// each step against its sum check, stopping at the first failure.
func (s *Searcher) forward(from, to int) bool {
	for i := from; i < to; i++ {
		if s.sumMask[i] != 0 && s.q.Sum(i, &s.m)&s.sumMask[i] != s.sumWant[i] {
			s.stats.SumRejects++
			return false
		}
		v := s.q.Forward(i, &s.m)
		if !s.masks[i+1].Satisfied(v, s.q.Q(i)) {
			return false
		}
	}
	return true
}

// freeBits returns the bits of Q9 and Q10 that can flip without moving word 11 or breaking any
// condition, trimmed to the free bit budget.
func (s *Searcher) freeBits() (f9, f10 uint32) {
	q11 := s.q.Q(11)
	f9 = q11 &^ (s.masks[9].Bits() | s.masks[10].Relative())
	f10 = ^q11 &^ (s.masks[10].Bits() | s.masks[11].Relative())
	for OnesCount32(f9)+OnesCount32(f10) > s.cfg.FreeBitBudget {
		if OnesCount32(f9) > OnesCount32(f10) {
			f9 &^= 1 << (31 - LeadingZeros32(f9))
		} else {
			f10 &^= 1 << (31 - LeadingZeros32(f10))
		}
	}
	return
}

// enumerate walks every subset of the free bits of Q9 and Q10, starting with the unmodified pair,
// and ends the trial at the first chain that passes every check.
func (s *Searcher) enumerate() Result {
	f9, f10 := s.freeBits()
	q9, q10, w11 := s.q.Q(9), s.q.Q(10), s.m[11]
	for sub10 := uint32(0); ; {
		for sub9 := uint32(0); ; {
			s.stats.Combinations++
			s.q.Set(9, q9^sub9)
			s.q.Set(10, q10^sub10)
			if s.candidate(w11) {
				return s.verify()
			}
			if sub9 = (sub9 - f9) & f9; sub9 == 0 {
				break
			}
		}
		if sub10 = (sub10 - f10) & f10; sub10 == 0 {
			break
		}
	}
	s.q.Set(9, q9)
	s.q.Set(10, q10)
	s.stats.Rejected++
	return Result{Outcome: Rejected}
}

// candidate rederives the words touched by the current Q9 and Q10 and runs rounds two through four.
func (s *Searcher) candidate(w11 uint32) bool {
	for _, i := range [...]int{8, 9, 10, 12, 13} {
		s.q.Inverse(i, &s.m)
	}
	if p := step.For(11); step.Inverse(p, s.q.Q(12), s.q.Q(8), s.q.Q(11), s.q.Q(10), s.q.Q(9)) != w11 {
		s.stats.WordRejects++
		return false
	}
	if !s.forward(21, 24) {
		return false
	}
	s.stats.Round2Passes++
	if !s.forward(24, md5block.Steps) {
		return false
	}
	if !s.signs() {
		s.stats.SignRejects++
		return false
	}
	return true
}

func (s *Searcher) signs() bool {
	top := make([]uint32, len(s.cfg.Signs.Equal))
	for g, idx := range s.cfg.Signs.Equal {
		top[g] = s.q.Q(idx[0]) >> 31
		for _, i := range idx[1:] {
			if s.q.Q(i)>>31 != top[g] {
				return false
			}
		}
	}
	for _, d := range s.cfg.Signs.Differ {
		if top[d[0]] == top[d[1]] {
			return false
		}
	}
	return true
}

// verify builds M1′ and compares the real compression outputs of both messages.
func (s *Searcher) verify() Result {
	p := Pair{M1: s.m}
	for i := range p.M1Prime {
		p.M1Prime[i] = s.m[i] + s.cfg.Delta[i]
	}
	p.IHV = md5block.Compress(s.cfg.IHV, &p.M1)
	p.IHVPrime = md5block.Compress(s.cfg.IHVPrime, &p.M1Prime)
	if p.IHV != p.IHVPrime {
		s.stats.NearCollisions++
		return Result{NearCollision, p}
	}
	s.stats.Collisions++
	return Result{Collision, p}
}
