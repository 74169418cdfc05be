package search

import (
	"errors"
	. "fmt"
	"github.com/p7r0x7/md5coll/conditions"
	"github.com/p7r0x7/md5coll/md5block"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const (
	// DefaultEarlyChainCap bounds the Q1 draws spent looking for a Q17..Q21 chain per trial.
	DefaultEarlyChainCap = 1 << 13
	// DefaultFreeBitBudget bounds the combined free bits of Q9 and Q10 that are enumerated.
	DefaultFreeBitBudget = 15
)

var ErrConfig = errors.New("search: invalid config")

// SumCheck requires bit Bit of the pre-rotation sum of 0-based step Step to equal Value.
type SumCheck struct {
	Step  int
	Bit   uint
	Value uint32
}

// SignCheck constrains the top bits of late chaining variables. Every group in Equal shares one
// top bit; each pair in Differ names two groups whose top bits must differ.
type SignCheck struct {
	Equal  [][]int
	Differ [][2]int
}

// DefaultSumChecks are the carry conditions on T22 and T34.
func DefaultSumChecks() []SumCheck {
	return []SumCheck{{Step: 22, Bit: 17, Value: 0}, {Step: 34, Bit: 15, Value: 1}}
}

// DefaultSignCheck groups the round-four chaining variables whose top-bit differences must cancel.
func DefaultSignCheck() SignCheck {
	return SignCheck{
		Equal: [][]int{
			{46, 48, 60, 62},
			{47, 49, 51, 53, 55, 57, 59, 61, 63},
			{50, 52, 54, 56, 58},
		},
		Differ: [][2]int{{0, 2}},
	}
}

// Config describes one second-block search.
type Config struct {
	Table *conditions.Table
	/* Chaining values after M0 and M0′. */
	IHV, IHVPrime md5block.State
	/* Word-wise addends taking M1 to M1′, modulo 2^32. */
	Delta md5block.Block
	/* Zero takes the default for both limits. A budget of one is the smallest that can be set;
	a cap must be positive to draw Q1 at all, so zero has no meaning of its own. */
	EarlyChainCap int
	FreeBitBudget int
	SumChecks     []SumCheck
	Signs         SignCheck
}

// withDefaults fills zero limits and unset checks. Table and chaining values must be supplied.
func (c Config) withDefaults() Config {
	if c.EarlyChainCap == 0 {
		c.EarlyChainCap = DefaultEarlyChainCap
	}
	if c.FreeBitBudget == 0 {
		c.FreeBitBudget = DefaultFreeBitBudget
	}
	if c.SumChecks == nil {
		c.SumChecks = DefaultSumChecks()
	}
	if c.Signs.Equal == nil && c.Signs.Differ == nil {
		c.Signs = DefaultSignCheck()
	}
	return c
}

func (c Config) validate() error {
	switch {
	case c.Table == nil:
		return Errorf("%w: no condition table", ErrConfig)
	case c.EarlyChainCap < 0:
		return Errorf("%w: early chain cap %d is negative", ErrConfig, c.EarlyChainCap)
	case c.FreeBitBudget < 0 || c.FreeBitBudget > 32:
		return Errorf("%w: free bit budget %d out of range 0..32", ErrConfig, c.FreeBitBudget)
	}
	for _, s := range c.SumChecks {
		if s.Step < 0 || s.Step >= md5block.Steps || s.Bit > 31 || s.Value > 1 {
			return Errorf("%w: sum check %+v", ErrConfig, s)
		}
	}
	for _, g := range c.Signs.Equal {
		if len(g) == 0 {
			return Errorf("%w: empty sign group", ErrConfig)
		}
		for _, i := range g {
			if i < 1 || i > md5block.Steps {
				return Errorf("%w: sign group names Q%d", ErrConfig, i)
			}
		}
	}
	for _, d := range c.Signs.Differ {
		if d[0] < 0 || d[1] < 0 || d[0] >= len(c.Signs.Equal) || d[1] >= len(c.Signs.Equal) {
			return Errorf("%w: sign pair %v names a missing group", ErrConfig, d)
		}
	}
	return nil
}
