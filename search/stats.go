package search

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Stats counts how far trials get. Counters only grow.
type Stats struct {
	Trials, Exhausted, Rejected           uint64
	Q1Draws, EarlyChains                  uint64
	Combinations, WordRejects             uint64
	Round2Passes, SumRejects, SignRejects uint64
	NearCollisions, Collisions            uint64
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		s.Trials + o.Trials, s.Exhausted + o.Exhausted, s.Rejected + o.Rejected,
		s.Q1Draws + o.Q1Draws, s.EarlyChains + o.EarlyChains,
		s.Combinations + o.Combinations, s.WordRejects + o.WordRejects,
		s.Round2Passes + o.Round2Passes, s.SumRejects + o.SumRejects, s.SignRejects + o.SignRejects,
		s.NearCollisions + o.NearCollisions, s.Collisions + o.Collisions,
	}
}
