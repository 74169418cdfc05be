package search

import (
	"github.com/p7r0x7/md5coll/conditions"
	"github.com/p7r0x7/md5coll/md5block"
	"github.com/p7r0x7/md5coll/step"
	"github.com/p7r0x7/md5coll/vectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/bits"
	"testing"
)

var delta = md5block.Block{4: 1 << 31, 11: 0xffff8000, 14: 1 << 31}

func testConfig() Config {
	return Config{
		Table:    conditions.Default(),
		IHV:      md5block.Compress(md5block.IV, &vectors.M0),
		IHVPrime: md5block.Compress(md5block.IV, &vectors.M0Prime),
		Delta:    delta,
	}
}

func newSearcher(t *testing.T, cfg Config, seed string) *Searcher {
	s, err := New(cfg, NewSource([]byte(seed), 0))
	require.NoError(t, err)
	return s
}

func TestNewDefaults(t *testing.T) {
	s := newSearcher(t, testConfig(), "defaults")
	cfg := s.Config()
	assert.Equal(t, DefaultEarlyChainCap, cfg.EarlyChainCap)
	assert.Equal(t, DefaultFreeBitBudget, cfg.FreeBitBudget)
	assert.Equal(t, DefaultSumChecks(), cfg.SumChecks)
	assert.Equal(t, DefaultSignCheck(), cfg.Signs)
}

func TestNewSmallestLimits(t *testing.T) {
	cfg := testConfig()
	cfg.EarlyChainCap, cfg.FreeBitBudget = 1, 1
	s := newSearcher(t, cfg, "smallest")
	assert.Equal(t, 1, s.Config().EarlyChainCap)
	assert.Equal(t, 1, s.Config().FreeBitBudget)

	s.q.Set(11, 0xffff)
	f9, f10 := s.freeBits()
	assert.LessOrEqual(t, bits.OnesCount32(f9)+bits.OnesCount32(f10), 1)
}

func TestNewRejects(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"table":  func(c *Config) { c.Table = nil },
		"cap":    func(c *Config) { c.EarlyChainCap = -1 },
		"budget": func(c *Config) { c.FreeBitBudget = 33 },
		"sum":    func(c *Config) { c.SumChecks = []SumCheck{{Step: 64}} },
		"group":  func(c *Config) { c.Signs = SignCheck{Equal: [][]int{{65}}} },
		"pair":   func(c *Config) { c.Signs = SignCheck{Equal: [][]int{{46}}, Differ: [][2]int{{0, 1}}} },
	} {
		cfg := testConfig()
		mutate(&cfg)
		_, err := New(cfg, NewSource(nil, 0))
		assert.ErrorIs(t, err, ErrConfig, name)
	}
}

// The enumeration tries the unmodified Q9 and Q10 first, so a chain traced from a published
// collision must come straight back as that collision.
func TestEnumerateFindsPublishedPair(t *testing.T) {
	for _, p := range vectors.Pairs {
		t.Run(p.Name, func(t *testing.T) {
			s := newSearcher(t, testConfig(), p.Name)
			s.q = step.Trace(s.cfg.IHV, &p.M1)
			s.m = p.M1

			r := s.enumerate()
			require.Equal(t, Collision, r.Outcome)
			assert.Equal(t, p.M1, r.M1)
			assert.Equal(t, p.M1Prime, r.M1Prime)
			assert.Equal(t, p.IHV, r.IHV.String())
			assert.Equal(t, r.IHV, r.IHVPrime)
			assert.Equal(t, uint64(1), s.Stats().Combinations)
			assert.Equal(t, uint64(1), s.Stats().Collisions)
		})
	}
}

func TestPublishedPairsPassLateChecks(t *testing.T) {
	for _, p := range vectors.Pairs {
		s := newSearcher(t, testConfig(), p.Name)
		s.q = step.Trace(s.cfg.IHV, &p.M1)
		s.m = p.M1
		assert.True(t, s.signs(), p.Name)
		assert.True(t, s.forward(21, md5block.Steps), p.Name)
	}
}

func TestFreeBits(t *testing.T) {
	s := newSearcher(t, testConfig(), "free")
	s.q = step.Trace(s.cfg.IHV, &vectors.Pairs[0].M1)
	f9, f10 := s.freeBits()
	q11 := s.q.Q(11)

	assert.Zero(t, f9&^q11)
	assert.Zero(t, f10&q11)
	assert.Zero(t, f9&(s.masks[9].Bits()|s.masks[10].Relative()))
	assert.Zero(t, f10&(s.masks[10].Bits()|s.masks[11].Relative()))
	assert.LessOrEqual(t, bits.OnesCount32(f9)+bits.OnesCount32(f10), DefaultFreeBitBudget)
}

func TestFreeBitsTrimming(t *testing.T) {
	cfg := testConfig()
	cfg.Table, _ = conditions.New()
	cfg.FreeBitBudget = 4
	s := newSearcher(t, cfg, "trim")

	s.q.Set(11, 0x000000ff)
	f9, f10 := s.freeBits()
	assert.Equal(t, uint32(0x0003), f9)
	assert.Equal(t, uint32(0x0300), f10)

	s.q.Set(11, 0x0000ffff)
	s.cfg.FreeBitBudget = 3
	f9, f10 = s.freeBits()
	assert.Equal(t, 3, bits.OnesCount32(f9)+bits.OnesCount32(f10))
	assert.Equal(t, uint32(0x0003), f9)
	assert.Equal(t, uint32(0x00010000), f10, "ties drop from Q10")
}

func TestEarlyChainSatisfiesConditions(t *testing.T) {
	s := newSearcher(t, testConfig(), "early")
	for n := 0; n < 64; n++ {
		s.init()
		s.earlyChain()
		if !s.searchQ1() {
			continue
		}
		q := step.Trace(s.cfg.IHV, &s.m)
		for i := 1; i <= 21; i++ {
			require.Equal(t, q.Q(i), s.q.Q(i), "Q%d", i)
			require.True(t, s.masks[i].Satisfied(q.Q(i), q.Q(i-1)), "Q%d", i)
		}
		return
	}
	t.Fatal("no early chain in 64 trials")
}

func TestExhausted(t *testing.T) {
	conds := []conditions.Condition(nil)
	def := conditions.Default()
	for i := 1; i <= 16; i++ {
		conds = append(conds, def.For(i)...)
	}
	for b := uint(0); b < 32; b++ {
		conds = append(conds, conditions.Condition{Step: 17, Bit: b, Kind: conditions.ForceZero})
	}
	cfg := testConfig()
	var err error
	cfg.Table, err = conditions.New(conds...)
	require.NoError(t, err)
	cfg.EarlyChainCap = 16

	s := newSearcher(t, cfg, "exhausted")
	r := s.Trial()
	assert.Equal(t, Exhausted, r.Outcome)
	assert.Equal(t, Stats{Trials: 1, Exhausted: 1, Q1Draws: 16}, s.Stats())
}

func TestTrialOutcomes(t *testing.T) {
	if testing.Short() {
		t.Skip("runs full trials")
	}
	s := newSearcher(t, testConfig(), "trials")
	for n := 0; n < 16; n++ {
		r := s.Trial()
		switch r.Outcome {
		case NearCollision, Collision:
			p := r.Pair
			for i := range p.M1 {
				assert.Equal(t, delta[i], p.M1Prime[i]-p.M1[i])
			}
			assert.Equal(t, r.Outcome == Collision, p.IHV == p.IHVPrime)
		}
	}
	st := s.Stats()
	assert.Equal(t, uint64(16), st.Trials)
	assert.Equal(t, st.Trials, st.Exhausted+st.Rejected+st.NearCollisions+st.Collisions)
	assert.Equal(t, st.EarlyChains, st.Trials-st.Exhausted)
}

func TestSourceIndependence(t *testing.T) {
	a, b, a2 := NewSource([]byte("seed"), 0), NewSource([]byte("seed"), 1), NewSource([]byte("seed"), 0)
	var sa, sb []uint32
	for i := 0; i < 300; i++ {
		x := a.Uint32()
		sa, sb = append(sa, x), append(sb, b.Uint32())
		require.Equal(t, x, a2.Uint32())
	}
	assert.NotEqual(t, sa, sb)
}

func BenchmarkTrial(b *testing.B) {
	s, err := New(testConfig(), NewSource([]byte("bench"), 0))
	require.NoError(b, err)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Trial()
	}
}
