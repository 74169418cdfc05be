package conditions_test

import (
	"github.com/p7r0x7/md5coll/conditions"
	"github.com/p7r0x7/md5coll/md5block"
	"github.com/p7r0x7/md5coll/step"
	"github.com/p7r0x7/md5coll/vectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	tab := conditions.Default()
	assert.Equal(t, 288, tab.Len())
	for step := 25; step <= conditions.Steps; step++ {
		assert.Empty(t, tab.For(step), "step %d", step)
	}
	assert.Nil(t, tab.For(0))
	assert.Nil(t, tab.For(65))

	m := tab.Mask(24)
	assert.Equal(t, uint32(1)<<31, m.CopyNot)
	assert.Equal(t, conditions.Mask{One: 0x84200000, Zero: 0x0A000820}, tab.Mask(1))
}

func TestDefaultTableHoldsForPublishedPairs(t *testing.T) {
	tab, iv := conditions.Default(), md5block.Compress(md5block.IV, &vectors.M0)
	for _, p := range vectors.Pairs {
		q := step.Trace(iv, &p.M1)
		for i := 1; i <= 24; i++ {
			assert.True(t, conditions.Satisfied(q.Q(i), q.Q(i-1), tab.For(i)), "%s Q%d", p.Name, i)
			assert.True(t, tab.Mask(i).Satisfied(q.Q(i), q.Q(i-1)), "%s Q%d", p.Name, i)
		}
	}
}

func TestConditionsAddressDisjointBits(t *testing.T) {
	tab := conditions.Default()
	for step := 1; step <= conditions.Steps; step++ {
		seen := map[uint]bool{}
		for _, c := range tab.For(step) {
			assert.False(t, seen[c.Bit], "step %d bit %d", step, c.Bit)
			seen[c.Bit] = true
		}
		m := tab.Mask(step)
		assert.Zero(t, m.One&m.Zero|m.One&m.Copy|m.One&m.CopyNot|m.Zero&m.Copy|m.Zero&m.CopyNot|m.Copy&m.CopyNot)
	}
}

func TestApplySatisfies(t *testing.T) {
	tab, rng := conditions.Default(), rand.New(rand.NewSource(7))
	for n := 0; n < 2000; n++ {
		step := 1 + rng.Intn(24)
		value, ref := rng.Uint32(), rng.Uint32()

		got := conditions.Apply(value, ref, tab.For(step))
		require.True(t, conditions.Satisfied(got, ref, tab.For(step)), "step %d", step)
		require.Equal(t, got, conditions.Apply(got, ref, tab.For(step)))
		require.Equal(t, got, tab.Mask(step).Apply(value, ref))
		require.Equal(t, got&^tab.Mask(step).Bits(), value&^tab.Mask(step).Bits())
	}
}

func TestApplyForceOneTopBit(t *testing.T) {
	tab, err := conditions.New(conditions.Condition{Step: 1, Bit: 31, Kind: conditions.ForceOne})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(3))
	for n := 0; n < 64; n++ {
		q1 := conditions.Apply(rng.Uint32(), 0, tab.For(1))
		assert.Equal(t, uint32(1), q1>>31)
	}
}

func TestCopyKinds(t *testing.T) {
	conds := []conditions.Condition{
		{Step: 5, Bit: 0, Kind: conditions.Copy},
		{Step: 5, Bit: 1, Kind: conditions.CopyNot},
	}
	assert.Equal(t, uint32(0b01), conditions.Apply(0, 0b11, conds))
	assert.Equal(t, uint32(0b10), conditions.Apply(0b11, 0b00, conds))
	assert.False(t, conditions.Satisfied(0b11, 0b11, conds))
}

func TestMaskBack(t *testing.T) {
	m, rng := conditions.Default().Mask(2), rand.New(rand.NewSource(11))
	for n := 0; n < 256; n++ {
		q2 := rng.Uint32()
		q1 := m.Back(rng.Uint32(), q2)
		assert.Equal(t, m.Relative()&q2, m.Relative()&(m.Copy&q1|m.CopyNot&^q1))
	}
}

func TestParse(t *testing.T) {
	tab, err := conditions.Parse(strings.NewReader("# header\n\n1 32 1\n  2 1 0  \n2 2 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Len())
	assert.Equal(t, []conditions.Condition{{Step: 1, Bit: 31, Kind: conditions.ForceOne}}, tab.For(1))
	assert.Equal(t, conditions.Mask{Zero: 1, CopyNot: 2}, tab.Mask(2))
	assert.Equal(t, "1 32 1\n2 1 0\n2 2 3\n", tab.String())
}

func TestParseRejects(t *testing.T) {
	for input, line := range map[string]string{
		"1 2":            "line 1",
		"# c\n0 1 1":     "line 2",
		"65 1 1":         "line 1",
		"1 0 1":          "line 1",
		"1 33 1":         "line 1",
		"1 1 4":          "line 1",
		"1 x 1":          "line 1",
		"1 1 1\n\n1 1 0": "line 3",
		"1 1 1 1":        "line 1",
	} {
		_, err := conditions.Parse(strings.NewReader(input))
		require.ErrorIs(t, err, conditions.ErrMalformed, input)
		assert.Contains(t, err.Error(), line, input)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cond.txt")
	require.NoError(t, os.WriteFile(path, []byte(conditions.Default().String()), 0o600))
	tab, err := conditions.Load(path)
	require.NoError(t, err)
	assert.Equal(t, conditions.Default().Digest(), tab.Digest())

	_, err = conditions.Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewRejects(t *testing.T) {
	_, err := conditions.New(conditions.Condition{Step: 3, Bit: 32})
	assert.ErrorIs(t, err, conditions.ErrMalformed)
	_, err = conditions.New(conditions.Condition{Step: 3, Bit: 4}, conditions.Condition{Step: 3, Bit: 4, Kind: conditions.Copy})
	assert.ErrorIs(t, err, conditions.ErrMalformed)
}
