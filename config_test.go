package md5coll

import (
	"github.com/p7r0x7/md5coll/md5block"
	"github.com/p7r0x7/md5coll/vectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "md5coll.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MD5COLL_SEED", "deadbeef")
	cfg, err := LoadConfig(writeConfig(t, `
workers: 3
trials: 1000
seed: ${MD5COLL_SEED}
early_chain_cap: 4096
free_bit_budget: 12
progress_every: 5s
delta_m1: [0, 0, 0, 0, 2147483648, 0, 0, 0, 0, 0, 0, -32768, 0, 0, 2147483648, 0]
`))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, uint64(1000), cfg.Trials)
	assert.Equal(t, "deadbeef", cfg.Seed)
	assert.Equal(t, 4096, cfg.EarlyChainCap)
	assert.Equal(t, 12, cfg.FreeBitBudget)
	assert.Equal(t, 5*time.Second, cfg.ProgressEvery)
	assert.Equal(t, vectors.DiffM1[:], cfg.DeltaM1)
}

func TestLoadConfigBlocks(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
m0: [0x02dd31d1, 0xc4eee6c5, 0x069a3d69, 0x5cf9af98, 0x87b5ca2f, 0xab7e4612, 0x3e580440, 0x897ffbb8,
     0x0634ad55, 0x02b3f409, 0x8388e483, 0x5a417125, 0xe8255108, 0x9fc9cdf7, 0xf2bd1dd9, 0x5b3c3780]
m0_prime: [0x02dd31d1, 0xc4eee6c5, 0x069a3d69, 0x5cf9af98, 0x07b5ca2f, 0xab7e4612, 0x3e580440, 0x897ffbb8,
     0x0634ad55, 0x02b3f409, 0x8388e483, 0x5a41f125, 0xe8255108, 0x9fc9cdf7, 0x72bd1dd9, 0x5b3c3780]
`))
	require.NoError(t, err)
	m0, m0p, delta := cfg.withDefaults().blocks()
	assert.Equal(t, vectors.M0, m0)
	assert.Equal(t, vectors.M0Prime, m0p)
	assert.Equal(t, vectors.DiffM1, delta)

	sc := cfg.withDefaults().searchConfig()
	assert.Equal(t, vectors.IHV0, sc.IHV.String())
	assert.Equal(t, md5block.Block{4: 1 << 31, 11: 0xffff8000, 14: 1 << 31}, sc.Delta)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	for name, body := range map[string]string{
		"yaml":     "workers: [",
		"workers":  "workers: -1",
		"cap":      "early_chain_cap: -5",
		"budget":   "free_bit_budget: 33",
		"progress": "progress_every: -1s",
		"pairing":  "m0: [0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]",
		"m0 size":  "m0: [1]\nm0_prime: [2]",
		"delta":    "delta_m1: [1, 2]",
		"range":    "delta_m1: [4294967296, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]",
	} {
		_, err := LoadConfig(writeConfig(t, body))
		assert.ErrorIs(t, err, ErrInvalidConfig, name)
	}
}

func TestDelta(t *testing.T) {
	assert.Equal(t, md5block.Block{4: 0x80000000, 11: 0x00008000, 14: 0x80000000}, Delta(vectors.DiffM0))
}
