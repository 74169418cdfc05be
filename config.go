package md5coll

import (
	. "fmt"
	"github.com/p7r0x7/md5coll/md5block"
	"github.com/p7r0x7/md5coll/search"
	"github.com/p7r0x7/md5coll/vectors"
	"gopkg.in/yaml.v3"
	"os"
	"runtime"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// DefaultProgressEvery is how often a running search logs its counters.
const DefaultProgressEvery = 30 * time.Second

// Config is the file form of a search. Zero fields take defaults: the embedded condition table,
// one worker per CPU, no trial limit, a random seed and the published first blocks. A zero
// early_chain_cap or free_bit_budget also means the default, so the smallest budget is 1.
type Config struct {
	Conditions    string        `yaml:"conditions"`
	Workers       int           `yaml:"workers"`
	Trials        uint64        `yaml:"trials"`
	Seed          string        `yaml:"seed"`
	EarlyChainCap int           `yaml:"early_chain_cap"`
	FreeBitBudget int           `yaml:"free_bit_budget"`
	ProgressEvery time.Duration `yaml:"progress_every"`
	M0            []uint32      `yaml:"m0"`
	M0Prime       []uint32      `yaml:"m0_prime"`
	DeltaM1       []int64       `yaml:"delta_m1"`
}

// LoadConfig reads and validates a YAML config. ${VAR} references are expanded first.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, Errorf("md5coll: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, Errorf("%w: parse: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and the shape of the block overrides.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Workers)
	case c.EarlyChainCap < 0:
		return Errorf("%w: early_chain_cap %d is negative", ErrInvalidConfig, c.EarlyChainCap)
	case c.FreeBitBudget < 0 || c.FreeBitBudget > 32:
		return Errorf("%w: free_bit_budget %d out of range 0..32", ErrInvalidConfig, c.FreeBitBudget)
	case c.ProgressEvery < 0:
		return Errorf("%w: progress_every %v is negative", ErrInvalidConfig, c.ProgressEvery)
	case (len(c.M0) == 0) != (len(c.M0Prime) == 0):
		return Errorf("%w: m0 and m0_prime must be given together", ErrInvalidConfig)
	}
	for name, n := range map[string]int{"m0": len(c.M0), "m0_prime": len(c.M0Prime), "delta_m1": len(c.DeltaM1)} {
		if n != 0 && n != md5block.Words {
			return Errorf("%w: %s has %d words, want %d", ErrInvalidConfig, name, n, md5block.Words)
		}
	}
	for i, d := range c.DeltaM1 {
		if d <= -1<<32 || d >= 1<<32 {
			return Errorf("%w: delta_m1[%d] = %d exceeds 32 bits", ErrInvalidConfig, i, d)
		}
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ProgressEvery == 0 {
		c.ProgressEvery = DefaultProgressEvery
	}
	if len(c.M0) == 0 {
		c.M0, c.M0Prime = vectors.M0[:], vectors.M0Prime[:]
	}
	if len(c.DeltaM1) == 0 {
		c.DeltaM1 = vectors.DiffM1[:]
	}
	return c
}

// blocks returns the first blocks and the second-block difference; c must be defaulted.
func (c Config) blocks() (m0, m0p md5block.Block, delta [md5block.Words]int64) {
	copy(m0[:], c.M0)
	copy(m0p[:], c.M0Prime)
	copy(delta[:], c.DeltaM1)
	return
}

// Delta converts a signed word-wise difference into the addends taking M1 to M1′ modulo 2^32.
func Delta(d [md5block.Words]int64) (b md5block.Block) {
	for i, v := range d {
		b[i] = uint32(v)
	}
	return
}

// searchConfig builds the driver's view of a defaulted config.
func (c Config) searchConfig() search.Config {
	m0, m0p, delta := c.blocks()
	return search.Config{
		IHV:           md5block.Compress(md5block.IV, &m0),
		IHVPrime:      md5block.Compress(md5block.IV, &m0p),
		Delta:         Delta(delta),
		EarlyChainCap: c.EarlyChainCap,
		FreeBitBudget: c.FreeBitBudget,
	}
}
