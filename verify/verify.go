// Package verify checks candidate collisions independently of the search: it hashes the full
// padded two-block messages with a real MD5 implementation and checks the block differences.
package verify

import (
	"crypto/md5"
	"errors"
	. "fmt"
	md5simd "github.com/minio/md5-simd"
	"github.com/p7r0x7/md5coll/md5block"
	"golang.org/x/sys/cpu"
	"sync"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var (
	ErrMismatch   = errors.New("verify: digests differ")
	ErrDifference = errors.New("verify: block difference does not match")
)

// Lanes reports whether multi-lane hashing is available on this CPU.
var Lanes = featureCheck()

func featureCheck() bool {
	switch {
	case cpu.X86.HasAVX512F, cpu.X86.HasAVX2:
		return true
	default:
		return false
	}
}

// Digester computes MD5 digests of whole messages, batching them across SIMD lanes when the CPU
// supports it.
type Digester struct {
	server md5simd.Server
}

// NewDigester returns a Digester; Close releases its lanes.
func NewDigester() *Digester {
	if !Lanes {
		return &Digester{}
	}
	return &Digester{server: md5simd.NewServer()}
}

func (d *Digester) Close() {
	if d.server != nil {
		d.server.Close()
	}
}

// Sum returns the MD5 digest of each message, in order. A lane that fails to take its whole message
// fails the call.
func (d *Digester) Sum(msgs ...[]byte) ([][md5.Size]byte, error) {
	out := make([][md5.Size]byte, len(msgs))
	if d.server == nil {
		for i, m := range msgs {
			out[i] = md5.Sum(m)
		}
		return out, nil
	}
	errs := make([]error, len(msgs))
	var wg sync.WaitGroup
	for i := range msgs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h := d.server.NewHash()
			defer h.Close()
			if _, err := h.Write(msgs[i]); err != nil {
				errs[i] = Errorf("verify: message %d: %w", i, err)
				return
			}
			copy(out[i][:], h.Sum(nil))
		}(i)
	}
	wg.Wait()
	return out, errors.Join(errs...)
}

// Difference checks that m1p - m1 equals delta word for word, modulo 2^32.
func Difference(m1, m1p md5block.Block, delta [md5block.Words]int64) error {
	for i := range m1 {
		if m1p[i]-m1[i] != uint32(delta[i]) {
			return Errorf("%w: word %d is %#08x, want %#08x", ErrDifference, i, m1p[i]-m1[i], uint32(delta[i]))
		}
	}
	return nil
}

// Pair checks that M0‖M1 and M0′‖M1′ hash to the same MD5 digest and that M1′ differs from M1 by
// delta. It returns the shared digest.
func (d *Digester) Pair(m0, m0p, m1, m1p md5block.Block, delta [md5block.Words]int64) ([md5.Size]byte, error) {
	if err := Difference(m1, m1p, delta); err != nil {
		return [md5.Size]byte{}, err
	}
	sums, err := d.Sum(append(m0.Bytes(), m1.Bytes()...), append(m0p.Bytes(), m1p.Bytes()...))
	if err != nil {
		return [md5.Size]byte{}, err
	}
	if sums[0] != sums[1] {
		return sums[0], Errorf("%w: %x != %x", ErrMismatch, sums[0], sums[1])
	}
	return sums[0], nil
}
