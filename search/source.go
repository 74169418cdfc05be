package search

import (
	"encoding/binary"
	"github.com/aead/chacha20/chacha"
	"github.com/zeebo/blake3"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Source supplies the random words a Searcher draws. Each Searcher owns its Source.
type Source interface {
	Uint32() uint32
}

const streamBuf = 512

var zeroes [streamBuf]byte

type stream struct {
	c   *chacha.Cipher
	buf [streamBuf]byte
	off int
}

// NewSource returns a ChaCha20 keystream whose key and nonce are derived from BLAKE3 of seed and
// worker, so workers sharing a seed never share a trajectory.
func NewSource(seed []byte, worker int) Source {
	in := binary.LittleEndian.AppendUint64(append([]byte(nil), seed...), uint64(worker))
	sum := blake3.Sum512(in)
	c, err := chacha.NewCipher(sum[:chacha.XNonceSize], sum[chacha.XNonceSize:chacha.XNonceSize+chacha.KeySize], 20)
	if err != nil {
		panic(err) /* Sizes are fixed above. */
	}
	return &stream{c: c, off: streamBuf}
}

func (s *stream) Uint32() uint32 {
	if s.off == streamBuf {
		s.c.XORKeyStream(s.buf[:], zeroes[:])
		s.off = 0
	}
	v := binary.LittleEndian.Uint32(s.buf[s.off:])
	s.off += 4
	return v
}
