package md5coll

import (
	"crypto/md5"
	"encoding/hex"
	"github.com/google/uuid"
	"github.com/p7r0x7/md5coll/md5block"
	"github.com/zeebo/xxh3"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Collision is a verified second-block pair: MD5(M0‖M1) == MD5(M0′‖M1′) == Digest.
type Collision struct {
	M0, M0Prime md5block.Block
	M1, M1Prime md5block.Block
	Digest      [md5.Size]byte

	Session uuid.UUID
	Worker  int
	Trial   uint64
}

// Messages returns the two colliding 128-byte messages.
func (c *Collision) Messages() (msg, msgPrime []byte) {
	return append(c.M0.Bytes(), c.M1.Bytes()...), append(c.M0Prime.Bytes(), c.M1Prime.Bytes()...)
}

// Fingerprint is a short identifier of the second-block pair for logs.
func (c *Collision) Fingerprint() uint64 {
	return xxh3.Hash(append(c.M1.Bytes(), c.M1Prime.Bytes()...))
}

// DigestHex renders Digest the way md5sum does.
func (c *Collision) DigestHex() string { return hex.EncodeToString(c.Digest[:]) }
