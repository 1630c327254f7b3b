package dlog

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"

	"zk-dlog/internal/modarith"
)

// challengeLabel domain-separates the round-challenge expansion.
const challengeLabel = "dlog-bit"

// digestLen is the default XOF output length for challenge derivation.
const digestLen = 32

// XOF models the extendable-output function behind the challenge derivation.
type XOF interface {
	Expand(label string, parts ...[]byte) []byte
}

// Shake256XOF is a SHAKE-256 backed implementation of XOF with a fixed
// output length.
type Shake256XOF struct {
	outLen int
}

// NewShake256XOF returns a SHAKE-256 XOF that emits outLen bytes on every
// squeeze.
func NewShake256XOF(outLen int) Shake256XOF {
	if outLen <= 0 {
		panic("NewShake256XOF: outLen must be > 0")
	}
	return Shake256XOF{outLen: outLen}
}

// Expand realises the SHAKE-256 duplex keyed by `label` and concatenates
// `parts`.
func (s Shake256XOF) Expand(label string, parts ...[]byte) []byte {
	h := sha3.NewShake256()
	if _, err := h.Write([]byte(label)); err != nil {
		panic(fmt.Errorf("Shake256XOF: write label: %w", err))
	}
	for _, p := range parts {
		if _, err := h.Write(p); err != nil {
			panic(fmt.Errorf("Shake256XOF: write payload: %w", err))
		}
	}
	out := make([]byte, s.outLen)
	if _, err := h.Read(out); err != nil {
		panic(fmt.Errorf("Shake256XOF: read output: %w", err))
	}
	return out
}

// DeriveBit derives the round challenge from the commitment and the public
// parameters. h, g and p are encoded big-endian at the fixed width, expanded
// through the XOF in that order, and the least significant bit of the first
// output byte is the challenge. The derivation is deterministic and never
// sees the response or the secret; hashing the commitment is what pins h
// down before the challenge is known.
func DeriveBit(xof XOF, bits int, h, g, p *big.Int) byte {
	digest := xof.Expand(challengeLabel,
		modarith.FixedBytes(h, bits),
		modarith.FixedBytes(g, bits),
		modarith.FixedBytes(p, bits))
	if len(digest) == 0 {
		panic("dlog: empty challenge digest")
	}
	return digest[0] & 1
}
