package dlog

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"zk-dlog/internal/modarith"
)

// Prover generates proofs of knowledge of discrete logarithms under one
// fixed (generator, modulus) pair. A Prover is immutable after construction
// and safe for concurrent use as long as XOF is not reassigned concurrently.
type Prover struct {
	// XOF drives the challenge derivation and must match the verifier's.
	// A nil value selects the default SHAKE-256 expander.
	XOF XOF

	params Params
	ctx    *modarith.Context
	g      *big.Int
	p      *big.Int
	order  *big.Int // p-1, the response domain
}

// NewProver returns a prover over (generator, modulus) with DefaultParams.
func NewProver(generator, modulus *big.Int) *Prover {
	return NewProverWithParams(generator, modulus, DefaultParams)
}

// NewProverWithParams returns a prover over (generator, modulus) with the
// provided parameters. It panics on a modulus that is nil, <= 1, even, or
// wider than par.Bits, on a generator outside the width, and on invalid
// parameters; these are caller contract violations, not runtime conditions.
func NewProverWithParams(generator, modulus *big.Int, par Params) *Prover {
	if par.Rounds <= 0 {
		panic("dlog: invalid Rounds (must be > 0)")
	}
	if par.Bits <= 0 || par.Bits%8 != 0 {
		panic("dlog: invalid Bits (must be a positive multiple of 8)")
	}
	if modulus == nil || modulus.Cmp(one) <= 0 {
		panic("dlog: modulus must be > 1")
	}
	if modulus.Bit(0) == 0 {
		panic("dlog: even modulus not supported")
	}
	if modulus.BitLen() > par.Bits {
		panic("dlog: modulus exceeds fixed width")
	}
	if !modarith.Fits(generator, par.Bits) {
		panic("dlog: generator exceeds fixed width")
	}
	return &Prover{
		XOF:    NewShake256XOF(digestLen),
		params: par,
		ctx:    modarith.NewContext(modulus, par.Bits),
		g:      new(big.Int).Set(generator),
		p:      new(big.Int).Set(modulus),
		order:  new(big.Int).Sub(modulus, one),
	}
}

// Params returns the parameter set the prover was built with.
func (pr *Prover) Params() Params {
	return pr.params
}

// Prove computes the residue g^secret mod p and a Params.Rounds-round proof
// of knowledge of secret. Per round it draws r uniformly below p-1 from rnd,
// commits to h = g^r mod p, derives the challenge bit from (h, g, p), and
// responds with r itself or r + secret mod (p-1). A nil rnd selects
// crypto/rand.Reader; the only error path is a failing entropy source.
//
// The response reduction mod p-1 is exact for any secret, including
// secret >= p-1. It matches the true order of the generator only when that
// order divides p-1, which holds for any prime modulus; see the package
// comment for the composite case.
//
// It panics if secret is nil, negative, or wider than Params.Bits.
func (pr *Prover) Prove(secret *big.Int, rnd io.Reader) (*big.Int, Proof, error) {
	if !modarith.Fits(secret, pr.params.Bits) {
		panic("dlog: secret must be a non-negative value within the fixed width")
	}
	if rnd == nil {
		rnd = rand.Reader
	}
	xof := pr.XOF
	if xof == nil {
		xof = NewShake256XOF(digestLen)
	}

	residue := pr.ctx.PowMod(pr.g, secret)
	proof := make(Proof, 0, pr.params.Rounds)
	for i := 0; i < pr.params.Rounds; i++ {
		r, err := rand.Int(rnd, pr.order)
		if err != nil {
			return nil, nil, fmt.Errorf("dlog: draw round randomness: %w", err)
		}
		h := pr.ctx.PowMod(pr.g, r)
		s := r
		if DeriveBit(xof, pr.params.Bits, h, pr.g, pr.p) != 0 {
			s = new(big.Int).Add(r, secret)
			s.Mod(s, pr.order)
		}
		proof = append(proof, Round{H: h, S: s})
	}
	return residue, proof, nil
}
