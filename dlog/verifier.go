package dlog

import (
	"math/big"

	"zk-dlog/internal/modarith"
)

// Verifier checks proofs under one fixed (generator, modulus) pair. A
// Verifier is immutable after construction and safe for concurrent use as
// long as XOF is not reassigned concurrently.
type Verifier struct {
	// XOF drives the challenge derivation and must match the prover's.
	// A nil value selects the default SHAKE-256 expander.
	XOF XOF

	params Params
	ctx    *modarith.Context
	g      *big.Int
	p      *big.Int
}

// NewVerifier returns a verifier over (generator, modulus) with
// DefaultParams.
func NewVerifier(generator, modulus *big.Int) *Verifier {
	return NewVerifierWithParams(generator, modulus, DefaultParams)
}

// NewVerifierWithParams returns a verifier over (generator, modulus) with
// the provided parameters, under the same contract as NewProverWithParams.
func NewVerifierWithParams(generator, modulus *big.Int, par Params) *Verifier {
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
	return &Verifier{
		XOF:    NewShake256XOF(digestLen),
		params: par,
		ctx:    modarith.NewContext(modulus, par.Bits),
		g:      new(big.Int).Set(generator),
		p:      new(big.Int).Set(modulus),
	}
}

// Params returns the parameter set the verifier was built with.
func (vr *Verifier) Params() Params {
	return vr.params
}

// Verify reports whether proof demonstrates knowledge of the discrete
// logarithm of residue. A proof with the wrong round count is rejected
// before any round is evaluated; a round carrying a nil, negative, or
// over-width value is rejected the same way. Per surviving round the
// challenge bit is re-derived from the commitment, and the round holds iff
// g^s equals the commitment (bit 0) or commitment·residue mod p (bit 1).
// All rounds must hold.
//
// Invalidity of any kind is an ordinary false result: Verify never returns
// an error and never panics on proof or residue content.
func (vr *Verifier) Verify(residue *big.Int, proof Proof) bool {
	if len(proof) != vr.params.Rounds {
		return false
	}
	if !modarith.Fits(residue, vr.params.Bits) {
		return false
	}
	xof := vr.XOF
	if xof == nil {
		xof = NewShake256XOF(digestLen)
	}
	for _, rd := range proof {
		if !modarith.Fits(rd.H, vr.params.Bits) || !modarith.Fits(rd.S, vr.params.Bits) {
			return false
		}
		lhs := vr.ctx.PowMod(vr.g, rd.S)
		var rhs *big.Int
		if DeriveBit(xof, vr.params.Bits, rd.H, vr.g, vr.p) == 0 {
			// the commitment is compared as transmitted; only the bit-1
			// branch reduces it
			rhs = rd.H
		} else {
			rhs = vr.ctx.MulMod(rd.H, residue)
		}
		if lhs.Cmp(rhs) != 0 {
			return false
		}
	}
	return true
}
