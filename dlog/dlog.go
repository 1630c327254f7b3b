package dlog

// Package dlog implements a non-interactive zero-knowledge proof of
// knowledge of a discrete logarithm: given y = g^x mod p, the prover shows
// it knows x without revealing it. Each of the proof's rounds commits to
// h = g^r mod p, derives a challenge bit from SHAKE-256 over the fixed-width
// encodings of (h, g, p), and answers with s = r or s = r + x mod (p-1); the
// verifier rechecks every round against the corresponding equation. The
// challenge derivation replaces the interactive verifier, so a proof is a
// self-contained transcript.
//
// The supported modulus class is odd p > 1 (the reduction backend is
// Montgomery based). Responses reduce mod p-1 regardless of the true order
// of the generator: for prime p completeness holds for every generator and
// secret, while a composite p whose unit group order does not divide p-1
// makes honest proofs fail. Supplying a generator of order p-1 is the
// caller's responsibility, as is all parameter generation.

import (
	"math/big"
)

// Prove generates a proof of knowledge of secret for the residue
// g^secret mod p under DefaultParams, drawing randomness from the operating
// system. It returns the residue and the proof; the only error path is a
// failing entropy source.
func Prove(secret, generator, modulus *big.Int) (*big.Int, Proof, error) {
	return NewProver(generator, modulus).Prove(secret, nil)
}

// Verify reports whether proof demonstrates knowledge of the discrete
// logarithm of residue under DefaultParams. Invalid proofs of any kind yield
// false, never an error.
func Verify(residue, generator, modulus *big.Int, proof Proof) bool {
	return NewVerifier(generator, modulus).Verify(residue, proof)
}
