package dlog

import "math/big"

// DefaultRounds is the challenge-round count a proof carries unless
// configured otherwise. Every round a forger must guess costs a factor two,
// so the soundness error at the default is 2^-100. Changing the round count
// is a security-parameter change and goes through Params, never a global.
const DefaultRounds = 100

// Params bundles the protocol parameters shared by a prover/verifier pair.
// Both sides must agree on them for a transcript to verify.
type Params struct {
	Rounds int // challenge rounds per proof
	Bits   int // fixed operand width in bits; must be a positive multiple of 8
}

// DefaultParams runs DefaultRounds rounds over 256-bit operands.
var DefaultParams = Params{Rounds: DefaultRounds, Bits: 256}

var one = big.NewInt(1)
