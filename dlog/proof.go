package dlog

import "math/big"

// Round is a single challenge round: the commitment H = g^r mod p fixed
// before the challenge bit is known, and the response S in [0, p-2].
type Round struct {
	H *big.Int
	S *big.Int
}

// Proof is the ordered round sequence produced by a prover. A valid proof
// holds exactly Params.Rounds entries; any other length is invalid by
// definition. Rounds carry no secret material and are independently
// checkable.
type Proof []Round
