package dlog

import (
	"fmt"
	"math/big"
	"sort"
)

// mersenneExponents lists the k in [13, 1279] for which 2^k - 1 is prime.
// The resulting moduli are odd, exceed the fixed generator, need no embedded
// constants, and span the widths the sweep and benchmarks exercise.
var mersenneExponents = map[uint]bool{
	13: true, 17: true, 19: true, 31: true, 61: true, 89: true,
	107: true, 127: true, 521: true, 607: true, 1279: true,
}

// MersenneExponents lists the supported exponents in ascending order.
func MersenneExponents() []uint {
	out := make([]uint, 0, len(mersenneExponents))
	for k := range mersenneExponents {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// KnownMersenneExponent reports whether MersenneGroup accepts k.
func KnownMersenneExponent(k uint) bool {
	return mersenneExponents[k]
}

// MersenneGroup returns the demo group with modulus 2^k - 1, generator 7,
// and a parameter set sized to the smallest byte-aligned width holding the
// modulus. It panics if 2^k - 1 is not in the known-prime table; it does not
// test primality. The generator's multiplicative order is not checked (7 is
// a primitive root for k = 31; for other k completeness still holds because
// the modulus is prime, while the soundness argument assumes a full-order
// generator).
func MersenneGroup(k uint) (generator, modulus *big.Int, par Params) {
	if !mersenneExponents[k] {
		panic(fmt.Sprintf("dlog: 2^%d - 1 is not a known Mersenne prime", k))
	}
	modulus = new(big.Int).Sub(new(big.Int).Lsh(one, k), one)
	par = DefaultParams
	par.Bits = int((k + 7) / 8 * 8)
	return big.NewInt(7), modulus, par
}

// PresetMersenne31 is the 31-bit demo group 2^31 - 1 with generator 7, a
// true primitive root of that modulus.
func PresetMersenne31() (generator, modulus *big.Int, par Params) {
	return MersenneGroup(31)
}

// PresetMersenne127 is the 127-bit demo group 2^127 - 1 with generator 7.
func PresetMersenne127() (generator, modulus *big.Int, par Params) {
	return MersenneGroup(127)
}

// PresetMersenne521 is the 521-bit demo group 2^521 - 1 with generator 7.
func PresetMersenne521() (generator, modulus *big.Int, par Params) {
	return MersenneGroup(521)
}

// PresetMersenne1279 is the 1279-bit demo group 2^1279 - 1 with generator 7.
func PresetMersenne1279() (generator, modulus *big.Int, par Params) {
	return MersenneGroup(1279)
}
