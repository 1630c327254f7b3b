package modarith

// Package modarith wraps constant-time Montgomery arithmetic for one fixed
// odd modulus behind a math/big façade. A Context is built once per modulus,
// is immutable afterwards, and is safe for concurrent use; every call
// allocates its own scratch. It also provides the canonical fixed-width
// big-endian encoding used when context values are hashed.

import (
	"math/big"

	"filippo.io/bigmod"
)

var one = big.NewInt(1)

// Context carries the precomputed reduction machinery for a single modulus.
// The supported modulus class is odd p > 1; the Montgomery backend cannot
// represent even moduli.
type Context struct {
	m    *bigmod.Modulus
	p    *big.Int
	bits int
}

// NewContext builds the context for modulus p with operands of the given
// fixed bit width. It panics if p is nil, p <= 1, p is even, p does not fit
// the width, or the width is not a positive multiple of 8.
func NewContext(p *big.Int, bits int) *Context {
	if bits <= 0 || bits%8 != 0 {
		panic("modarith: width must be a positive multiple of 8")
	}
	if p == nil || p.Cmp(one) <= 0 {
		panic("modarith: modulus must be > 1")
	}
	if p.Bit(0) == 0 {
		panic("modarith: even modulus not supported")
	}
	if p.BitLen() > bits {
		panic("modarith: modulus exceeds fixed width")
	}
	m, err := bigmod.NewModulusFromBig(p)
	if err != nil {
		panic("modarith: " + err.Error())
	}
	return &Context{m: m, p: new(big.Int).Set(p), bits: bits}
}

// Modulus returns a copy of the context modulus.
func (c *Context) Modulus() *big.Int {
	return new(big.Int).Set(c.p)
}

// Bits returns the fixed operand width the context was built with.
func (c *Context) Bits() int {
	return c.bits
}

// nat maps x into the context's residue ring, reducing mod p first when x is
// negative or not already canonical.
func (c *Context) nat(x *big.Int) *bigmod.Nat {
	r := x
	if x.Sign() < 0 || x.Cmp(c.p) >= 0 {
		r = new(big.Int).Mod(x, c.p)
	}
	n, err := bigmod.NewNat().SetBytes(r.Bytes(), c.m)
	if err != nil {
		// unreachable after reduction
		panic("modarith: " + err.Error())
	}
	return n
}

// PowMod returns base^exp mod p as a canonical residue in [0, p). The
// exponent is consumed at the fixed width, so the cost depends on the
// configured width rather than on the exponent's value. It panics if exp is
// nil, negative, or wider than the context width.
func (c *Context) PowMod(base, exp *big.Int) *big.Int {
	if exp == nil || exp.Sign() < 0 {
		panic("modarith: exponent must be non-negative")
	}
	e := FixedBytes(exp, c.bits)
	out := bigmod.NewNat().Exp(c.nat(base), e, c.m)
	return new(big.Int).SetBytes(out.Bytes(c.m))
}

// MulMod returns a*b mod p as a canonical residue in [0, p).
func (c *Context) MulMod(a, b *big.Int) *big.Int {
	x := c.nat(a)
	x.Mul(c.nat(b), c.m)
	return new(big.Int).SetBytes(x.Bytes(c.m))
}

// FixedBytes encodes x as big-endian bytes zero-padded to bits/8. Hashing
// always goes through this encoding, never through in-memory layout. It
// panics on negative values, on values that do not fit the width, and on a
// width that is not a positive multiple of 8.
func FixedBytes(x *big.Int, bits int) []byte {
	if bits <= 0 || bits%8 != 0 {
		panic("modarith: width must be a positive multiple of 8")
	}
	if x == nil || x.Sign() < 0 {
		panic("modarith: negative value in fixed-width encoding")
	}
	if x.BitLen() > bits {
		panic("modarith: value exceeds fixed width")
	}
	out := make([]byte, bits/8)
	x.FillBytes(out)
	return out
}

// Fits reports whether x is a non-negative value representable in the given
// fixed width.
func Fits(x *big.Int, bits int) bool {
	return x != nil && x.Sign() >= 0 && x.BitLen() <= bits
}
