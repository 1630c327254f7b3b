package dlog

import (
	"math/big"
	"testing"
)

func TestMersenneGroupShapes(t *testing.T) {
	g, p, par := PresetMersenne31()
	if g.Int64() != 7 {
		t.Fatalf("generator = %v, want 7", g)
	}
	if p.Int64() != 2147483647 {
		t.Fatalf("modulus = %v, want 2^31-1", p)
	}
	if par.Bits != 32 || par.Rounds != DefaultRounds {
		t.Fatalf("params = %+v", par)
	}

	_, p127, par127 := PresetMersenne127()
	want127 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	if p127.Cmp(want127) != 0 || par127.Bits != 128 {
		t.Fatalf("127-bit preset wrong: p=%v bits=%d", p127, par127.Bits)
	}

	for _, k := range []uint{13, 17, 19, 61, 89, 107, 521, 607, 1279} {
		_, p, par := MersenneGroup(k)
		if p.BitLen() != int(k) {
			t.Fatalf("2^%d-1 has bit length %d", k, p.BitLen())
		}
		if p.Bit(0) != 1 {
			t.Fatalf("2^%d-1 not odd", k)
		}
		if par.Bits < int(k) || par.Bits%8 != 0 {
			t.Fatalf("width %d unusable for k=%d", par.Bits, k)
		}
	}
}

func TestMersenneGroupUnknownExponentPanics(t *testing.T) {
	for _, k := range []uint{0, 1, 11, 32, 100, 1280} {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Fatalf("expected panic for k=%d", k)
				}
			}()
			MersenneGroup(k)
		}()
	}
}

func TestPresetRoundTrips(t *testing.T) {
	for _, preset := range []func() (*big.Int, *big.Int, Params){
		PresetMersenne31,
		PresetMersenne127,
	} {
		g, p, par := preset()
		par.Rounds = 20 // keep the unit test quick; tests/ covers full depth
		prv := NewProverWithParams(g, p, par)
		residue, proof, err := prv.Prove(big.NewInt(987654), nil)
		if err != nil {
			t.Fatalf("Prove: %v", err)
		}
		if !NewVerifierWithParams(g, p, par).Verify(residue, proof) {
			t.Fatalf("preset %d-bit roundtrip rejected", p.BitLen())
		}
	}
}
