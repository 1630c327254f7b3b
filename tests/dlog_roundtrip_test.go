package tests

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/tuneinsight/lattigo/v4/utils"

	"zk-dlog/dlog"
)

func mustPRNG(t testing.TB, key string) *utils.KeyedPRNG {
	t.Helper()
	prng, err := utils.NewKeyedPRNG([]byte(key))
	if err != nil {
		t.Fatal(err)
	}
	return prng
}

func TestPackageLevelRoundTrip(t *testing.T) {
	secret := big.NewInt(17)
	generator := big.NewInt(3)
	modulus := big.NewInt(31)

	residue, proof, err := dlog.Prove(secret, generator, modulus)
	if err != nil {
		t.Fatal(err)
	}
	if residue.Cmp(big.NewInt(22)) != 0 {
		t.Fatalf("residue = %v, want 22", residue)
	}
	if len(proof) != dlog.DefaultRounds {
		t.Fatalf("proof has %d rounds, want %d", len(proof), dlog.DefaultRounds)
	}
	if !dlog.Verify(residue, generator, modulus, proof) {
		t.Fatal("honest proof rejected (should accept)")
	}
}

func TestPresetRoundTripsAllWidths(t *testing.T) {
	for _, k := range dlog.MersenneExponents() {
		if k > 127 {
			// the large groups are covered separately with fewer rounds
			continue
		}
		k := k
		t.Run(fmt.Sprintf("m%d", k), func(t *testing.T) {
			generator, modulus, par := dlog.MersenneGroup(k)
			par.Rounds = 12
			prv := dlog.NewProverWithParams(generator, modulus, par)
			vrf := dlog.NewVerifierWithParams(generator, modulus, par)

			order := new(big.Int).Sub(modulus, big.NewInt(1))
			secret := new(big.Int).Rsh(order, 1)
			residue, proof, err := prv.Prove(secret, mustPRNG(t, fmt.Sprintf("roundtrip-%d", k)))
			if err != nil {
				t.Fatal(err)
			}
			if residue.Cmp(modulus) >= 0 || residue.Sign() < 0 {
				t.Fatalf("residue %v outside [0, modulus)", residue)
			}
			if !vrf.Verify(residue, proof) {
				t.Fatal("honest proof rejected (should accept)")
			}
		})
	}
}

func TestLargePresetRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("wide-modulus roundtrip skipped in short mode")
	}
	generator, modulus, par := dlog.PresetMersenne521()
	par.Rounds = 4
	prv := dlog.NewProverWithParams(generator, modulus, par)
	vrf := dlog.NewVerifierWithParams(generator, modulus, par)

	secret := new(big.Int).Rsh(modulus, 2)
	residue, proof, err := prv.Prove(secret, mustPRNG(t, "large-preset"))
	if err != nil {
		t.Fatal(err)
	}
	if !vrf.Verify(residue, proof) {
		t.Fatal("honest proof rejected (should accept)")
	}
}

func TestProofDoesNotTransferAcrossGroups(t *testing.T) {
	gen31, mod31, par31 := dlog.MersenneGroup(31)
	par31.Rounds = 20
	prv := dlog.NewProverWithParams(gen31, mod31, par31)
	residue, proof, err := prv.Prove(big.NewInt(123456789), mustPRNG(t, "cross-group"))
	if err != nil {
		t.Fatal(err)
	}

	gen61, mod61, par61 := dlog.MersenneGroup(61)
	par61.Rounds = 20
	vrf := dlog.NewVerifierWithParams(gen61, mod61, par61)
	if vrf.Verify(residue, proof) {
		t.Fatal("proof for one group accepted under another")
	}
}
