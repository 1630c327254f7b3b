package tests

import (
	"math/big"
	"path/filepath"
	"testing"

	"zk-dlog/dlog"
	"zk-dlog/dlog/proofio"
)

func TestProofFileRoundTrip(t *testing.T) {
	generator, modulus, par := dlog.PresetMersenne127()
	par.Rounds = 25
	prv := dlog.NewProverWithParams(generator, modulus, par)
	residue, proof, err := prv.Prove(big.NewInt(424242), mustPRNG(t, "proof-file"))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "proof.json")
	if err := proofio.Save(proofio.New(par, generator, modulus, residue, proof), path); err != nil {
		t.Fatal(err)
	}

	doc, err := proofio.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	gotGen, err := proofio.DecodeHex(doc.Group.Generator)
	if err != nil {
		t.Fatal(err)
	}
	gotMod, err := proofio.DecodeHex(doc.Group.Modulus)
	if err != nil {
		t.Fatal(err)
	}
	gotRes, err := proofio.DecodeHex(doc.Residue)
	if err != nil {
		t.Fatal(err)
	}
	gotProof, err := doc.DecodeProof()
	if err != nil {
		t.Fatal(err)
	}
	if gotGen.Cmp(generator) != 0 || gotMod.Cmp(modulus) != 0 || gotRes.Cmp(residue) != 0 {
		t.Fatal("reloaded group or residue differs from the original")
	}

	gotPar := dlog.Params{Rounds: doc.Params.Rounds, Bits: doc.Params.Bits}
	vrf := dlog.NewVerifierWithParams(gotGen, gotMod, gotPar)
	if !vrf.Verify(gotRes, gotProof) {
		t.Fatal("reloaded proof rejected (should accept)")
	}
}

// A single incremented response in the stored file must sink the proof: the
// left side of the round equation gains a factor of the generator.
func TestProofFileTamperedResponseRejected(t *testing.T) {
	generator, modulus, par := dlog.PresetMersenne127()
	par.Rounds = 25
	prv := dlog.NewProverWithParams(generator, modulus, par)
	residue, proof, err := prv.Prove(big.NewInt(424242), mustPRNG(t, "proof-file-tamper"))
	if err != nil {
		t.Fatal(err)
	}

	doc := proofio.New(par, generator, modulus, residue, proof)
	s, err := proofio.DecodeHex(doc.Proof[3].S)
	if err != nil {
		t.Fatal(err)
	}
	doc.Proof[3].S = new(big.Int).Add(s, big.NewInt(1)).Text(16)

	path := filepath.Join(t.TempDir(), "proof.json")
	if err := proofio.Save(doc, path); err != nil {
		t.Fatal(err)
	}
	reloaded, err := proofio.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	gotProof, err := reloaded.DecodeProof()
	if err != nil {
		t.Fatal(err)
	}

	vrf := dlog.NewVerifierWithParams(generator, modulus, par)
	if vrf.Verify(residue, gotProof) {
		t.Fatal("tampered proof accepted")
	}
}

func TestProofFileLoadMissing(t *testing.T) {
	if _, err := proofio.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing proof file")
	}
}

func TestProofFileBadHexRejected(t *testing.T) {
	if _, err := proofio.DecodeHex("not-hex"); err == nil {
		t.Fatal("expected error for malformed hex")
	}
	doc := &proofio.Document{Proof: []proofio.Round{{H: "ff", S: "zz"}}}
	if _, err := doc.DecodeProof(); err == nil {
		t.Fatal("expected error for malformed round record")
	}
}
