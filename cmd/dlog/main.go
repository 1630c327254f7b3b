package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/tuneinsight/lattigo/v4/utils"

	"zk-dlog/dlog"
	"zk-dlog/dlog/proofio"
	"zk-dlog/prof"
)

func usage() {
	fmt.Println(`usage: dlog <prove|verify> [options]

Subcommands:
  prove    Prove knowledge of x with y = g^x mod p and write the proof bundle
           Flags:
             -x      <int>     secret exponent (decimal or 0x-prefixed hex; required)
             -g      <int>     group generator (decimal or 0x hex)
             -p      <int>     odd group modulus > 1 (decimal or 0x hex)
             -preset <int>     Mersenne exponent k: modulus 2^k-1, generator 7
                               (replaces -g/-p; an unknown k prints the known list)
             -rounds <int>     challenge rounds (default: 100)
             -bits   <int>     operand width in bits (0 = fit the inputs)
             -seed   <string>  keyed deterministic randomness (default: crypto/rand)
             -out    <path>    proof file (default: dlog_proof/proof.json)
           Output (stdout):
             residue y, proof path, timing totals

  verify   Verify a proof bundle against its embedded group and residue
           Flags:
             -in     <path>    proof file (default: dlog_proof/proof.json)
           Exits non-zero when the proof is rejected.`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "prove":
		runProve(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	default:
		usage()
	}
}

func parseBig(sub, name, val string) *big.Int {
	if val == "" {
		log.Fatalf("%s: -%s is required (or use -preset)", sub, name)
	}
	v, ok := new(big.Int).SetString(val, 0)
	if !ok {
		log.Fatalf("%s: invalid -%s value %q", sub, name, val)
	}
	return v
}

// fitBits returns the smallest byte-aligned width holding every value.
func fitBits(vals ...*big.Int) int {
	max := 1
	for _, v := range vals {
		if n := v.BitLen(); n > max {
			max = n
		}
	}
	return (max + 7) / 8 * 8
}

func listPresets() {
	fmt.Print("known preset exponents:")
	for _, k := range dlog.MersenneExponents() {
		fmt.Printf(" %d", k)
	}
	fmt.Println()
	os.Exit(1)
}

func runProve(args []string) {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	secretStr := fs.String("x", "", "secret exponent (decimal or 0x hex)")
	genStr := fs.String("g", "", "group generator (decimal or 0x hex)")
	modStr := fs.String("p", "", "odd group modulus (decimal or 0x hex)")
	preset := fs.Uint("preset", 0, "Mersenne exponent k (0 = use -g/-p)")
	rounds := fs.Int("rounds", dlog.DefaultRounds, "challenge rounds")
	bits := fs.Int("bits", 0, "operand width in bits (0 = fit the inputs)")
	seed := fs.String("seed", "", "keyed deterministic randomness (empty = crypto/rand)")
	out := fs.String("out", proofio.DefaultPath, "proof file path")
	fs.Parse(args)

	secret := parseBig("prove", "x", *secretStr)
	if secret.Sign() < 0 {
		log.Fatal("prove: -x must be non-negative")
	}

	var (
		generator, modulus *big.Int
		par                dlog.Params
	)
	if *preset != 0 {
		if !dlog.KnownMersenneExponent(*preset) {
			listPresets()
		}
		generator, modulus, par = dlog.MersenneGroup(*preset)
	} else {
		generator = parseBig("prove", "g", *genStr)
		modulus = parseBig("prove", "p", *modStr)
		par = dlog.DefaultParams
		par.Bits = fitBits(secret, generator, modulus)
	}
	if generator.Sign() < 0 {
		log.Fatal("prove: -g must be non-negative")
	}
	if modulus.Cmp(big.NewInt(1)) <= 0 || modulus.Bit(0) == 0 {
		log.Fatal("prove: modulus must be odd and > 1")
	}
	if *bits != 0 {
		if *bits <= 0 || *bits%8 != 0 || fitBits(secret, generator, modulus) > *bits {
			log.Fatal("prove: -bits must be a positive multiple of 8 holding every operand")
		}
		par.Bits = *bits
	}
	if *rounds <= 0 {
		log.Fatal("prove: -rounds must be > 0")
	}
	par.Rounds = *rounds

	var rnd io.Reader
	if *seed != "" {
		prng, err := utils.NewKeyedPRNG([]byte(*seed))
		if err != nil {
			log.Fatalf("prove: seed PRNG: %v", err)
		}
		rnd = prng
	}

	prv := dlog.NewProverWithParams(generator, modulus, par)
	start := time.Now()
	residue, proof, err := prv.Prove(secret, rnd)
	prof.Track(start, "Prove")
	if err != nil {
		log.Fatalf("prove: %v", err)
	}

	doc := proofio.New(par, generator, modulus, residue, proof)
	if err := proofio.Save(doc, *out); err != nil {
		log.Fatalf("prove: save proof: %v", err)
	}

	fmt.Printf("prove: rounds=%d bits=%d residue=%s\n", par.Rounds, par.Bits, residue.Text(16))
	if info, err := os.Stat(*out); err == nil {
		fmt.Printf("prove: proof written to %s (%d bytes)\n", *out, info.Size())
	} else {
		fmt.Printf("prove: proof written to %s\n", *out)
	}
	fmt.Print(prof.Format(prof.Totals(prof.SnapshotAndReset())))
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	in := fs.String("in", proofio.DefaultPath, "proof file path")
	fs.Parse(args)

	doc, err := proofio.Load(*in)
	if err != nil {
		log.Fatalf("verify: load proof: %v", err)
	}
	generator, err := proofio.DecodeHex(doc.Group.Generator)
	if err != nil {
		log.Fatalf("verify: generator: %v", err)
	}
	modulus, err := proofio.DecodeHex(doc.Group.Modulus)
	if err != nil {
		log.Fatalf("verify: modulus: %v", err)
	}
	residue, err := proofio.DecodeHex(doc.Residue)
	if err != nil {
		log.Fatalf("verify: residue: %v", err)
	}
	proof, err := doc.DecodeProof()
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	if generator.Sign() < 0 {
		log.Fatal("verify: generator must be non-negative")
	}
	if modulus.Cmp(big.NewInt(1)) <= 0 || modulus.Bit(0) == 0 {
		log.Fatal("verify: modulus must be odd and > 1")
	}
	par := dlog.Params{Rounds: doc.Params.Rounds, Bits: doc.Params.Bits}
	if par.Rounds <= 0 || par.Bits <= 0 || par.Bits%8 != 0 {
		log.Fatalf("verify: invalid parameter set rounds=%d bits=%d", par.Rounds, par.Bits)
	}
	if fitBits(generator, modulus) > par.Bits {
		log.Fatalf("verify: group exceeds the declared %d-bit width", par.Bits)
	}

	vrf := dlog.NewVerifierWithParams(generator, modulus, par)
	start := time.Now()
	ok := vrf.Verify(residue, proof)
	prof.Track(start, "Verify")
	fmt.Print(prof.Format(prof.Totals(prof.SnapshotAndReset())))
	if !ok {
		log.Fatal("verify failed: proof rejected")
	}
	fmt.Println("proof verified")
}
