package proofio

// Package proofio persists proof bundles as JSON so the demo command can
// prove and verify in separate invocations. Big integers are stored as
// hex strings without a 0x prefix.

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"zk-dlog/dlog"
)

// DefaultPath is where the demo command reads and writes proof bundles.
const DefaultPath = "dlog_proof/proof.json"

// Round holds one commitment/response pair in hex.
type Round struct {
	H string `json:"h"`
	S string `json:"s"`
}

// Document is the proof bundle persisted to JSON. It carries everything a
// verifier needs: the group, the claimed residue, the parameter set the
// transcript was derived under, and the per-round pairs.
type Document struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Params    struct {
		Rounds int `json:"rounds"`
		Bits   int `json:"bits"`
	} `json:"params"`
	Group struct {
		Generator string `json:"generator"`
		Modulus   string `json:"modulus"`
	} `json:"group"`
	Residue string  `json:"residue"`
	Proof   []Round `json:"proof"`
}

// New assembles a document from a finished proving run.
func New(par dlog.Params, generator, modulus, residue *big.Int, proof dlog.Proof) *Document {
	d := &Document{Version: "dlog-proof-v1"}
	d.Timestamp = time.Now().UTC().Format(time.RFC3339)
	d.Params.Rounds = par.Rounds
	d.Params.Bits = par.Bits
	d.Group.Generator = generator.Text(16)
	d.Group.Modulus = modulus.Text(16)
	d.Residue = residue.Text(16)
	d.Proof = make([]Round, len(proof))
	for i, rd := range proof {
		d.Proof[i] = Round{H: rd.H.Text(16), S: rd.S.Text(16)}
	}
	return d
}

// Save writes the document to path, creating parent directories as needed.
func Save(d *Document, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads a document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DecodeProof reconstructs the in-memory proof from the hex records.
func (d *Document) DecodeProof() (dlog.Proof, error) {
	proof := make(dlog.Proof, len(d.Proof))
	for i, rd := range d.Proof {
		h, err := DecodeHex(rd.H)
		if err != nil {
			return nil, fmt.Errorf("proofio: round %d commitment: %w", i, err)
		}
		s, err := DecodeHex(rd.S)
		if err != nil {
			return nil, fmt.Errorf("proofio: round %d response: %w", i, err)
		}
		proof[i] = dlog.Round{H: h, S: s}
	}
	return proof, nil
}

// DecodeHex parses a hex integer as written by New.
func DecodeHex(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("proofio: invalid hex integer %q", s)
	}
	return v, nil
}
