package main

import (
	"bufio"
	"crypto/rand"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tuneinsight/lattigo/v4/utils"

	"zk-dlog/dlog"
	"zk-dlog/measureutil"
)

const (
	defaultJSONLPath = "Additionnals/dlog_sweep.jsonl"
	defaultCSVPath   = "Additionnals/dlog_sweep.csv"
	defaultExpSpec   = "13,17,19,31,61,89,107,127"
	defaultRoundSpec = "25,50,100"
	progressBarWidth = 40
)

type Runner struct {
	mode             string
	jsonFile         *os.File
	jsonBuf          *bufio.Writer
	jsonEnc          *json.Encoder
	csvFile          *os.File
	csvWriter        *csv.Writer
	csvHeaderWritten bool
}

// report is one sweep measurement. The plotter decodes the same layout
// from the JSONL stream.
type report struct {
	Exponent   int     `json:"exponent"`
	Bits       int     `json:"bits"`
	Rounds     int     `json:"rounds"`
	Rep        int     `json:"rep"`
	ProveUS    int64   `json:"prove_us"`
	VerifyUS   int64   `json:"verify_us"`
	PerRoundUS float64 `json:"per_round_us"`
	ProofBytes int     `json:"proof_bytes"`
	AllocB     uint64  `json:"alloc_b"`
	Mallocs    uint64  `json:"mallocs"`
	OK         bool    `json:"ok"`
}

type record struct {
	Stage  string                 `json:"stage"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
	Report report                 `json:"report"`
}

type cell struct {
	Exponent int
	Rounds   int
	Rep      int
}

type progressBar struct {
	total int
	start time.Time
}

func newRunner(jsonPath, csvPath, mode string) (*Runner, error) {
	r := &Runner{mode: mode}
	if jsonPath != "" {
		if err := os.MkdirAll(filepath.Dir(jsonPath), 0o755); err != nil && !os.IsExist(err) {
			return nil, fmt.Errorf("create json dir: %w", err)
		}
		f, err := os.Create(jsonPath)
		if err != nil {
			return nil, fmt.Errorf("open json output: %w", err)
		}
		buf := bufio.NewWriter(f)
		r.jsonFile = f
		r.jsonBuf = buf
		r.jsonEnc = json.NewEncoder(buf)
	}
	if csvPath != "" {
		if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil && !os.IsExist(err) {
			return nil, fmt.Errorf("create csv dir: %w", err)
		}
		f, err := os.Create(csvPath)
		if err != nil {
			return nil, fmt.Errorf("open csv output: %w", err)
		}
		r.csvFile = f
		r.csvWriter = csv.NewWriter(f)
	}
	return r, nil
}

func (r *Runner) Close() {
	if r.jsonBuf != nil {
		_ = r.jsonBuf.Flush()
	}
	if r.jsonFile != nil {
		_ = r.jsonFile.Close()
	}
	if r.csvWriter != nil {
		r.csvWriter.Flush()
	}
	if r.csvFile != nil {
		_ = r.csvFile.Close()
	}
}

// Run executes one sweep cell and records the row on success.
func (r *Runner) Run(stage string, c cell, rnd io.Reader) (rep report, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	generator, modulus, par := dlog.MersenneGroup(uint(c.Exponent))
	par.Rounds = c.Rounds
	prv := dlog.NewProverWithParams(generator, modulus, par)
	vrf := dlog.NewVerifierWithParams(generator, modulus, par)

	secretReader := rnd
	if secretReader == nil {
		secretReader = rand.Reader
	}
	order := new(big.Int).Sub(modulus, big.NewInt(1))
	secret, err := rand.Int(secretReader, order)
	if err != nil {
		return rep, fmt.Errorf("draw secret: %w", err)
	}

	before := measureutil.Capture()
	start := time.Now()
	residue, proof, err := prv.Prove(secret, rnd)
	proveDur := time.Since(start)
	if err != nil {
		return rep, err
	}
	start = time.Now()
	ok := vrf.Verify(residue, proof)
	verifyDur := time.Since(start)
	delta := measureutil.Delta(before, measureutil.Capture())

	rep = report{
		Exponent:   c.Exponent,
		Bits:       par.Bits,
		Rounds:     par.Rounds,
		Rep:        c.Rep,
		ProveUS:    proveDur.Microseconds(),
		VerifyUS:   verifyDur.Microseconds(),
		PerRoundUS: float64(proveDur.Microseconds()) / float64(par.Rounds),
		ProofBytes: len(proof) * 2 * par.Bits / 8,
		AllocB:     delta.TotalAlloc,
		Mallocs:    delta.Mallocs,
		OK:         ok,
	}
	meta := map[string]interface{}{
		"mode":        r.mode,
		"secret_bits": secret.BitLen(),
	}
	r.emit(stage, meta, rep)
	return rep, nil
}

func (r *Runner) emit(stage string, meta map[string]interface{}, rep report) {
	if r.jsonEnc != nil {
		if err := r.jsonEnc.Encode(record{Stage: stage, Meta: meta, Report: rep}); err != nil {
			fmt.Fprintf(os.Stderr, "json encode: %v\n", err)
		}
		if r.jsonBuf != nil {
			_ = r.jsonBuf.Flush()
		}
	}
	if r.csvWriter != nil {
		if !r.csvHeaderWritten {
			r.writeCSVHeader()
		}
		if err := r.writeCSVRow(stage, rep); err != nil {
			fmt.Fprintf(os.Stderr, "csv write: %v\n", err)
		}
	}
}

func (r *Runner) writeCSVHeader() {
	if r.csvWriter == nil {
		return
	}
	header := []string{
		"stage", "exponent", "bits", "rounds", "rep",
		"prove_us", "verify_us", "per_round_us",
		"proof_bytes", "alloc_b", "mallocs", "ok",
	}
	_ = r.csvWriter.Write(header)
	r.csvHeaderWritten = true
}

func (r *Runner) writeCSVRow(stage string, rep report) error {
	if r.csvWriter == nil {
		return nil
	}
	row := []string{
		stage,
		strconv.Itoa(rep.Exponent),
		strconv.Itoa(rep.Bits),
		strconv.Itoa(rep.Rounds),
		strconv.Itoa(rep.Rep),
		strconv.FormatInt(rep.ProveUS, 10),
		strconv.FormatInt(rep.VerifyUS, 10),
		fmt.Sprintf("%.2f", rep.PerRoundUS),
		strconv.Itoa(rep.ProofBytes),
		strconv.FormatUint(rep.AllocB, 10),
		strconv.FormatUint(rep.Mallocs, 10),
		strconv.FormatBool(rep.OK),
	}
	return r.csvWriter.Write(row)
}

// PrintFinalSummary aggregates the rows per (exponent, rounds) pair and
// prints mean timings, widest group last.
func (r *Runner) PrintFinalSummary(finals []report) {
	if len(finals) == 0 {
		fmt.Println("No measurements to display.")
		return
	}
	type key struct {
		exponent int
		rounds   int
	}
	type agg struct {
		count      int
		bits       int
		proveUS    int64
		verifyUS   int64
		proofBytes int
	}
	groups := map[key]*agg{}
	for _, rep := range finals {
		k := key{rep.Exponent, rep.Rounds}
		a := groups[k]
		if a == nil {
			a = &agg{bits: rep.Bits, proofBytes: rep.ProofBytes}
			groups[k] = a
		}
		a.count++
		a.proveUS += rep.ProveUS
		a.verifyUS += rep.VerifyUS
	}
	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].exponent == keys[j].exponent {
			return keys[i].rounds < keys[j].rounds
		}
		return keys[i].exponent < keys[j].exponent
	})
	fmt.Println("Mean timings per group (modulus 2^k - 1) and round count:")
	fmt.Println("    k  bits  rounds  reps  prove(ms)  verify(ms)  round(us)  proofKB")
	for _, k := range keys {
		a := groups[k]
		n := float64(a.count)
		fmt.Printf("%5d %5d  %6d  %4d  %9.2f  %10.2f  %9.2f  %7.2f\n",
			k.exponent,
			a.bits,
			k.rounds,
			a.count,
			float64(a.proveUS)/1000.0/n,
			float64(a.verifyUS)/1000.0/n,
			float64(a.proveUS)/n/float64(k.rounds),
			float64(a.proofBytes)/1024.0,
		)
	}
}

func main() {
	jsonPath := flag.String("jsonl", defaultJSONLPath, "JSONL output path (empty = disabled)")
	csvPath := flag.String("csv", defaultCSVPath, "CSV output path (empty = disabled)")
	expSpec := flag.String("k", defaultExpSpec, "Mersenne exponent grid (comma list or start..end[:step])")
	roundSpec := flag.String("rounds", defaultRoundSpec, "challenge round grid")
	reps := flag.Int("reps", 3, "repetitions per grid cell")
	seed := flag.String("seed", "", "keyed deterministic randomness (empty = crypto/rand)")
	flag.Parse()

	exponents, err := parseIntList(*expSpec)
	if err != nil {
		exitErr("parse k: %v", err)
	}
	for _, k := range exponents {
		if k <= 0 || !dlog.KnownMersenneExponent(uint(k)) {
			exitErr("unknown preset exponent %d (known: %v)", k, dlog.MersenneExponents())
		}
	}
	rounds, err := parseIntList(*roundSpec)
	if err != nil {
		exitErr("parse rounds: %v", err)
	}
	for _, rc := range rounds {
		if rc <= 0 {
			exitErr("rounds must be > 0, got %d", rc)
		}
	}
	if *reps <= 0 {
		exitErr("reps must be > 0, got %d", *reps)
	}

	mode := "crypto"
	var rnd io.Reader
	if *seed != "" {
		prng, err := utils.NewKeyedPRNG([]byte(*seed))
		if err != nil {
			exitErr("seed PRNG: %v", err)
		}
		rnd = prng
		mode = "keyed"
	}

	runner, err := newRunner(*jsonPath, *csvPath, mode)
	if err != nil {
		exitErr("init runner: %v", err)
	}
	defer runner.Close()

	cells := make([]cell, 0, len(exponents)*len(rounds)*(*reps))
	for _, k := range exponents {
		for _, rc := range rounds {
			for rep := 1; rep <= *reps; rep++ {
				cells = append(cells, cell{Exponent: k, Rounds: rc, Rep: rep})
			}
		}
	}
	fmt.Printf("Planned measurements: %d (%d groups x %d round counts x %d reps)\n",
		len(cells), len(exponents), len(rounds), *reps)

	bar := newProgressBar(len(cells))
	var (
		finals   []report
		rejected int
		failed   int
	)
	for idx, c := range cells {
		stage := fmt.Sprintf("m%d/r%d/rep%d", c.Exponent, c.Rounds, c.Rep)
		rep, err := runner.Run(stage, c, rnd)
		bar.Update(idx + 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\n%s failed: %v\n", stage, err)
			failed++
			continue
		}
		if !rep.OK {
			fmt.Fprintf(os.Stderr, "\n%s: proof rejected\n", stage)
			rejected++
			continue
		}
		finals = append(finals, rep)
	}

	fmt.Println()
	runner.PrintFinalSummary(finals)
	if rejected > 0 || failed > 0 {
		fmt.Fprintf(os.Stderr, "sweep: %d rejected, %d failed out of %d cells\n", rejected, failed, len(cells))
		os.Exit(1)
	}
}

func parseIntList(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("empty value set")
	}
	values := map[int]struct{}{}
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.Contains(tok, "..") {
			rangeVals, err := expandRange(tok)
			if err != nil {
				return nil, err
			}
			for _, v := range rangeVals {
				values[v] = struct{}{}
			}
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", tok)
		}
		values[v] = struct{}{}
	}
	if len(values) == 0 {
		return nil, errors.New("empty value set")
	}
	out := make([]int, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Ints(out)
	return out, nil
}

func expandRange(rng string) ([]int, error) {
	step := 1
	rangePart := rng
	if strings.Contains(rng, ":") {
		parts := strings.SplitN(rng, ":", 2)
		rangePart = parts[0]
		val, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid step in %q: %w", rng, err)
		}
		if val <= 0 {
			return nil, fmt.Errorf("step must be > 0 in %q", rng)
		}
		step = val
	}
	bounds := strings.SplitN(rangePart, "..", 2)
	if len(bounds) != 2 {
		return nil, fmt.Errorf("invalid range %q", rng)
	}
	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid start in %q: %w", rng, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid end in %q: %w", rng, err)
	}
	if end < start {
		return nil, fmt.Errorf("range end < start in %q", rng)
	}
	out := []int{}
	for v := start; v <= end; v += step {
		out = append(out, v)
	}
	return out, nil
}

func (bar *progressBar) Update(done int) {
	if bar.total <= 0 {
		return
	}
	if done > bar.total {
		done = bar.total
	}
	if bar.start.IsZero() {
		bar.start = time.Now()
	}
	ratio := float64(done) / float64(bar.total)
	filled := int(ratio * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	barStr := strings.Repeat("█", filled) + strings.Repeat(" ", progressBarWidth-filled)
	elapsed := time.Since(bar.start)
	var eta time.Duration
	if done > 0 && done < bar.total {
		eta = time.Duration(float64(elapsed) * (float64(bar.total-done) / float64(done)))
	}
	fmt.Printf("\r\033[32m[%s]\033[0m %3.0f%% (%3d/%3d) ETA %s", barStr, ratio*100, done, bar.total, formatDuration(eta))
	if done == bar.total {
		fmt.Print("\n")
	}
}

func newProgressBar(total int) *progressBar {
	return &progressBar{total: total}
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "--s"
	}
	return d.Round(time.Second).String()
}

func exitErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
