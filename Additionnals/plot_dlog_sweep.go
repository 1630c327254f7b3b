package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type SweepRow struct {
	Stage      string  `json:"-"`
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

type sweepRecord struct {
	Stage  string   `json:"stage"`
	Report SweepRow `json:"report"`
}

type point struct {
	bits    int
	proveMS float64
	val     []interface{} // payload for tooltip
}

func main() {
	inPath := flag.String("in", "Additionnals/dlog_sweep.jsonl", "input sweep JSONL file")
	outPath := flag.String("out", "plot_dlog_sweep.html", "output HTML file")
	flag.Parse()

	resolvedIn, err := resolveSweepPath(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		os.Exit(1)
	}
	if resolvedIn != *inPath {
		fmt.Fprintf(os.Stderr, "[info] using %s (resolved from %s)\n", resolvedIn, *inPath)
	}

	rows, err := readSweepRows(resolvedIn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "[debug] rows loaded from %s: %d\n", resolvedIn, len(rows))

	reportSlowestCells(rows)

	series, roundCounts, minVerify, maxVerify := buildSeries(rows)
	if maxVerify <= minVerify {
		maxVerify = minVerify + 1
	}

	page := components.NewPage().SetPageTitle("Proving Cost vs. Modulus Width")

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Prove Time vs. Modulus Width",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
			Formatter: opts.FuncOpts(`
function (p) {
  var v = p.value || [];
  function fix2(x){
    if (typeof x === 'number') return x.toFixed(2);
    return (x === undefined || x === null) ? '-' : x;
  }
  return [
    '<b>' + p.seriesName + '</b> · ' + (v[8] || '(stage unknown)'),
    'Modulus: 2^' + v[3] + ' - 1 (' + v[0] + ' bits)',
    'Prove: ' + fix2(v[1]) + ' ms (' + fix2(v[7]) + ' µs/round)',
    'Verify: ' + fix2(v[2]) + ' ms',
    'Rounds: ' + v[4] + ', rep ' + v[5],
    'Transcript: ' + fix2(v[6]) + ' KB',
    'Accepted: ' + (v[9] ? 'yes' : 'no')
  ].join('<br/>');
}`),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Operand width (bits)",
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Formatter: "{value}"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Prove time (ms)",
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Formatter: "{value}"},
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside"},
			opts.DataZoom{Type: "slider"},
		),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
				Restore:     &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)},
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true)},
			},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Type:       "continuous",
			Dimension:  "2",
			Min:        float32(minVerify),
			Max:        float32(maxVerify),
			Calculable: opts.Bool(true),
			Left:       "left",
			Top:        "middle",
			InRange:    &opts.VisualMapInRange{Color: []string{"#0ea5e9", "#22c55e", "#ef4444"}},
		}),
	)

	for _, rc := range roundCounts {
		items := make([]opts.ScatterData, 0, len(series[rc]))
		for _, p := range series[rc] {
			items = append(items, opts.ScatterData{Value: p.val})
		}
		sc.AddSeries(fmt.Sprintf("%d rounds", rc), items,
			charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "circle", SymbolSize: 8}),
		)
	}
	page.AddCharts(sc)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Mean Prove Time per Group",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Operand width (bits)"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Prove time (ms)",
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Formatter: "{value}"},
		}),
	)
	widths, meanByRounds := buildMeans(rows)
	labels := make([]string, len(widths))
	for i, w := range widths {
		labels[i] = fmt.Sprintf("%d", w)
	}
	line.SetXAxis(labels)
	for _, rc := range roundCounts {
		means := meanByRounds[rc]
		items := make([]opts.LineData, len(widths))
		for i, w := range widths {
			items[i] = opts.LineData{Value: means[w]}
		}
		line.AddSeries(fmt.Sprintf("%d rounds", rc), items,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		)
	}
	page.AddCharts(line)

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		fmt.Fprintf(os.Stderr, "render error: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, rc := range roundCounts {
		total += len(series[rc])
	}
	fmt.Printf("Wrote %s | points: %d across %d round counts\n", *outPath, total, len(roundCounts))
}

func reportSlowestCells(rows []SweepRow) {
	if len(rows) == 0 {
		return
	}
	sorted := append([]SweepRow(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProveUS > sorted[j].ProveUS })
	limit := 10
	if len(sorted) < limit {
		limit = len(sorted)
	}
	fmt.Printf("Top %d rows by prove time\n", limit)
	fmt.Println("Rank | k    | Bits | Rounds | Prove(ms) | Verify(ms) | µs/round | KB")
	for i := 0; i < limit; i++ {
		r := sorted[i]
		fmt.Printf("%2d)  | %4d | %4d | %6d | %9.2f | %10.2f | %8.2f | %6.2f\n",
			i+1,
			r.Exponent,
			r.Bits,
			r.Rounds,
			float64(r.ProveUS)/1000.0,
			float64(r.VerifyUS)/1000.0,
			r.PerRoundUS,
			float64(r.ProofBytes)/1024.0,
		)
	}
}

func resolveSweepPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty input path")
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	var candidates []string
	switch filepath.Ext(path) {
	case ".json":
		candidates = append(candidates, path+"l")
	case "":
		candidates = append(candidates, path+".jsonl", path+".json")
	default:
		base := path[:len(path)-len(filepath.Ext(path))]
		candidates = append(candidates, base+".jsonl", base+".json")
	}

	for _, cand := range candidates {
		if _, err := os.Stat(cand); err == nil {
			return cand, nil
		}
	}
	return "", fmt.Errorf("unable to find sweep input at %s", path)
}

func readSweepRows(path string) ([]SweepRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("input %s is empty", path)
	}

	var rows []SweepRow
	if trimmed[0] == '[' {
		rows, err = decodeSweepArray(trimmed)
	} else {
		rows, err = decodeSweepJSONL(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no valid sweep rows found in %s", path)
	}
	return rows, nil
}

func decodeSweepArray(data []byte) ([]SweepRow, error) {
	var env []sweepRecord
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	rows := make([]SweepRow, 0, len(env))
	for _, rec := range env {
		row := rec.Report
		row.Stage = rec.Stage
		if !isRowValid(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeSweepJSONL(data []byte) ([]SweepRow, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 256<<10), 16<<20)
	var rows []SweepRow
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec sweepRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		row := rec.Report
		row.Stage = rec.Stage
		if !isRowValid(row) {
			continue
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func isRowValid(r SweepRow) bool {
	return r.Bits > 0 && r.Rounds > 0 && r.ProofBytes > 0
}

func buildSeries(rows []SweepRow) (series map[int][]point, roundCounts []int, minVerify, maxVerify float64) {
	series = map[int][]point{}
	first := true
	for _, r := range rows {
		proveMS := float64(r.ProveUS) / 1000.0
		verifyMS := float64(r.VerifyUS) / 1000.0
		ok := 0
		if r.OK {
			ok = 1
		}
		stage := r.Stage
		if stage == "" {
			stage = "(unknown)"
		}
		val := []interface{}{
			r.Bits,       // x
			proveMS,      // y
			verifyMS,     // visual map dimension
			r.Exponent,
			r.Rounds,
			r.Rep,
			float64(r.ProofBytes) / 1024.0,
			r.PerRoundUS,
			stage,
			ok,
		}
		series[r.Rounds] = append(series[r.Rounds], point{bits: r.Bits, proveMS: proveMS, val: val})
		if first || verifyMS < minVerify {
			minVerify = verifyMS
		}
		if first || verifyMS > maxVerify {
			maxVerify = verifyMS
		}
		first = false
	}
	for rc := range series {
		roundCounts = append(roundCounts, rc)
		sort.Slice(series[rc], func(i, j int) bool { return series[rc][i].bits < series[rc][j].bits })
	}
	sort.Ints(roundCounts)
	return
}

// buildMeans averages prove time per (width, rounds) cell for the line view.
func buildMeans(rows []SweepRow) (widths []int, meanByRounds map[int]map[int]float64) {
	type acc struct {
		sumUS int64
		n     int
	}
	cells := map[int]map[int]*acc{}
	seen := map[int]bool{}
	for _, r := range rows {
		if cells[r.Rounds] == nil {
			cells[r.Rounds] = map[int]*acc{}
		}
		a := cells[r.Rounds][r.Bits]
		if a == nil {
			a = &acc{}
			cells[r.Rounds][r.Bits] = a
		}
		a.sumUS += r.ProveUS
		a.n++
		seen[r.Bits] = true
	}
	for w := range seen {
		widths = append(widths, w)
	}
	sort.Ints(widths)
	meanByRounds = map[int]map[int]float64{}
	for rc, byWidth := range cells {
		means := map[int]float64{}
		for w, a := range byWidth {
			means[w] = float64(a.sumUS) / 1000.0 / float64(a.n)
		}
		meanByRounds[rc] = means
	}
	return
}
