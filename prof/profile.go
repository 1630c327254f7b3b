package prof

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry represents a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the duration since start with the given name.
func Track(start time.Time, name string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: name, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected timing entries and clears them.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Total aggregates every entry sharing one label.
type Total struct {
	Label string
	Count int
	Dur   time.Duration
}

// Totals folds entries into per-label totals, slowest first.
func Totals(entries []Entry) []Total {
	idx := make(map[string]int, len(entries))
	var out []Total
	for _, e := range entries {
		i, ok := idx[e.Label]
		if !ok {
			i = len(out)
			idx[e.Label] = i
			out = append(out, Total{Label: e.Label})
		}
		out[i].Count++
		out[i].Dur += e.Dur
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dur > out[j].Dur })
	return out
}

// Format renders totals as aligned lines for command output.
func Format(totals []Total) string {
	var b strings.Builder
	for _, t := range totals {
		avg := t.Dur
		if t.Count > 1 {
			avg = t.Dur / time.Duration(t.Count)
		}
		fmt.Fprintf(&b, "%-18s %5d call(s)  total %12v  avg %12v\n", t.Label, t.Count, t.Dur, avg)
	}
	return b.String()
}
