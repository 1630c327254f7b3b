package measureutil

import "runtime"

// Snapshot captures the allocation counters of the Go runtime at one
// point in time.
type Snapshot struct {
	HeapAlloc  uint64
	TotalAlloc uint64
	Mallocs    uint64
}

// Capture reads the current runtime counters.
func Capture() Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Snapshot{
		HeapAlloc:  ms.HeapAlloc,
		TotalAlloc: ms.TotalAlloc,
		Mallocs:    ms.Mallocs,
	}
}

// Delta reports the allocation activity between two snapshots. The
// cumulative counters never decrease, so the deltas are well defined
// even when the garbage collector runs in between.
func Delta(before, after Snapshot) Snapshot {
	return Snapshot{
		HeapAlloc:  after.HeapAlloc,
		TotalAlloc: after.TotalAlloc - before.TotalAlloc,
		Mallocs:    after.Mallocs - before.Mallocs,
	}
}
