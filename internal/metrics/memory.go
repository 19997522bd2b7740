package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use
	Sys          uint64 // total bytes obtained from the OS
	TotalAlloc   uint64 // cumulative bytes allocated
	Mallocs      uint64 // cumulative heap objects allocated
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		Mallocs:      m.Mallocs,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// Since returns the growth of the cumulative counters between before and s.
// HeapAlloc and Sys are taken from s as they are not cumulative.
func (s MemorySnapshot) Since(before MemorySnapshot) MemorySnapshot {
	return MemorySnapshot{
		HeapAlloc:    s.HeapAlloc,
		Sys:          s.Sys,
		TotalAlloc:   s.TotalAlloc - before.TotalAlloc,
		Mallocs:      s.Mallocs - before.Mallocs,
		NumGC:        s.NumGC - before.NumGC,
		PauseTotalNs: s.PauseTotalNs - before.PauseTotalNs,
	}
}

// AllocsPerOp divides the allocation count of a delta by ops.
func (s MemorySnapshot) AllocsPerOp(ops uint64) float64 {
	if ops == 0 {
		return 0
	}
	return float64(s.Mallocs) / float64(ops)
}
