// Package cpufeature exposes a process-wide, once-computed snapshot of the
// CPU properties the constant-time exponentiation path cares about: the
// L1 cache line width (which bounds how large a fixed window's power
// table may grow while keeping every entry's access pattern
// cache-line-uniform) and a couple of wide-multiply feature flags kept for
// a future assembly fast path.
//
// Grounded on spec.md §5's "optional once-initialized CPU-feature table
// populated at process start" and exponentiation.c's
// MOD_EXP_CTIME_MIN_CACHE_LINE_WIDTH constant, generalized here from a
// hardcoded 64 to a runtime-detected value.
package cpufeature

import (
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// defaultCacheLineBytes is used when the detected cache line width is
// implausible (0, or not a power of two), matching
// MOD_EXP_CTIME_MIN_CACHE_LINE_WIDTH's fallback assumption.
const defaultCacheLineBytes = 64

// Snapshot is an immutable record of the properties detected at first use.
type Snapshot struct {
	CacheLineBytes int
	HasADX         bool
	HasBMI2        bool
}

var (
	once sync.Once
	snap Snapshot
)

// Get returns the process-wide snapshot, computing it on first call.
func Get() Snapshot {
	once.Do(func() {
		snap = Snapshot{
			CacheLineBytes: cpuid.CPU.CacheLine,
			HasADX:         cpuid.CPU.Supports(cpuid.ADX),
			HasBMI2:        cpuid.CPU.Supports(cpuid.BMI2),
		}
		if snap.CacheLineBytes <= 0 || snap.CacheLineBytes&(snap.CacheLineBytes-1) != 0 {
			snap.CacheLineBytes = defaultCacheLineBytes
		}
	})
	return snap
}
