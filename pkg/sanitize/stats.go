package sanitize

import "sync/atomic"

// Stats is a point-in-time snapshot of the engine's operational counters.
type Stats struct {
	// SizeRejections counts inputs refused for exceeding MaxInputLength.
	SizeRejections uint64
	// CustomFallbacks counts custom-strategy calls that fell back to the
	// basic safelist because the named safelist was not registered.
	CustomFallbacks uint64
	// CleaningFailures counts recovered markup-cleaning failures that
	// degraded to an empty result.
	CleaningFailures uint64
	// CacheHits and CacheMisses cover cacheable inputs only; inputs that
	// bypass the cache are counted in neither.
	CacheHits   uint64
	CacheMisses uint64
}

type engineStats struct {
	sizeRejections   atomic.Uint64
	customFallbacks  atomic.Uint64
	cleaningFailures atomic.Uint64
	cacheHits        atomic.Uint64
	cacheMisses      atomic.Uint64
}

func (s *engineStats) snapshot() Stats {
	return Stats{
		SizeRejections:   s.sizeRejections.Load(),
		CustomFallbacks:  s.customFallbacks.Load(),
		CleaningFailures: s.cleaningFailures.Load(),
		CacheHits:        s.cacheHits.Load(),
		CacheMisses:      s.cacheMisses.Load(),
	}
}

func (s *engineStats) reset() {
	s.sizeRejections.Store(0)
	s.customFallbacks.Store(0)
	s.cleaningFailures.Store(0)
	s.cacheHits.Store(0)
	s.cacheMisses.Store(0)
}
