// Package sanitize is a policy-driven input sanitization engine: it strips
// unsafe markup from string values according to a configurable strategy,
// and can locate and clean tagged fields across an arbitrary object graph.
//
// The engine combines three pieces of shared state, each guarded
// independently so contention on one never blocks the others:
//
//   - a bounded, access-ordered result cache memoizing cleaned text,
//   - a per-type field metadata cache built by reflection once per type,
//   - a registry of caller-defined safelists for the custom strategy.
//
// # Strategies
//
// Four closed strategies select the governing safelist: StrategyBasic,
// StrategyRelaxed and StrategyNone map to the built-ins of the safelist
// package; StrategyCustom resolves a registered name, falling back to
// basic when the name is unknown.
//
// # Sanitizing strings
//
//	engine := sanitize.New()
//	safe := engine.Sanitize(userInput, sanitize.StrategyBasic)
//
// Sanitize never returns an error. Oversized input (beyond
// MaxInputLength) degrades to an empty string, an unresolvable custom
// safelist falls back to basic, and an internal cleaning failure is
// recovered into an empty string. A sanitizer that fails open is a
// security defect; over-stripping is the safe default. All of these
// events are logged and visible through Stats.
//
// # Sanitizing object graphs
//
// Fields are marked with the sanitize struct tag and cleaned in place:
//
//	type Post struct {
//		Title   string   `sanitize:"none"`
//		Body    string   `sanitize:"relaxed"`
//		Summary *string  `sanitize:"basic"`          // nil stays nil
//		Author  *Author  `sanitize:"basic"`          // traversed
//		Meta    Metadata `sanitize:"basic,norecurse"` // not traversed
//	}
//
//	err := engine.SanitizeStruct(&post)
//
// Traversal is depth-first and bounded by MaxDepth (default 5); the depth
// bound is the only cycle guard. Standard library types and any type
// under a WithOpaquePrefixes prefix are opaque: never inspected, never
// traversed. Unlike string cleaning, structural defects - a non-pointer
// root, a tag on an unexported field, an unknown strategy in a tag - are
// returned as errors, because they indicate a programming mistake that
// must not be masked.
//
// # Construction
//
// One engine per process, built at startup and shared:
//
//	engine := sanitize.New(
//		sanitize.WithLogger(log),
//		sanitize.WithSafelist("highlight", safelist.None().AddTags("mark")),
//	)
//
// or from the environment:
//
//	cfg, err := sanitize.LoadConfig()
//	engine := sanitize.NewFromConfig(cfg)
//
// # Caching
//
// Results for inputs between CacheMinLength and CacheMaxLength bytes are
// memoized in an LRU cache bounded at MaxCacheSize entries. Inputs above
// HashKeyThreshold are keyed by an FNV-1a digest instead of the full
// string; a hash collision can alias two inputs to one cached result,
// which is an accepted trade for the memory bound.
//
// # Thread safety
//
// All methods are safe for concurrent use. Cleaning happens outside cache
// locks; two callers racing on an uncached key may both compute the same
// pure result, with one write winning.
package sanitize
