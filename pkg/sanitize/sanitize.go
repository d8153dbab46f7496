package sanitize

import (
	"hash/fnv"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/javatechgroup/sanitizekit/pkg/safelist"
)

// Strategy selects which safelist governs a value.
type Strategy string

const (
	// StrategyBasic allows simple text formatting, links and lists.
	StrategyBasic Strategy = "basic"
	// StrategyRelaxed additionally allows images, tables and common
	// presentation attributes.
	StrategyRelaxed Strategy = "relaxed"
	// StrategyNone strips all markup, leaving plain text.
	StrategyNone Strategy = "none"
	// StrategyCustom looks the safelist up by name in the engine's
	// registry, falling back to basic when the name is not registered.
	StrategyCustom Strategy = "custom"
)

// Defaults for the engine's structural bounds. Each can be overridden at
// construction time through options or Config.
const (
	// DefaultMaxCacheSize bounds the result cache entry count.
	DefaultMaxCacheSize = 5000
	// DefaultMaxInputLength is the largest input, in bytes, the engine
	// will clean. Anything longer degrades to an empty result.
	DefaultMaxInputLength = 100000
	// DefaultCacheMinLength and DefaultCacheMaxLength delimit the input
	// sizes worth caching: shorter inputs are cheaper to recompute than to
	// look up, longer ones are too likely to be unique.
	DefaultCacheMinLength = 5
	DefaultCacheMaxLength = 5000
	// DefaultHashKeyThreshold is the input size above which cache keys
	// store a hash of the input instead of the input itself.
	DefaultHashKeyThreshold = 1000
	// DefaultMaxDepth bounds nested traversal in SanitizeStruct.
	DefaultMaxDepth = 5
)

// Engine owns all sanitization state: the result cache, the per-type field
// metadata cache and the custom safelist registry. One engine is meant to
// be constructed at process start and shared by every caller; all methods
// are safe for concurrent use.
type Engine struct {
	log      *slog.Logger
	registry *safelist.Registry

	basic   *safelist.Safelist
	relaxed *safelist.Safelist
	none    *safelist.Safelist

	cache      *resultCache
	fieldCache sync.Map // reflect.Type -> *typeFields
	stats      engineStats

	maxCacheSize     int
	maxInputLength   int
	cacheMinLength   int
	cacheMaxLength   int
	hashKeyThreshold int
	maxDepth         int
	opaquePrefixes   []string
}

// Option configures engine creation.
type Option func(*Engine)

// WithLogger sets the logger used for fallback, rejection and mutation
// events. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRegistry replaces the engine's custom safelist registry, allowing
// several engines to share one. Nil registries are ignored.
func WithRegistry(r *safelist.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithMaxCacheSize bounds the result cache. Non-positive values are ignored.
func WithMaxCacheSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxCacheSize = n
		}
	}
}

// WithMaxInputLength bounds the input size. Non-positive values are ignored.
func WithMaxInputLength(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxInputLength = n
		}
	}
}

// WithMaxDepth bounds nested struct traversal. Non-positive values are
// ignored.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithOpaquePrefixes adds package path prefixes whose types are never
// traversed, on top of the standard library which is always opaque.
func WithOpaquePrefixes(prefixes ...string) Option {
	return func(e *Engine) {
		for _, p := range prefixes {
			if p != "" {
				e.opaquePrefixes = append(e.opaquePrefixes, p)
			}
		}
	}
}

// WithSafelist registers a custom safelist at construction time. It panics
// on an invalid name or nil safelist to enforce fail-fast initialization.
func WithSafelist(name string, sl *safelist.Safelist) Option {
	return func(e *Engine) {
		if err := e.registry.Register(name, sl); err != nil {
			panic(err)
		}
	}
}

// New creates an engine with the default bounds and the three built-in
// safelists.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:              slog.Default(),
		basic:            safelist.Basic(),
		relaxed:          safelist.Relaxed(),
		none:             safelist.None(),
		maxCacheSize:     DefaultMaxCacheSize,
		maxInputLength:   DefaultMaxInputLength,
		cacheMinLength:   DefaultCacheMinLength,
		cacheMaxLength:   DefaultCacheMaxLength,
		hashKeyThreshold: DefaultHashKeyThreshold,
		maxDepth:         DefaultMaxDepth,
	}
	e.registry = safelist.NewRegistry(e.log)

	for _, opt := range opts {
		opt(e)
	}

	e.cache = newResultCache(e.maxCacheSize)
	return e
}

// Sanitize cleans the input according to the strategy and returns the safe
// result. It never returns an error: oversized input, unresolvable custom
// safelists and internal cleaning failures all degrade to a safe result
// (empty string or basic-safelist output) and are logged and counted.
//
// Use SanitizeCustom for the custom strategy; calling Sanitize with
// StrategyCustom resolves against the empty name and falls back to basic.
func (e *Engine) Sanitize(input string, strategy Strategy) string {
	return e.sanitize(input, strategy, "")
}

// SanitizeCustom cleans the input with the named registered safelist,
// falling back to the basic safelist when the name is unknown.
func (e *Engine) SanitizeCustom(input, safelistName string) string {
	return e.sanitize(input, StrategyCustom, safelistName)
}

func (e *Engine) sanitize(input string, strategy Strategy, customName string) string {
	if input == "" {
		return ""
	}

	if len(input) > e.maxInputLength {
		e.log.Warn("input too large for sanitization",
			slog.Int("length", len(input)),
			slog.Int("max", e.maxInputLength))
		e.stats.sizeRejections.Add(1)
		return ""
	}

	// Very short inputs are cheaper to recompute than to cache; very long
	// ones are unlikely to repeat.
	if len(input) < e.cacheMinLength || len(input) > e.cacheMaxLength {
		return e.clean(input, strategy, customName)
	}

	key := e.cacheKey(input, strategy, customName)
	if cached, ok := e.cache.get(key); ok {
		e.stats.cacheHits.Add(1)
		return cached
	}
	e.stats.cacheMisses.Add(1)

	out := e.clean(input, strategy, customName)
	e.cache.put(key, out)
	return out
}

// clean resolves the effective safelist and applies it. Failures inside
// markup cleaning never reach the caller: the result degrades to an empty
// string, which over-strips rather than failing open.
func (e *Engine) clean(input string, strategy Strategy, customName string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("sanitization failed",
				slog.String("strategy", string(strategy)),
				slog.Any("panic", r))
			e.stats.cleaningFailures.Add(1)
			out = ""
		}
	}()

	return e.resolve(strategy, customName).Clean(input)
}

// resolve maps a strategy to its safelist. Built-in names resolve before
// the registry is consulted, so built-ins can be neither removed nor
// shadowed by custom registrations.
func (e *Engine) resolve(strategy Strategy, customName string) *safelist.Safelist {
	switch strategy {
	case StrategyBasic:
		return e.basic
	case StrategyRelaxed:
		return e.relaxed
	case StrategyNone:
		return e.none
	case StrategyCustom:
		if sl, ok := e.registry.Get(customName); ok {
			return sl
		}
		e.log.Warn("custom safelist not found, falling back to basic",
			slog.String("name", customName))
		e.stats.customFallbacks.Add(1)
		return e.basic
	default:
		e.log.Warn("unknown sanitization strategy, falling back to basic",
			slog.String("strategy", string(strategy)))
		return e.basic
	}
}

// cacheKey builds "strategy:[name:]input", replacing inputs above the hash
// threshold with an FNV-1a digest so large strings are never stored as map
// keys. Hash collisions can alias two inputs to one cached result; the
// risk is accepted for the memory bound it buys.
func (e *Engine) cacheKey(input string, strategy Strategy, customName string) string {
	var b strings.Builder
	b.WriteString(string(strategy))
	b.WriteByte(':')
	if customName != "" {
		b.WriteString(customName)
		b.WriteByte(':')
	}
	if len(input) > e.hashKeyThreshold {
		h := fnv.New64a()
		h.Write([]byte(input))
		b.WriteString(strconv.FormatUint(h.Sum64(), 36))
	} else {
		b.WriteString(input)
	}
	return b.String()
}

// Registry returns the engine's custom safelist registry.
func (e *Engine) Registry() *safelist.Registry {
	return e.registry
}

// RegisterSafelist registers a custom safelist for the custom strategy.
func (e *Engine) RegisterSafelist(name string, sl *safelist.Safelist) error {
	return e.registry.Register(name, sl)
}

// RemoveSafelist removes a custom safelist and reports whether it existed.
func (e *Engine) RemoveSafelist(name string) bool {
	return e.registry.Remove(name)
}

// Clear empties the result cache, the field metadata cache, the custom
// safelist registry and the operational counters. Intended for
// administrative resets and tests; in-flight calls complete against the
// state they already resolved.
func (e *Engine) Clear() {
	e.cache.clear()
	e.fieldCache.Range(func(k, _ any) bool {
		e.fieldCache.Delete(k)
		return true
	})
	e.registry.Clear()
	e.stats.reset()
	e.log.Debug("cleared sanitization caches and custom safelists")
}

// CacheSize returns the current number of entries in the result cache.
func (e *Engine) CacheSize() int {
	return e.cache.len()
}

// SafelistCount returns the number of registered custom safelists.
func (e *Engine) SafelistCount() int {
	return e.registry.Count()
}

// MaxInputLength returns the engine's input size bound in bytes.
func (e *Engine) MaxInputLength() int {
	return e.maxInputLength
}

// MaxCacheSize returns the result cache bound.
func (e *Engine) MaxCacheSize() int {
	return e.maxCacheSize
}

// MaxDepth returns the nested traversal bound.
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// Stats returns a snapshot of the engine's operational counters.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}
