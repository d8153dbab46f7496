// Package monitoring provides HTTP middleware that records per-request
// duration and memory allocation through structured logging.
package monitoring

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"
)

// Middleware returns middleware logging each request's duration and the
// bytes allocated while serving it. Requests slower than slowThreshold are
// logged at warning level, the rest at debug. A nil logger falls back to
// slog.Default; a non-positive threshold logs everything at debug.
//
// The allocation figure is process-wide, so concurrent requests inflate
// each other's numbers; it is a coarse signal, not an exact measurement.
func Middleware(log *slog.Logger, slowThreshold time.Duration) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var before runtime.MemStats
			runtime.ReadMemStats(&before)
			start := time.Now()

			next.ServeHTTP(w, r)

			elapsed := time.Since(start)
			var after runtime.MemStats
			runtime.ReadMemStats(&after)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", elapsed),
				slog.Uint64("alloc_bytes", after.TotalAlloc-before.TotalAlloc),
			}
			if slowThreshold > 0 && elapsed > slowThreshold {
				log.Warn("slow request", attrs...)
				return
			}
			log.Debug("request served", attrs...)
		})
	}
}
