package monitoring_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/javatechgroup/sanitizekit/pkg/monitoring"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestMiddleware(t *testing.T) {
	t.Run("logs served requests at debug", func(t *testing.T) {
		var buf bytes.Buffer
		handler := monitoring.Middleware(newLogger(&buf), time.Second)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}),
		)

		req := httptest.NewRequest(http.MethodGet, "/things", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		assert.Contains(t, out, "request served")
		assert.Contains(t, out, "path=/things")
		assert.Contains(t, out, "duration=")
		assert.Contains(t, out, "alloc_bytes=")
	})

	t.Run("logs slow requests at warning", func(t *testing.T) {
		var buf bytes.Buffer
		handler := monitoring.Middleware(newLogger(&buf), time.Nanosecond)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(2 * time.Millisecond)
			}),
		)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))

		out := buf.String()
		assert.Contains(t, out, "slow request")
		assert.Contains(t, out, "level=WARN")
	})

	t.Run("non-positive threshold never warns", func(t *testing.T) {
		var buf bytes.Buffer
		handler := monitoring.Middleware(newLogger(&buf), 0)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Contains(t, buf.String(), "request served")
		assert.NotContains(t, buf.String(), "slow request")
	})
}
