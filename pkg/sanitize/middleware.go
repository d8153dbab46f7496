package sanitize

import (
	"net/http"
	"strings"
)

// Middleware sanitizes the named query and form parameters of every
// request with the given strategy before the handler runs. Parameters not
// listed pass through untouched; listing none sanitizes every parameter.
//
// For JSON request bodies, decode first and pass the decoded struct to
// Engine.SanitizeStruct instead; the body is opaque bytes at this layer.
func Middleware(e *Engine, strategy Strategy, params ...string) func(http.Handler) http.Handler {
	wanted := make(map[string]struct{}, len(params))
	for _, p := range params {
		wanted[p] = struct{}{}
	}
	selected := func(name string) bool {
		if len(wanted) == 0 {
			return true
		}
		_, ok := wanted[name]
		return ok
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			if sanitizeValues(e, strategy, query, selected) {
				r.URL.RawQuery = query.Encode()
			}

			if hasFormBody(r) && r.ParseForm() == nil {
				sanitizeValues(e, strategy, r.PostForm, selected)
				sanitizeValues(e, strategy, r.Form, selected)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func sanitizeValues(e *Engine, strategy Strategy, values map[string][]string, selected func(string) bool) bool {
	changed := false
	for name, vs := range values {
		if !selected(name) {
			continue
		}
		for i, v := range vs {
			if cleaned := e.Sanitize(v, strategy); cleaned != v {
				vs[i] = cleaned
				changed = true
			}
		}
	}
	return changed
}

func hasFormBody(r *http.Request) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded")
}
