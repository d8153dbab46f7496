package safelist

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Registry is a concurrent catalogue of caller-registered safelists keyed
// by name. The engine's built-in strategies never pass through a registry;
// it only manages application-specific rule sets used by the custom
// strategy.
//
// Safelists are immutable, so a registration racing a lookup always
// observes either the previous entry or the complete new one.
type Registry struct {
	mu    sync.RWMutex
	log   *slog.Logger
	lists map[string]*Safelist
}

// NewRegistry creates an empty registry. A nil logger falls back to
// slog.Default.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:   log,
		lists: make(map[string]*Safelist),
	}
}

// Register adds or replaces the safelist stored under name.
// An empty or whitespace-only name and a nil safelist are caller errors.
func (r *Registry) Register(name string, sl *Safelist) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrEmptyName)
	}
	if sl == nil {
		return fmt.Errorf("%w: %q", ErrNilSafelist, name)
	}

	r.mu.Lock()
	r.lists[name] = sl
	r.mu.Unlock()

	r.log.Debug("registered custom safelist", slog.String("name", name))
	return nil
}

// Remove deletes the safelist stored under name and reports whether an
// entry existed. Removing an absent name is not an error.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	_, existed := r.lists[name]
	delete(r.lists, name)
	r.mu.Unlock()

	if existed {
		r.log.Debug("removed custom safelist", slog.String("name", name))
	}
	return existed
}

// Get returns the safelist stored under name, if any.
func (r *Registry) Get(name string) (*Safelist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sl, ok := r.lists[name]
	return sl, ok
}

// Count returns the number of registered safelists.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lists)
}

// Clear removes every registered safelist.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.lists = make(map[string]*Safelist)
	r.mu.Unlock()
}
