package mask

import (
	"sort"
	"sync"
)

// Masker is the extension contract for custom masking logic, applied
// to fields marked with `mask:"custom=<name>"`. Implementations must
// be safe for concurrent use. A panicking implementation is recovered
// by the engine and replaced with full masking, so an extension
// failure can never surface the original text or reach the caller.
type Masker interface {
	Mask(value string, maskChar rune) string
}

// MaskerFunc adapts a plain function to the Masker interface.
type MaskerFunc func(value string, maskChar rune) string

func (f MaskerFunc) Mask(value string, maskChar rune) string {
	return f(value, maskChar)
}

// Registry holds named custom maskers. Registration typically happens
// once at startup; lookups are concurrent and lock-cheap.
type Registry struct {
	mu      sync.RWMutex
	maskers map[string]Masker
}

// NewRegistry creates an empty masker registry.
func NewRegistry() *Registry {
	return &Registry{maskers: make(map[string]Masker)}
}

// Register binds a masker to a name, replacing any previous binding.
func (r *Registry) Register(name string, m Masker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maskers[name] = m
}

// Get looks up a masker by name.
func (r *Registry) Get(name string) (Masker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.maskers[name]
	return m, ok
}

// Names returns the registered masker names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.maskers))
	for name := range r.maskers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
