package bmfont

import (
	"fmt"
	"slices"
	"sync"
)

// DefaultRegistry is the registry used when no other is configured.
var DefaultRegistry = NewRegistry()

// Registry maps font names to loaded fonts.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	fonts map[string]*Font
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fonts: make(map[string]*Font)}
}

// Register adds f under f.Name, replacing any font with the same name.
func (r *Registry) Register(f *Font) error {
	if f == nil {
		return ErrNilFont
	}
	r.mu.Lock()
	r.fonts[f.Name] = f
	r.mu.Unlock()

	slogger().Debug("bmfont: font registered",
		"name", f.Name,
		"size", f.Size,
		"glyphs", f.Len(),
		"pages", len(f.Pages),
	)
	return nil
}

// Lookup returns the font registered under name.
// The error wraps ErrFontNotRegistered when none is.
func (r *Registry) Lookup(name string) (*Font, error) {
	r.mu.RLock()
	f, ok := r.fonts[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFontNotRegistered, name)
	}
	return f, nil
}

// Unregister removes the font registered under name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.fonts, name)
	r.mu.Unlock()
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.fonts))
	for name := range r.fonts {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}
