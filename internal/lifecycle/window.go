package lifecycle

import "sync"

// WindowHandle is the capability set the router needs from a window. Every
// operation is best-effort: an error means the host could not carry it out.
type WindowHandle interface {
	IsVisible() (bool, error)
	Show() error
	Hide() error
	SetFocus() error
}

// WindowLookup resolves a window by label.
type WindowLookup interface {
	Lookup(name string) (WindowHandle, bool)
}

// Registry maps window labels to handles. It only borrows the handles; the
// host owns the windows.
type Registry struct {
	mu      sync.RWMutex
	windows map[string]WindowHandle
}

func NewRegistry() *Registry {
	return &Registry{windows: make(map[string]WindowHandle)}
}

// Register adds or replaces the handle for name. A nil interface removes it.
// A typed nil pointer is stored as is, so its methods must tolerate a nil
// receiver.
func (r *Registry) Register(name string, w WindowHandle) {
	if w == nil {
		r.Unregister(name)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows[name] = w
}

func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, name)
}

func (r *Registry) Lookup(name string) (WindowHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.windows[name]
	return w, ok
}

// Names returns the registered labels in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.windows))
	for name := range r.windows {
		names = append(names, name)
	}
	return names
}
