package render

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores input and display renderers by name, providing discovery
// and duplication safeguards.
type Registry struct {
	mu       sync.RWMutex
	inputs   map[string]Input
	displays map[string]Display
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		inputs:   make(map[string]Input),
		displays: make(map[string]Display),
	}
}

// RegisterInput adds an input renderer by its Name(). Duplicates error.
func (r *Registry) RegisterInput(renderer Input) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.inputs[name]; exists {
		return fmt.Errorf("render: input renderer %q already registered", name)
	}
	r.inputs[name] = renderer
	return nil
}

// RegisterDisplay adds a display renderer by its Name(). Duplicates error.
func (r *Registry) RegisterDisplay(renderer Display) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.displays[name]; exists {
		return fmt.Errorf("render: display renderer %q already registered", name)
	}
	r.displays[name] = renderer
	return nil
}

// MustRegisterInput panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegisterInput(renderer Input) {
	if err := r.RegisterInput(renderer); err != nil {
		panic(err)
	}
}

// MustRegisterDisplay panics on registration failure.
func (r *Registry) MustRegisterDisplay(renderer Display) {
	if err := r.RegisterDisplay(renderer); err != nil {
		panic(err)
	}
}

// Input retrieves an input renderer by name.
func (r *Registry) Input(name string) (Input, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.inputs[name]
	if !ok {
		return nil, fmt.Errorf("render: input renderer %q not found", name)
	}
	return renderer, nil
}

// Display retrieves a display renderer by name.
func (r *Registry) Display(name string) (Display, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.displays[name]
	if !ok {
		return nil, fmt.Errorf("render: display renderer %q not found", name)
	}
	return renderer, nil
}

// List returns the sorted names of all registered renderers.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.inputs)+len(r.displays))
	for name := range r.inputs {
		names = append(names, name)
	}
	for name := range r.displays {
		if _, dup := r.inputs[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
