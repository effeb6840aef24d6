package tool

import (
	"fmt"
	"sort"
	"sync"
)

// DuplicateToolError is returned by Register when a tool name is already taken.
type DuplicateToolError struct{ Name string }

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// UnknownToolError is returned by Get for names absent from the registry.
type UnknownToolError struct{ Name string }

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// Info carries the name/description pair used to inform tool selection.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry holds the set of available tools indexed by name. Registration is
// a startup-time phase: the orchestration engine closes over the registry
// when it is constructed and no mutation happens during query processing,
// which keeps concurrent runs free of registration races. The mutex guards
// against misuse, not expected concurrency.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Fails with *DuplicateToolError if the name is taken.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		return &DuplicateToolError{Name: t.Name()}
	}
	r.tools[t.Name()] = t
	return nil
}

// MustRegister registers a batch of tools and panics on duplicates. Intended
// for startup wiring where a duplicate name is a programming error.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Get returns the named tool or *UnknownToolError.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return t, nil
}

// List returns tool infos sorted by name so prompts built from the registry
// are deterministic.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]Info, 0, len(r.tools))
	for _, t := range r.tools {
		infos = append(infos, Info{Name: t.Name(), Description: t.Description()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
