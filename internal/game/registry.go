package game

import (
	"fmt"
	"sort"
)

// Info describes a registered module.
type Info struct {
	ID    string
	Title string
}

// Registry maps game IDs to modules. It is an explicit value built once at
// startup and passed to whatever routes matches to games.
type Registry struct {
	modules map[string]Module
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

func (r *Registry) Register(m Module) error {
	if _, exists := r.modules[m.ID()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateGame, m.ID())
	}
	r.modules[m.ID()] = m
	return nil
}

func (r *Registry) Get(id string) (Module, error) {
	m, ok := r.modules[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	return m, nil
}

// List returns the registered modules sorted by ID.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, Info{ID: m.ID(), Title: m.Title()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
