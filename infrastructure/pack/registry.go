// Package pack provides pack registry implementation.
package pack

import (
	"sort"
	"sync"

	"github.com/felixgeelhaar/time-server/domain/pack"
	"github.com/felixgeelhaar/time-server/domain/tool"
)

// Registry is an in-memory pack registry.
type Registry struct {
	packs map[string]*pack.Pack
	mu    sync.RWMutex
}

// NewRegistry creates a new pack registry.
func NewRegistry() *Registry {
	return &Registry{
		packs: make(map[string]*pack.Pack),
	}
}

// Register adds a pack to the registry.
func (r *Registry) Register(p *pack.Pack) error {
	if p == nil || p.Name == "" {
		return pack.ErrInvalidPack
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.packs[p.Name]; exists {
		return pack.ErrPackExists
	}

	r.packs[p.Name] = p
	return nil
}

// Get retrieves a pack by name.
func (r *Registry) Get(name string) (*pack.Pack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.packs[name]
	return p, ok
}

// List returns all registered packs sorted by name.
func (r *Registry) List() []*pack.Pack {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*pack.Pack, 0, len(r.packs))
	for _, p := range r.packs {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Unregister removes a pack from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.packs[name]; !exists {
		return pack.ErrPackNotFound
	}

	delete(r.packs, name)
	return nil
}

// Install registers the pack's tools that pass filter into toolReg.
// Tools already present in toolReg are skipped.
func (r *Registry) Install(name string, toolReg tool.Registry, filter pack.Filter) (int, error) {
	p, ok := r.Get(name)
	if !ok {
		return 0, pack.ErrPackNotFound
	}
	return InstallPack(p, toolReg, filter)
}

// InstallPack registers the tools of p that pass filter into toolReg.
func InstallPack(p *pack.Pack, toolReg tool.Registry, filter pack.Filter) (int, error) {
	if p == nil {
		return 0, pack.ErrInvalidPack
	}

	installed := 0
	for _, t := range p.Tools {
		if !filter.Allows(t.Name()) || toolReg.Has(t.Name()) {
			continue
		}
		if err := toolReg.Register(t); err != nil {
			return installed, err
		}
		installed++
	}
	return installed, nil
}

// Clear removes all packs from the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packs = make(map[string]*pack.Pack)
}

// Len returns the number of registered packs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.packs)
}

var _ pack.Registry = (*Registry)(nil)
