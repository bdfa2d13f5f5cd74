package registry

import (
	"reflect"
	"sort"
	"sync"

	"github.com/junioryono/singleton/internal/reflection"
)

// Descriptor represents a registered factory function.
type Descriptor struct {
	// Type is the product type the factory returns.
	Type reflect.Type

	// Params are the factory's parameter types, in order.
	Params []reflect.Type

	// Constructor is the reflected function value.
	Constructor reflect.Value

	// ConstructorType is the type of the constructor function.
	ConstructorType reflect.Type

	// HasErrorReturn is true when the factory returns (T, error).
	HasErrorReturn bool
}

// FromConstructorInfo builds a descriptor from an analyzed factory.
func FromConstructorInfo(info *reflection.ConstructorInfo) *Descriptor {
	return &Descriptor{
		Type:            info.Product,
		Params:          info.Params,
		Constructor:     info.Value,
		ConstructorType: info.Type,
		HasErrorReturn:  info.HasErrorReturn,
	}
}

// Matches reports whether the descriptor builds t from exactly params.
func (d *Descriptor) Matches(t reflect.Type, params []reflect.Type) bool {
	return d.Type == t && reflection.SameTypes(d.Params, params)
}

// Registry stores factory descriptors keyed by product type.
// A product type may have several factories with distinct parameter signatures.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type][]*Descriptor
	count  int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byType: make(map[reflect.Type][]*Descriptor),
	}
}

// Add stores d unless a descriptor with the same signature exists.
// It reports whether d was added.
func (r *Registry) Add(d *Descriptor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byType[d.Type] {
		if existing.Matches(d.Type, d.Params) {
			return false
		}
	}

	r.byType[d.Type] = append(r.byType[d.Type], d)
	r.count++
	return true
}

// Lookup finds the descriptor that builds t from params.
func (r *Registry) Lookup(t reflect.Type, params []reflect.Type) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.byType[t] {
		if d.Matches(t, params) {
			return d, true
		}
	}
	return nil, false
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Types returns the registered product types sorted by their string form.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	types := make([]reflect.Type, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	r.mu.RUnlock()

	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})
	return types
}
