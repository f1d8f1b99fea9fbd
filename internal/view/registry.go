package view

import (
	"slices"

	"golang.org/x/exp/maps"
)

// Registry maps keys to views, holding at most one view per key. It is not
// safe for concurrent use: it is only ever accessed from the program's update
// loop.
type Registry struct {
	views map[Key]View
}

func NewRegistry() *Registry {
	return &Registry{views: make(map[Key]View)}
}

func (r *Registry) Get(key Key) (View, bool) {
	v, ok := r.views[key]
	return v, ok
}

func (r *Registry) Put(key Key, v View) {
	r.views[key] = v
}

func (r *Registry) Remove(key Key) {
	delete(r.views, key)
}

// Rekey moves the view registered under oldKey to newKey. False is returned
// if no view is registered under oldKey, in which case nothing changes.
func (r *Registry) Rekey(oldKey, newKey Key) bool {
	v, ok := r.views[oldKey]
	if !ok {
		return false
	}
	delete(r.views, oldKey)
	r.views[newKey] = v
	return true
}

func (r *Registry) Len() int {
	return len(r.views)
}

// Keys lists the registered keys in alphabetical order.
func (r *Registry) Keys() []Key {
	keys := maps.Keys(r.views)
	slices.Sort(keys)
	return keys
}
