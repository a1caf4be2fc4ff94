package service

import "slices"

// registry is a name-keyed map that remembers insertion order.
type registry[V any] struct {
	keys  []string
	items map[string]V
}

func newRegistry[V any]() *registry[V] {
	return &registry[V]{items: make(map[string]V)}
}

func (r *registry[V]) has(name string) bool {
	_, ok := r.items[name]
	return ok
}

func (r *registry[V]) get(name string) (V, bool) {
	v, ok := r.items[name]
	return v, ok
}

// set inserts or overwrites name. Overwrites keep their position.
func (r *registry[V]) set(name string, v V) {
	if _, ok := r.items[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.items[name] = v
}

func (r *registry[V]) delete(name string) bool {
	if _, ok := r.items[name]; !ok {
		return false
	}
	delete(r.items, name)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == name })
	return true
}

func (r *registry[V]) len() int {
	return len(r.keys)
}

func (r *registry[V]) names() []string {
	return slices.Clone(r.keys)
}

func (r *registry[V]) values() []V {
	out := make([]V, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.items[k])
	}
	return out
}

func (r *registry[V]) reset() {
	r.keys = nil
	clear(r.items)
}
