package query

import (
	"iter"
	"slices"
)

// Map is a mapping that remembers insertion order. Keys are held in their display form.
// The zero value is an empty map ready to use.
type Map struct {
	keys   []string
	values map[string]Value
}

func NewMap() *Map {
	return &Map{values: map[string]Value{}}
}

func (*Map) kind() Kind { return KindMap }

// Set stores value under key and returns the map so calls can be chained.
// The key is converted to its display string and the value with ValueOf.
// Setting an existing key replaces the value but keeps the key's position.
func (m *Map) Set(key any, value any) *Map {
	if m.values == nil {
		m.values = map[string]Value{}
	}
	k := display(key)
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = ValueOf(value)
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[display(key)]
	return v, ok
}

// Delete removes key, keeping the order of the remaining keys.
// It reports whether the key was present.
func (m *Map) Delete(key any) bool {
	if m == nil {
		return false
	}
	k := display(key)
	if _, ok := m.values[k]; !ok {
		return false
	}
	delete(m.values, k)
	m.keys = slices.DeleteFunc(m.keys, func(s string) bool { return s == k })
	return true
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}
