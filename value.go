package query

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
)

// Value is a node of a parameter structure. It is one of *Map, List or Scalar.
type Value interface {
	kind() Kind
}

// Kind identifies which of the three variants a Value is.
type Kind int

const (
	KindScalar Kind = iota
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindList:
		return "list"
	}
	return "scalar"
}

// KindOf reports the variant of v. A nil Value is a scalar.
func KindOf(v Value) Kind {
	if v == nil {
		return KindScalar
	}
	return v.kind()
}

// List is an ordered sequence of values. Elements are keyed by their index.
type List []Value

func (List) kind() Kind { return KindList }

// NewList converts each element with ValueOf.
func NewList(values ...any) List {
	l := make(List, 0, len(values))
	for _, v := range values {
		l = append(l, ValueOf(v))
	}
	return l
}

// Scalar is a leaf. Anything that is not a mapping or a sequence ends up here,
// including structured values such as structs.
type Scalar struct {
	v any
}

// Null is the null scalar. It encodes as an empty value.
var Null = Scalar{}

func (Scalar) kind() Kind { return KindScalar }

func NewScalar(v any) Scalar {
	return Scalar{v: v}
}

func (s Scalar) IsNull() bool {
	return s.v == nil
}

// Interface returns the wrapped value.
func (s Scalar) Interface() any {
	return s.v
}

// String returns the display form of the scalar.
func (s Scalar) String() string {
	return display(s.v)
}

// ValueOf converts a native Go value into a Value.
//
// Go maps become a *Map with keys sorted by their display string, since Go maps carry no
// order of their own. Slices and arrays become a List, except []byte which is a string.
// Pointers and interfaces are followed; nil ones are Null. Anything else is a Scalar.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	}

	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return Null
	}

	switch t := v.(type) {
	case []byte:
		return Scalar{v: string(t)}
	case fmt.Stringer, error:
		return Scalar{v: t}
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return ValueOf(rv.Elem().Interface())
	case reflect.Map:
		return mapOf(rv)
	case reflect.Slice:
		if rv.IsNil() {
			return List{}
		}
		return listOf(rv)
	case reflect.Array:
		return listOf(rv)
	}
	return Scalar{v: v}
}

func mapOf(rv reflect.Value) *Map {
	type entry struct {
		key   string
		typ   string
		value reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		entries = append(entries, entry{key: display(k), typ: fmt.Sprintf("%T", k), value: iter.Value()})
	}
	// Keys of different types can share a display string (1 and "1"). Ordering them by
	// type name makes the surviving value the same on every call.
	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Or(cmp.Compare(a.key, b.key), cmp.Compare(a.typ, b.typ))
	})

	m := NewMap()
	for _, e := range entries {
		m.Set(e.key, e.value.Interface())
	}
	return m
}

func listOf(rv reflect.Value) List {
	l := make(List, rv.Len())
	for i := range l {
		l[i] = ValueOf(rv.Index(i).Interface())
	}
	return l
}

// display converts keys and scalars to the string that gets percent-encoded.
func display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	}
	return fmt.Sprint(v)
}
