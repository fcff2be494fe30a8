package deferred

import (
	"reflect"
)

// Shape classifies how the engine looks inside a value.
//
// Only values of UNNAMED composite types are containers. A named type such
// as `type Row []any` or a user-defined ordered map is a leaf even though it
// holds elements, so deferred values nested inside it are not seen.
type Shape int

const (
	// Leaf values are never inspected.
	Leaf Shape = iota
	// Sequence is an unnamed slice or array type; every element is inspected.
	Sequence
	// Set is an unnamed map type whose element type is the empty struct;
	// every key is inspected.
	Set
	// Mapping is any other unnamed map type; values are inspected, keys are
	// not.
	Mapping
)

// String returns the lowercase name of the shape.
func (s Shape) String() string {
	switch s {
	case Sequence:
		return "sequence"
	case Set:
		return "set"
	case Mapping:
		return "mapping"
	default:
		return "leaf"
	}
}

// ShapeOf returns the [Shape] of v.
func ShapeOf(v any) Shape {
	return shapeOf(reflect.ValueOf(v))
}

func shapeOf(rv reflect.Value) Shape {
	if !rv.IsValid() || rv.Type().Name() != "" {
		return Leaf
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return Sequence

	case reflect.Map:
		if et := rv.Type().Elem(); et.Kind() == reflect.Struct && et.NumField() == 0 {
			return Set
		}

		return Mapping

	default:
		return Leaf
	}
}

// Walk calls visit for v and, when v is a container, for every element
// reachable through containers (see [Shape]), depth-first in element order.
// Containers are passed to visit before their elements. Map iteration order
// is unspecified.
//
// Walk stops as soon as visit returns false and then reports false.
// A container reachable from itself is visited only once.
func Walk(v any, visit func(any) bool) bool {
	w := walker{visit: visit, seen: map[visitKey]struct{}{}}

	return w.walk(reflect.ValueOf(v))
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type walker struct {
	visit func(any) bool
	seen  map[visitKey]struct{}
}

func (w walker) walk(rv reflect.Value) bool {
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return w.visit(nil)
	}

	if !rv.CanInterface() {
		return true
	}

	if !w.visit(rv.Interface()) {
		return false
	}

	shape := shapeOf(rv)
	if shape == Leaf || !w.enter(rv) {
		return true
	}

	switch shape {
	case Sequence:
		for i := range rv.Len() {
			if !w.walk(rv.Index(i)) {
				return false
			}
		}

	case Set:
		for it := rv.MapRange(); it.Next(); {
			if !w.walk(it.Key()) {
				return false
			}
		}

	case Mapping:
		for it := rv.MapRange(); it.Next(); {
			if !w.walk(it.Value()) {
				return false
			}
		}
	}

	return true
}

// enter records a slice or map as visited and reports whether it was new.
// Arrays are values and cannot reach themselves.
func (w walker) enter(rv reflect.Value) bool {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Map {
		return true
	}

	if rv.IsNil() {
		return false
	}

	key := visitKey{ptr: rv.Pointer(), typ: rv.Type(), len: rv.Len()}
	if _, ok := w.seen[key]; ok {
		return false
	}

	w.seen[key] = struct{}{}

	return true
}
