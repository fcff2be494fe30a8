package deferred

import (
	"context"
	"log/slog"
	"maps"
	"reflect"
	"slices"
)

// DefaultMaxDepth bounds the nesting of containers and deferred nodes that
// resolution will descend through. Self-referencing containers hit this limit.
const DefaultMaxDepth = 1024

// Resolve resolves v against b.
//
// Builders (including *Deferred) are resolved. Containers (see [Shape]) that
// hold builders are rebuilt as new values of the same Go type with resolved
// elements; mapping keys are copied unchanged. Every other value, including
// containers without builders, is returned as-is.
func Resolve(ctx context.Context, v any, b Bindings) (any, error) {
	return resolver{ctx: ctx, bindings: b}.value(v, 0)
}

// Contains reports whether v is a [Builder] or a container holding one.
func Contains(v any) bool {
	return !Walk(v, func(x any) bool {
		_, ok := x.(Builder)

		return !ok
	})
}

type resolver struct {
	ctx      context.Context
	bindings Bindings
}

func (r resolver) value(v any, depth int) (any, error) {
	if depth > DefaultMaxDepth {
		return nil, ErrMaxDepthExceeded.With(slog.Int("depth", depth))
	}

	if r.ctx != nil {
		if err := r.ctx.Err(); err != nil {
			return nil, ErrResolveCancelled.Wrap(err)
		}
	}

	switch x := v.(type) {
	case *Deferred:
		if x == nil || x.b == nil {
			return nil, ErrNilBuilder
		}

		return r.value(x.b, depth+1)

	case *Call:
		return x.resolve(r.ctx, r.bindings, depth)

	case Builder:
		return x.Resolve(r.ctx, r.bindings)
	}

	rv := reflect.ValueOf(v)

	shape := shapeOf(rv)
	if shape == Leaf || !Contains(v) {
		return v, nil
	}

	switch shape {
	case Sequence:
		return r.sequence(rv, depth)
	case Set:
		return r.set(rv, depth)
	default:
		return r.mapping(rv, depth)
	}
}

func (r resolver) sequence(rv reflect.Value, depth int) (any, error) {
	t := rv.Type()

	var out reflect.Value
	if rv.Kind() == reflect.Slice {
		out = reflect.MakeSlice(t, rv.Len(), rv.Len())
	} else {
		out = reflect.New(t).Elem()
	}

	for i := range rv.Len() {
		val, err := r.value(rv.Index(i).Interface(), depth+1)
		if err != nil {
			return nil, err
		}

		elem, err := assignable(val, t.Elem())
		if err != nil {
			return nil, err
		}

		out.Index(i).Set(elem)
	}

	return out.Interface(), nil
}

func (r resolver) set(rv reflect.Value, depth int) (any, error) {
	t := rv.Type()
	out := reflect.MakeMapWithSize(t, rv.Len())
	present := reflect.Zero(t.Elem())

	for it := rv.MapRange(); it.Next(); {
		val, err := r.value(it.Key().Interface(), depth+1)
		if err != nil {
			return nil, err
		}

		if val != nil && !reflect.TypeOf(val).Comparable() {
			return nil, ErrResolveType.With(
				slog.String("want", "comparable"),
				slog.String("got", reflect.TypeOf(val).String()),
			)
		}

		key, err := assignable(val, t.Key())
		if err != nil {
			return nil, err
		}

		out.SetMapIndex(key, present)
	}

	return out.Interface(), nil
}

func (r resolver) mapping(rv reflect.Value, depth int) (any, error) {
	t := rv.Type()
	out := reflect.MakeMapWithSize(t, rv.Len())

	for it := rv.MapRange(); it.Next(); {
		val, err := r.value(it.Value().Interface(), depth+1)
		if err != nil {
			return nil, err
		}

		elem, err := assignable(val, t.Elem())
		if err != nil {
			return nil, err
		}

		out.SetMapIndex(it.Key(), elem)
	}

	return out.Interface(), nil
}

// assignable converts val to a reflect.Value that can be stored in a slot of
// type t.
func assignable(val any, t reflect.Type) (reflect.Value, error) {
	if val == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map,
			reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}

		return reflect.Value{}, ErrResolveType.With(
			slog.String("want", t.String()),
			slog.String("got", "nil"),
		)
	}

	vv := reflect.ValueOf(val)
	if !vv.Type().AssignableTo(t) {
		return reflect.Value{}, ErrResolveType.With(
			slog.String("want", t.String()),
			slog.String("got", vv.Type().String()),
		)
	}

	return vv, nil
}

// Vars returns the sorted, unique names of the placeholders referenced by v.
func Vars(v any) []string {
	c := varCollector{names: map[string]struct{}{}, nodes: map[Builder]struct{}{}}
	c.collect(v)

	return slices.Sorted(maps.Keys(c.names))
}

// varCollector gathers placeholder names. Each node is entered once, so
// cycles through call arguments terminate.
type varCollector struct {
	names map[string]struct{}
	nodes map[Builder]struct{}
}

func (c varCollector) enter(b Builder) bool {
	if _, ok := c.nodes[b]; ok {
		return false
	}

	c.nodes[b] = struct{}{}

	return true
}

func (c varCollector) collect(v any) {
	Walk(v, func(x any) bool {
		switch n := x.(type) {
		case *Var:
			if n != nil {
				c.names[n.name] = struct{}{}
			}

		case *Deferred:
			if n != nil && c.enter(n) {
				c.collect(n.b)
			}

		case *Call:
			if n != nil && c.enter(n) {
				c.collect(n.args)
				c.collect(n.kwargs)
			}
		}

		return true
	})
}
