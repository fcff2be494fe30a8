package deferred

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// nilRepr is the display form of a nil node.
const nilRepr = "<nil>"

// Repr returns the display form of v as it appears inside a rendered
// deferred expression.
//
// Builders render through their String method, strings are quoted,
// sequences render as [a, b], mappings as {k: v}, and sets as {a, b}.
// Mapping entries and set members are sorted by their rendered form.
// A container reached again from inside itself renders as [...] or {...}.
func Repr(v any) string {
	p := newPrinter()
	p.value(reflect.ValueOf(v), 0)

	return p.String()
}

// printer renders values and nodes. Containers currently being rendered are
// held in active so that self-references terminate.
type printer struct {
	strings.Builder

	active map[visitKey]struct{}
}

func newPrinter() *printer {
	return &printer{active: map[visitKey]struct{}{}}
}

// sub renders rv with a fresh buffer that shares the active set.
func (p *printer) sub(rv reflect.Value, depth int) string {
	q := &printer{active: p.active}
	q.value(rv, depth)

	return q.String()
}

func (p *printer) value(rv reflect.Value, depth int) {
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	if !rv.IsValid() {
		p.WriteString("nil")

		return
	}

	if !rv.CanInterface() {
		p.WriteString(rv.Type().String())

		return
	}

	if b, ok := rv.Interface().(Builder); ok {
		p.builder(b, depth)

		return
	}

	if depth > DefaultMaxDepth {
		p.WriteString("...")

		return
	}

	shape := shapeOf(rv)
	if shape == Leaf {
		p.leaf(rv.Interface())

		return
	}

	key, tracked := p.enter(rv)
	if !tracked {
		if shape == Sequence {
			p.WriteString("[...]")
		} else {
			p.WriteString("{...}")
		}

		return
	}

	defer delete(p.active, key)

	switch shape {
	case Sequence:
		p.WriteByte('[')

		for i := range rv.Len() {
			if i > 0 {
				p.WriteString(", ")
			}

			p.value(rv.Index(i), depth+1)
		}

		p.WriteByte(']')

	case Set:
		items := make([]string, 0, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			items = append(items, p.sub(it.Key(), depth+1))
		}

		p.braces(items)

	case Mapping:
		items := make([]string, 0, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			items = append(items,
				p.sub(it.Key(), depth+1)+": "+p.sub(it.Value(), depth+1))
		}

		p.braces(items)
	}
}

// enter marks a slice or map as being rendered. It reports false when the
// container is already on the current path.
func (p *printer) enter(rv reflect.Value) (visitKey, bool) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Map {
		return visitKey{}, true
	}

	key := visitKey{ptr: rv.Pointer(), typ: rv.Type(), len: rv.Len()}
	if _, ok := p.active[key]; ok {
		return key, false
	}

	p.active[key] = struct{}{}

	return key, true
}

func (p *printer) braces(items []string) {
	slices.Sort(items)
	p.WriteByte('{')
	p.WriteString(strings.Join(items, ", "))
	p.WriteByte('}')
}

func (p *printer) builder(b Builder, depth int) {
	switch x := b.(type) {
	case *Deferred:
		if x == nil || x.b == nil {
			p.WriteString(nilRepr)

			return
		}

		p.builder(x.b, depth+1)

	case *Call:
		p.call(x, depth+1)

	default:
		p.WriteString(b.String())
	}
}

func (p *printer) call(c *Call, depth int) {
	if c == nil {
		p.WriteString(nilRepr)

		return
	}

	if c.fn != nil {
		p.WriteString(c.fn.Name())
	} else {
		p.WriteString(nilRepr)
	}

	if depth > DefaultMaxDepth {
		p.WriteString("(...)")

		return
	}

	p.WriteByte('(')

	for i, arg := range c.args {
		if i > 0 {
			p.WriteString(", ")
		}

		p.value(reflect.ValueOf(arg), depth+1)
	}

	for i, k := range slices.Sorted(maps.Keys(c.kwargs)) {
		if i > 0 || len(c.args) > 0 {
			p.WriteString(", ")
		}

		p.WriteString(k)
		p.WriteByte('=')
		p.value(reflect.ValueOf(c.kwargs[k]), depth+1)
	}

	p.WriteByte(')')
}

// leaf quotes strings and prints everything else with fmt, which also
// recovers from a Stringer panicking on a nil receiver.
func (p *printer) leaf(v any) {
	if s, ok := v.(string); ok {
		p.WriteString(strconv.Quote(s))

		return
	}

	fmt.Fprint(p, v)
}
