package deferred

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// Bindings maps placeholder names to the concrete values they stand for.
type Bindings map[string]any

// Builder is a node of a deferred expression tree.
//
// Resolve computes the node's value once the placeholders it references are
// bound. String returns the node's display form.
type Builder interface {
	Resolve(ctx context.Context, b Bindings) (any, error)
	String() string
}

// Callable is a function the engine can invoke when a [Call] is resolved.
type Callable interface {
	// Name returns the display name used when rendering a [Call].
	Name() string
	// Invoke calls the function with concrete arguments.
	Invoke(ctx context.Context, args []any, kwargs map[string]any) (any, error)
}

// Var is a named placeholder for a value supplied at resolution time.
// A Var is immutable once created; its identity is its name.
type Var struct {
	name string
}

// NewVar returns a placeholder with the given name.
func NewVar(name string) *Var { return &Var{name: name} }

// Name returns the placeholder's name.
func (v *Var) Name() string {
	if v == nil {
		return ""
	}

	return v.name
}

// String returns the bare placeholder name.
func (v *Var) String() string {
	if v == nil {
		return nilRepr
	}

	return v.name
}

// Resolve returns the value bound to the placeholder's name.
func (v *Var) Resolve(_ context.Context, b Bindings) (any, error) {
	if v == nil {
		return nil, ErrNilBuilder
	}

	val, ok := b[v.name]
	if !ok {
		return nil, ErrUnboundVar.Wrap(fmt.Errorf("%q", v.name)).
			With(slog.String("name", v.name))
	}

	return val, nil
}

// Call is a pending invocation of a [Callable] on arguments that may contain
// placeholders or other deferred nodes, possibly nested inside containers.
type Call struct {
	fn     Callable
	args   []any
	kwargs map[string]any
}

// NewCall returns a pending call of fn. The argument slice and keyword map
// are copied; their elements are not.
func NewCall(fn Callable, args []any, kwargs map[string]any) *Call {
	c := &Call{fn: fn, args: slices.Clone(args)}
	if len(kwargs) > 0 {
		c.kwargs = maps.Clone(kwargs)
	}

	return c
}

// Func returns the call target.
func (c *Call) Func() Callable { return c.fn }

// Args returns a copy of the positional arguments.
func (c *Call) Args() []any { return slices.Clone(c.args) }

// Kwargs returns a copy of the keyword arguments.
func (c *Call) Kwargs() map[string]any { return maps.Clone(c.kwargs) }

// Resolve resolves every argument and then invokes the call target.
func (c *Call) Resolve(ctx context.Context, b Bindings) (any, error) {
	return c.resolve(ctx, b, 0)
}

func (c *Call) resolve(ctx context.Context, b Bindings, depth int) (any, error) {
	if c == nil || c.fn == nil {
		return nil, ErrNotCallable.With(slog.String("call", c.String()))
	}

	r := resolver{ctx: ctx, bindings: b}

	args := make([]any, len(c.args))
	for i, arg := range c.args {
		val, err := r.value(arg, depth+1)
		if err != nil {
			return nil, err
		}

		args[i] = val
	}

	var kwargs map[string]any
	if len(c.kwargs) > 0 {
		kwargs = make(map[string]any, len(c.kwargs))

		for k, arg := range c.kwargs {
			val, err := r.value(arg, depth+1)
			if err != nil {
				return nil, err
			}

			kwargs[k] = val
		}
	}

	return c.fn.Invoke(ctx, args, kwargs)
}

// String renders the call as name(arg, ..., key=value) with keyword
// arguments in key order.
func (c *Call) String() string {
	p := newPrinter()
	p.call(c, 0)

	return p.String()
}

// Deferred is the opaque handle of a deferred expression. It wraps a single
// [Builder] and is itself a Builder, so deferred expressions compose.
type Deferred struct {
	b Builder
}

// New returns a deferred expression wrapping b. Wrapping an existing
// *Deferred returns it unchanged.
func New(b Builder) *Deferred {
	if d, ok := b.(*Deferred); ok {
		return d
	}

	return &Deferred{b: b}
}

// Builder returns the wrapped node, or nil for a nil *Deferred.
func (d *Deferred) Builder() Builder {
	if d == nil {
		return nil
	}

	return d.b
}

// Resolve computes the expression's value from the given bindings.
func (d *Deferred) Resolve(ctx context.Context, b Bindings) (any, error) {
	return resolver{ctx: ctx, bindings: b}.value(d, 0)
}

// String returns the display form of the wrapped node.
func (d *Deferred) String() string {
	if d == nil || d.b == nil {
		return nilRepr
	}

	return d.b.String()
}

// LogValue implements slog.LogValuer.
func (d *Deferred) LogValue() slog.Value {
	return slog.StringValue(d.String())
}
