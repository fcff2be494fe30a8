package deferrable

import (
	"context"
	"log/slog"
	"reflect"
	"runtime"
	"strings"

	"github.com/ardnew/deferred/deferred"
	"github.com/ardnew/deferred/log"
	"github.com/ardnew/deferred/pkg"
)

// Func is a function made placeholder-aware.
//
// Calling a Func with concrete arguments calls the function immediately.
// Calling it with any placeholder or deferred argument validates the
// arguments against the function's [Signature] and returns a
// *deferred.Deferred that calls the function once resolved.
type Func struct {
	fn    reflect.Value
	sig   *Signature
	name  string
	doc   string
	label string
	log   log.Logger
}

// config collects the options of a [Transformer].
type config struct {
	name   string
	doc    string
	label  string
	params []Param
	logger log.Logger
}

// Option configures the Funcs produced by [New].
type Option = pkg.Option[config]

// WithLabel sets a display label for the deferred expressions a Func builds.
//
// The label is retained and reported by [Func.Label], but deferred nodes
// still render with their default form.
func WithLabel(label string) Option {
	return func(c config) config {
		c.label = label

		return c
	}
}

// WithName overrides the name derived from the wrapped function.
func WithName(name string) Option {
	return func(c config) config {
		c.name = name

		return c
	}
}

// WithDoc attaches documentation to the Func.
func WithDoc(doc string) Option {
	return func(c config) config {
		c.doc = doc

		return c
	}
}

// WithParams declares the function's parameter names and defaults, one per
// parameter excluding a leading context.Context.
func WithParams(params ...Param) Option {
	return func(c config) config {
		c.params = params

		return c
	}
}

// WithLogger sets the logger that traces calls. The default discards.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// Transformer turns a function into a [Func].
type Transformer func(fn any) (*Func, error)

// New returns a [Transformer] that applies opts to every function it wraps.
func New(opts ...Option) Transformer {
	cfg := pkg.Apply(config{}, opts...)

	return func(fn any) (*Func, error) {
		return wrap(fn, cfg)
	}
}

// Wrap makes fn placeholder-aware using its default configuration.
// It fails with [ErrNotFunction] when fn is not a non-nil function.
func Wrap(fn any) (*Func, error) {
	return wrap(fn, config{})
}

// MustWrap is like [New] followed by a call of the returned Transformer,
// but panics on error. It simplifies package-level declarations.
// MustWrap(fn) without options is the panicking form of [Wrap].
func MustWrap(fn any, opts ...Option) *Func {
	f, err := New(opts...)(fn)
	if err != nil {
		panic(err)
	}

	return f
}

func wrap(fn any, cfg config) (*Func, error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, ErrNotFunction.With(slog.String("type", typeName(fn)))
	}

	// Signature inspection happens once per wrap, not per call.
	sig, err := newSignature(rv.Type(), cfg.params)
	if err != nil {
		return nil, err
	}

	name := cfg.name
	if name == "" {
		name = funcName(rv)
	}

	return &Func{
		fn:    rv,
		sig:   sig,
		name:  name,
		doc:   cfg.doc,
		label: cfg.label,
		log:   cfg.logger,
	}, nil
}

// Name returns the function's name.
func (f *Func) Name() string { return f.name }

// Doc returns the documentation attached with [WithDoc].
func (f *Func) Doc() string { return f.doc }

// Label returns the display label configured with [WithLabel].
func (f *Func) Label() string { return f.label }

// Signature returns the declared parameter contract.
func (f *Func) Signature() *Signature { return f.sig }

// String returns the function name followed by its signature.
func (f *Func) String() string { return f.name + f.sig.String() }

// Apply calls f with positional arguments only.
func (f *Func) Apply(args ...any) (any, error) {
	return f.CallContext(context.Background(), args, nil)
}

// Call calls f with positional and keyword arguments. See [Func.CallContext].
func (f *Func) Call(args []any, kwargs map[string]any) (any, error) {
	return f.CallContext(context.Background(), args, kwargs)
}

// CallContext calls f with positional and keyword arguments.
//
// When no argument is deferred, the function runs now and its results are
// returned unchanged: a trailing error result becomes the returned error,
// a single remaining result is returned as-is, none yields nil, and several
// are returned as []any. ctx feeds a leading context.Context parameter.
//
// When any argument is deferred, the arguments are bound to the signature
// (failing with [ErrSignature] immediately) and a *deferred.Deferred is
// returned. The function does not run.
func (f *Func) CallContext(
	ctx context.Context,
	args []any,
	kwargs map[string]any,
) (any, error) {
	if anyDeferred(args, kwargs) {
		return f.deferCall(ctx, args, kwargs)
	}

	return f.invoke(ctx, args, kwargs)
}

// Invoke implements deferred.Callable. A resolved call re-enters f with
// concrete arguments.
func (f *Func) Invoke(
	ctx context.Context,
	args []any,
	kwargs map[string]any,
) (any, error) {
	return f.CallContext(ctx, args, kwargs)
}

func (f *Func) deferCall(
	ctx context.Context,
	args []any,
	kwargs map[string]any,
) (any, error) {
	if _, err := f.sig.Bind(args, kwargs); err != nil {
		return nil, deferred.WrapError(err).With(slog.String("func", f.name))
	}

	// TODO(ardnew): forward f.label once deferred.Deferred supports a
	// display override; until then the label is only reported by Label.
	node := deferred.New(deferred.NewCall(f, args, kwargs))

	f.log.TraceContext(ctx, "defer call",
		slog.String("func", f.name),
		slog.Any("expr", node),
	)

	return node, nil
}

func (f *Func) invoke(
	ctx context.Context,
	args []any,
	kwargs map[string]any,
) (any, error) {
	bound, err := f.sig.Bind(args, kwargs)
	if err != nil {
		return nil, deferred.WrapError(err).With(slog.String("func", f.name))
	}

	in, err := f.sig.values(ctx, bound)
	if err != nil {
		return nil, deferred.WrapError(err).With(slog.String("func", f.name))
	}

	f.log.TraceContext(ctx, "call",
		slog.String("func", f.name),
		slog.Int("args", len(in)),
	)

	return results(f.fn.Type(), f.fn.Call(in))
}

var errorType = reflect.TypeFor[error]()

// results converts the return values of a reflective call.
func results(t reflect.Type, out []reflect.Value) (any, error) {
	var err error

	if n := len(out); n > 0 && t.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			err, _ = e.Interface().(error)
		}

		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	}

	vals := make([]any, len(out))
	for i, v := range out {
		vals[i] = v.Interface()
	}

	return vals, err
}

// funcName returns the unqualified name of the function held by rv.
func funcName(rv reflect.Value) string {
	rf := runtime.FuncForPC(rv.Pointer())
	if rf == nil {
		return "func"
	}

	name := rf.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return strings.TrimSuffix(name, "-fm")
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return reflect.TypeOf(v).String()
}
