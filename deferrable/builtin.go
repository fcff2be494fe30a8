package deferrable

// This file defines the built-in functions available to expressions parsed
// with [Parse]. The registry is built once per process and cloned on every
// access so callers may add or replace entries without affecting the shared
// copy.

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Registry maps function names to deferrable functions.
type Registry map[string]*Func

//nolint:gochecknoglobals
var builtins = sync.OnceValue(func() Registry {
	bin := func(name, doc string, fn any) *Func {
		return MustWrap(fn, WithName(name), WithDoc(doc),
			WithParams(Required("a"), Required("b")))
	}

	reg := Registry{}

	for _, f := range []*Func{
		bin("add", "Sum of two numbers, or concatenation of two strings.", add),
		bin("sub", "Difference of two numbers.", sub),
		bin("mul", "Product of two numbers.", mul),
		bin("div", "Quotient of two numbers as a float.", div),
		bin("mod", "Remainder of integer division.", mod),
		MustWrap(neg, WithName("neg"), WithDoc("Negation of a number."),
			WithParams(Required("x"))),

		bin("eq", "Whether a equals b.", eq),
		bin("ne", "Whether a differs from b.", ne),
		bin("lt", "Whether a is less than b.", lt),
		bin("le", "Whether a is less than or equal to b.", le),
		bin("gt", "Whether a is greater than b.", gt),
		bin("ge", "Whether a is greater than or equal to b.", ge),

		bin("and", "Logical conjunction.", and),
		bin("or", "Logical disjunction.", or),
		MustWrap(not, WithName("not"), WithDoc("Logical negation."),
			WithParams(Required("x"))),

		MustWrap(strings.ToUpper, WithName("upper"),
			WithDoc("Upper-case form of s."), WithParams(Required("s"))),
		MustWrap(strings.ToLower, WithName("lower"),
			WithDoc("Lower-case form of s."), WithParams(Required("s"))),
		MustWrap(concat, WithName("concat"),
			WithDoc("Concatenation of all arguments."), WithParams(Required("parts"))),
		MustWrap(join, WithName("join"),
			WithDoc("Elements of items separated by sep."),
			WithParams(Required("items"), Optional("sep", ","))),
		MustWrap(length, WithName("len"),
			WithDoc("Length of a string, list, or map."), WithParams(Required("v"))),

		MustWrap(filepath.Join, WithName("path.cat"),
			WithDoc("Path elements joined with the OS separator."),
			WithParams(Required("elem"))),
		MustWrap(pathAbs, WithName("path.abs"),
			WithDoc("Absolute form of a path."), WithParams(Required("path"))),
		MustWrap(pathPrefix, WithName("path.prefix"),
			WithDoc("PATH-like list with prefix entries moved to the front."),
			WithParams(Required("list"), Required("prefix"))),
	} {
		reg[f.Name()] = f
	}

	return reg
})

// Builtins returns a copy of the built-in function registry.
func Builtins() Registry { return maps.Clone(builtins()) }

// Names returns the registered function names in sorted order.
func (r Registry) Names() []string { return slices.Sorted(maps.Keys(r)) }

// Register adds f under its name, replacing any function of the same name.
func (r Registry) Register(f *Func) { r[f.Name()] = f }

// Lookup returns the function registered under name. It fails with
// [ErrUnknownFunction] when there is none, suggesting the closest name.
func (r Registry) Lookup(name string) (*Func, error) {
	if f, ok := r[name]; ok {
		return f, nil
	}

	err := ErrUnknownFunction.Wrap(fmt.Errorf("%q", name)).
		With(slog.String("name", name))

	if hint := suggest(name, r.Names()); hint != "" {
		err = err.With(slog.String("suggestion", hint))
	}

	return nil, err
}

// ---------------------------------------------------------------------------
// Numbers
// ---------------------------------------------------------------------------

// integer returns v as an int64 if it holds an integer that fits.
func integer(v any) (int64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= 1<<63-1 {
			return int64(u), true
		}
	}

	return 0, false
}

// float returns v as a float64 if it holds any number.
func float(v any) (float64, bool) {
	if i, ok := integer(v); ok {
		return float64(i), true
	}

	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k == reflect.Float32 || k == reflect.Float64 {
		return rv.Float(), true
	}

	return 0, false
}

func operandError(op string, a, b any) error {
	return ErrOperand.With(
		slog.String("op", op),
		slog.String("a", typeName(a)),
		slog.String("b", typeName(b)),
	)
}

// arith applies an integer operation when both operands are integers and a
// float operation when both are numbers.
func arith(
	op string, a, b any,
	fi func(x, y int64) int64,
	ff func(x, y float64) float64,
) (any, error) {
	if x, ok := integer(a); ok {
		if y, ok := integer(b); ok {
			return int(fi(x, y)), nil
		}
	}

	if x, ok := float(a); ok {
		if y, ok := float(b); ok {
			return ff(x, y), nil
		}
	}

	return nil, operandError(op, a, b)
}

func add(a, b any) (any, error) {
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return x + y, nil
		}
	}

	return arith("add", a, b,
		func(x, y int64) int64 { return x + y },
		func(x, y float64) float64 { return x + y })
}

func sub(a, b any) (any, error) {
	return arith("sub", a, b,
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y })
}

func mul(a, b any) (any, error) {
	return arith("mul", a, b,
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y })
}

func div(a, b any) (float64, error) {
	x, xok := float(a)
	y, yok := float(b)

	switch {
	case !xok || !yok:
		return 0, operandError("div", a, b)
	case y == 0:
		return 0, ErrDivideByZero
	}

	return x / y, nil
}

// mod follows Go's truncated division: the result has the sign of a.
func mod(a, b any) (int, error) {
	x, xok := integer(a)
	y, yok := integer(b)

	switch {
	case !xok || !yok:
		return 0, operandError("mod", a, b)
	case y == 0:
		return 0, ErrDivideByZero
	}

	return int(x % y), nil
}

func neg(x any) (any, error) {
	if i, ok := integer(x); ok {
		return int(-i), nil
	}

	if f, ok := float(x); ok {
		return -f, nil
	}

	return nil, operandError("neg", x, nil)
}

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

// compare orders two numbers or two strings.
func compare(op string, a, b any) (int, error) {
	if x, ok := integer(a); ok {
		if y, ok := integer(b); ok {
			return cmpOrdered(x, y), nil
		}
	}

	if x, ok := float(a); ok {
		if y, ok := float(b); ok {
			return cmpOrdered(x, y), nil
		}
	}

	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	}

	return 0, operandError(op, a, b)
}

func cmpOrdered[T int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}

	return 0
}

// equal reports whether a and b are equal, treating numbers of different
// types as equal when their values are.
func equal(a, b any) bool {
	if c, err := compare("eq", a, b); err == nil {
		return c == 0
	}

	return reflect.DeepEqual(a, b)
}

func eq(a, b any) bool { return equal(a, b) }
func ne(a, b any) bool { return !equal(a, b) }

func lt(a, b any) (bool, error) {
	c, err := compare("lt", a, b)

	return c < 0, err
}

func le(a, b any) (bool, error) {
	c, err := compare("le", a, b)

	return c <= 0, err
}

func gt(a, b any) (bool, error) {
	c, err := compare("gt", a, b)

	return c > 0, err
}

func ge(a, b any) (bool, error) {
	c, err := compare("ge", a, b)

	return c >= 0, err
}

// ---------------------------------------------------------------------------
// Logic
// ---------------------------------------------------------------------------

func and(a, b bool) bool { return a && b }
func or(a, b bool) bool  { return a || b }
func not(x bool) bool    { return !x }

// ---------------------------------------------------------------------------
// Strings
// ---------------------------------------------------------------------------

func concat(parts ...any) string {
	var sb strings.Builder
	for _, p := range parts {
		fmt.Fprint(&sb, p)
	}

	return sb.String()
}

func join(items []any, sep string) string {
	s := make([]string, len(items))
	for i, v := range items {
		s[i] = fmt.Sprint(v)
	}

	return strings.Join(s, sep)
}

func length(v any) (int, error) {
	if s, ok := v.(string); ok {
		return len([]rune(s)), nil
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), nil
	}

	return 0, ErrOperand.With(slog.String("op", "len"), slog.String("a", typeName(v)))
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

func pathAbs(path string) (string, error) {
	return filepath.Abs(path)
}

// pathPrefix moves prefix entries to the front of a PATH-like list,
// adding those not already present and dropping duplicates.
func pathPrefix(list string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}
