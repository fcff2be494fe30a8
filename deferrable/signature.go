package deferrable

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Param declares one parameter of a wrapped function.
type Param struct {
	Name       string
	Default    any
	HasDefault bool
}

// Required declares a parameter that must be supplied by every call.
func Required(name string) Param { return Param{Name: name} }

// Optional declares a parameter that takes def when a call omits it.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Signature is the declared parameter contract of a wrapped function.
//
// A leading context.Context parameter is supplied by the adapter and is not
// part of the signature. The final parameter of a variadic function collects
// extra positional arguments and cannot be passed by keyword.
type Signature struct {
	params   []Param
	types    []reflect.Type
	index    map[string]int
	variadic bool
	context  bool
}

var contextType = reflect.TypeFor[context.Context]()

// newSignature builds the signature of a function of type t. When params is
// empty, parameters are named arg0, arg1, ... in order.
func newSignature(t reflect.Type, params []Param) (*Signature, error) {
	sig := &Signature{variadic: t.IsVariadic()}

	first := 0
	if t.NumIn() > 0 && t.In(0) == contextType {
		sig.context = true
		first = 1
	}

	for i := first; i < t.NumIn(); i++ {
		sig.types = append(sig.types, t.In(i))
	}

	if len(params) == 0 {
		for i := range sig.types {
			params = append(params, Required("arg"+strconv.Itoa(i)))
		}
	}

	if len(params) != len(sig.types) {
		return nil, ErrSignatureSpec.Wrap(fmt.Errorf(
			"function takes %d parameters but %d were declared",
			len(sig.types), len(params),
		))
	}

	sig.params = slices.Clone(params)
	sig.index = make(map[string]int, len(params))

	optional := false

	for i, p := range sig.params {
		if p.Name == "" {
			return nil, ErrSignatureSpec.Wrap(fmt.Errorf("parameter %d has no name", i))
		}

		if _, dup := sig.index[p.Name]; dup {
			return nil, ErrSignatureSpec.Wrap(fmt.Errorf("duplicate parameter %q", p.Name))
		}

		sig.index[p.Name] = i

		if sig.variadic && i == len(sig.params)-1 {
			if p.HasDefault {
				return nil, ErrSignatureSpec.Wrap(fmt.Errorf(
					"variadic parameter %q cannot have a default", p.Name))
			}

			continue
		}

		if p.HasDefault {
			optional = true
		} else if optional {
			return nil, ErrSignatureSpec.Wrap(fmt.Errorf(
				"required parameter %q follows an optional parameter", p.Name))
		}
	}

	return sig, nil
}

// Params returns a copy of the declared parameters.
func (s *Signature) Params() []Param { return slices.Clone(s.params) }

// Variadic reports whether the final parameter collects extra positional
// arguments.
func (s *Signature) Variadic() bool { return s.variadic }

// String renders the signature as (a, b=1, rest...).
func (s *Signature) String() string {
	parts := make([]string, len(s.params))

	for i, p := range s.params {
		switch {
		case s.variadic && i == len(s.params)-1:
			parts[i] = p.Name + "..."
		case p.HasDefault:
			parts[i] = p.Name + "=" + fmt.Sprint(p.Default)
		default:
			parts[i] = p.Name
		}
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// fixed returns the number of parameters that bind exactly one argument.
func (s *Signature) fixed() int {
	if s.variadic {
		return len(s.params) - 1
	}

	return len(s.params)
}

// Bound is the result of binding call arguments to a [Signature].
type Bound struct {
	// Args holds one value per fixed parameter, in declaration order, with
	// defaults applied.
	Args []any
	// Rest holds the extra positional arguments of a variadic function.
	Rest []any
}

// Bind matches positional and keyword arguments to the declared parameters
// without calling anything. It fails with [ErrSignature] when there are too
// many positional arguments, a keyword names no parameter (or the variadic
// one), a parameter receives two values, or a required parameter receives
// none.
func (s *Signature) Bind(args []any, kwargs map[string]any) (Bound, error) {
	fixed := s.fixed()
	bound := Bound{Args: make([]any, fixed)}
	filled := make([]bool, fixed)

	if len(args) > fixed && !s.variadic {
		return Bound{}, ErrSignature.Wrap(fmt.Errorf(
			"takes %d positional arguments but %d were given", fixed, len(args),
		)).With(slog.Int("want", fixed), slog.Int("got", len(args)))
	}

	for i, arg := range args {
		if i >= fixed {
			bound.Rest = append(bound.Rest, args[i:]...)

			break
		}

		bound.Args[i] = arg
		filled[i] = true
	}

	for _, name := range slices.Sorted(maps.Keys(kwargs)) {
		i, ok := s.index[name]
		if !ok || i >= fixed {
			err := ErrSignature.Wrap(fmt.Errorf(
				"got an unexpected keyword argument %q", name,
			)).With(slog.String("keyword", name))

			if hint := suggest(name, s.names()); hint != "" {
				err = err.With(slog.String("suggestion", hint))
			}

			return Bound{}, err
		}

		if filled[i] {
			return Bound{}, ErrSignature.Wrap(fmt.Errorf(
				"multiple values for argument %q", name,
			)).With(slog.String("param", name))
		}

		bound.Args[i] = kwargs[name]
		filled[i] = true
	}

	var missing []string

	for i := range fixed {
		if filled[i] {
			continue
		}

		if p := s.params[i]; p.HasDefault {
			bound.Args[i] = p.Default
		} else {
			missing = append(missing, p.Name)
		}
	}

	if len(missing) > 0 {
		return Bound{}, ErrSignature.Wrap(fmt.Errorf(
			"missing a required argument: %q", missing[0],
		)).With(slog.Any("missing", missing))
	}

	return bound, nil
}

// names returns the parameter names that may be passed by keyword.
func (s *Signature) names() []string {
	names := make([]string, 0, s.fixed())
	for _, p := range s.params[:s.fixed()] {
		names = append(names, p.Name)
	}

	return names
}

// values converts bound arguments to the function's parameter types.
func (s *Signature) values(ctx context.Context, b Bound) ([]reflect.Value, error) {
	in := make([]reflect.Value, 0, len(b.Args)+len(b.Rest)+1)

	if s.context {
		if ctx == nil {
			ctx = context.Background()
		}

		in = append(in, reflect.ValueOf(ctx))
	}

	for i, arg := range b.Args {
		v, err := convert(arg, s.types[i])
		if err != nil {
			return nil, err.With(slog.String("param", s.params[i].Name))
		}

		in = append(in, v)
	}

	if s.variadic {
		last := len(s.params) - 1
		elem := s.types[last].Elem()

		for _, arg := range b.Rest {
			v, err := convert(arg, elem)
			if err != nil {
				return nil, err.With(slog.String("param", s.params[last].Name))
			}

			in = append(in, v)
		}
	}

	return in, nil
}
