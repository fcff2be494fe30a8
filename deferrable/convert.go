package deferrable

import (
	"log/slog"
	"reflect"

	"github.com/ardnew/deferred/deferred"
)

// convert returns arg as a value assignable to a parameter of type t.
//
// Numeric arguments are converted between numeric kinds only when the
// conversion is exact, so an int literal may feed a float64 parameter but
// 2.5 never silently becomes 2.
func convert(arg any, t reflect.Type) (reflect.Value, *deferred.Error) {
	if arg == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map,
			reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}

		return reflect.Value{}, ErrArgumentType.With(
			slog.String("want", t.String()),
			slog.String("got", "nil"),
		)
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}

	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		c := v.Convert(t)
		if c.Convert(v.Type()).Equal(v) && negative(c) == negative(v) {
			return c, nil
		}
	}

	return reflect.Value{}, ErrArgumentType.With(
		slog.String("want", t.String()),
		slog.String("got", v.Type().String()),
	)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func negative(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() < 0
	case reflect.Float32, reflect.Float64:
		return v.Float() < 0
	default:
		return false
	}
}
