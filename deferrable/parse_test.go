package deferrable

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ardnew/deferred/deferred"
)

func TestParse_Constant(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{src: "42", want: 42},
		{src: "2.5", want: 2.5},
		{src: "true", want: true},
		{src: `"s"`, want: "s"},
		{src: "nil", want: nil},
		{src: "3 * 2 + 1", want: 7},
		{src: "-3", want: -3},
		{src: "+3", want: 3},
		{src: "7 % 4", want: 3},
		{src: "1 / 4", want: 0.25},
		{src: "1 < 2 && !false", want: true},
		{src: "1 == 2 or 2 != 3", want: true},
		{src: `upper("a") + lower("B")`, want: "Ab"},
		{src: "[1, 2 + 3]", want: []any{1, 5}},
		{src: `{"a": 1, b: [2]}`, want: map[string]any{"a": 1, "b": []any{2}}},
		{src: `len([1, 2, 3])`, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Parse(tt.src, nil)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestParse_Deferred(t *testing.T) {
	tests := []struct {
		src      string
		display  string
		bindings deferred.Bindings
		want     any
	}{
		{
			src:      "x * 2 + 1",
			display:  "add(mul(x, 2), 1)",
			bindings: deferred.Bindings{"x": 20},
			want:     41,
		},
		{
			src:      "_ > 3",
			display:  "gt(_, 3)",
			bindings: deferred.Bindings{"_": 5},
			want:     true,
		},
		{
			src:      "-x",
			display:  "neg(x)",
			bindings: deferred.Bindings{"x": 2},
			want:     -2,
		},
		{
			src:      `path.cat("a", name)`,
			display:  `path.cat("a", name)`,
			bindings: deferred.Bindings{"name": "b"},
			want:     mustCall(t, "path.cat", "a", "b"),
		},
		{
			src:      "[x, 1 + 1]",
			display:  "[x, 2]",
			bindings: deferred.Bindings{"x": 0},
			want:     []any{0, 2},
		},
		{
			src:      `{"k": y}`,
			display:  `{"k": y}`,
			bindings: deferred.Bindings{"y": "v"},
			want:     map[string]any{"k": "v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Parse(tt.src, nil)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !IsDeferred(got) {
				t.Fatalf("expected a deferred value, got %#v", got)
			}

			if s := deferred.Repr(got); s != tt.display {
				t.Errorf("expected display %q, got %q", tt.display, s)
			}

			v, err := deferred.Resolve(t.Context(), got, tt.bindings)
			if err != nil {
				t.Fatalf("resolve error: %v", err)
			}

			if !reflect.DeepEqual(v, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, v)
			}
		})
	}
}

func mustCall(t *testing.T, name string, args ...any) any {
	t.Helper()

	v, err := callBuiltin(t, name, args...)
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}

	return v
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want *deferred.Error
	}{
		{src: "1 +", want: ErrParse},
		{src: "nope(1)", want: ErrUnknownFunction},
		{src: "x ? 1 : 2", want: ErrUnsupportedSyntax},
		{src: "x.y", want: ErrUnsupportedSyntax},
		{src: "1 / 0", want: ErrDivideByZero},
		{src: "add(1)", want: ErrSignature},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_Registry(t *testing.T) {
	reg := Registry{}
	reg.Register(MustWrap(func(n int) int { return n * 2 }, WithName("double")))

	got, err := Parse("double(21)", reg)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if got != 42 {
		t.Errorf("expected 42, got %v", got)
	}

	if _, err := Parse("1 + 1", reg); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction without add, got %v", err)
	}
}
