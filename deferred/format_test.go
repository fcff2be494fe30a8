package deferred

import (
	"testing"
	"time"
)

func TestRepr(t *testing.T) {
	x := New(NewVar("x"))

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: "nil"},
		{name: "int", in: 42, want: "42"},
		{name: "float", in: 2.5, want: "2.5"},
		{name: "bool", in: true, want: "true"},
		{name: "string", in: "a\"b", want: `"a\"b"`},
		{name: "placeholder", in: x, want: "x"},
		{name: "slice", in: []any{1, "s", x}, want: `[1, "s", x]`},
		{name: "empty slice", in: []any{}, want: "[]"},
		{name: "mapping", in: map[string]any{"b": 2, "a": x}, want: `{"a": x, "b": 2}`},
		{name: "set", in: map[int]struct{}{3: {}, 1: {}}, want: "{1, 3}"},
		{name: "stringer", in: time.Second, want: "1s"},
		{name: "named slice", in: row{1}, want: "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Repr(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRepr_Cycle(t *testing.T) {
	fan := []any{nil, nil, nil}
	fan[0], fan[1], fan[2] = fan, fan, New(NewVar("x"))

	m := map[string]any{"a": 1}
	m["self"] = m

	shared := []any{1}

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "self", in: func() any { s := []any{1, nil}; s[1] = s; return s }(), want: "[1, [...]]"},
		{name: "fan out", in: fan, want: "[[...], [...], x]"},
		{name: "mapping", in: m, want: `{"a": 1, "self": {...}}`},
		{name: "shared not cyclic", in: []any{shared, shared}, want: "[[1], [1]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Repr(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRepr_CycleThroughCall(t *testing.T) {
	s := []any{nil}
	s[0] = New(NewCall(sumFunc(), []any{s}, nil))

	want := "[sum([...])]"
	if got := Repr(s); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRepr_NilNodes(t *testing.T) {
	tests := []struct {
		name string
		in   Builder
	}{
		{name: "deferred", in: (*Deferred)(nil)},
		{name: "var", in: (*Var)(nil)},
		{name: "call", in: (*Call)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.String(); got != "<nil>" {
				t.Errorf("expected <nil>, got %q", got)
			}

			if got := Repr([]any{tt.in}); got != "[<nil>]" {
				t.Errorf("expected [<nil>], got %q", got)
			}
		})
	}
}
