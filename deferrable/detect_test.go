package deferrable

import (
	"testing"

	"github.com/ardnew/deferred/deferred"
)

type record []any

type ordered struct {
	vals map[string]any
}

func TestIsDeferred(t *testing.T) {
	call := deferred.New(deferred.NewCall(MustWrap(addInts), []any{Var("x"), 1}, nil))

	tests := []struct {
		name string
		in   any
		want bool
	}{
		{name: "nil", in: nil},
		{name: "int", in: 1},
		{name: "string", in: "_"},
		{name: "underscore", in: Underscore(), want: true},
		{name: "named", in: Var("x"), want: true},
		{name: "call", in: call, want: true},
		{name: "empty list", in: []any{}},
		{name: "list", in: []any{1, Underscore()}, want: true},
		{name: "array", in: [2]any{1, Var("x")}, want: true},
		{name: "nested", in: []any{1, []any{2, map[string]any{"k": []any{Var("x")}}}}, want: true},
		{name: "plain nested", in: []any{1, []any{2, map[string]any{"k": 3}}}},
		{name: "set", in: map[any]struct{}{1: {}, Underscore(): {}}, want: true},
		{name: "placeholder key", in: map[any]any{Underscore(): 1}},
		{name: "placeholder value", in: map[any]any{1: Underscore()}, want: true},
		{name: "named container", in: record{Underscore()}},
		{name: "struct", in: ordered{vals: map[string]any{"k": Underscore()}}},
		{name: "pointer", in: &[]any{Underscore()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDeferred(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsDeferred_Cycle(t *testing.T) {
	s := []any{1, nil}
	s[1] = s

	if IsDeferred(s) {
		t.Error("expected a self-referencing plain list not to be deferred")
	}

	s[0] = Underscore()

	if !IsDeferred(s) {
		t.Error("expected a self-referencing list with a placeholder to be deferred")
	}
}

func TestUnderscore(t *testing.T) {
	if Underscore() != Underscore() {
		t.Error("expected a single shared instance")
	}

	if Var("_") != Underscore() {
		t.Error(`expected Var("_") to return the shared instance`)
	}

	if Var("x") == Var("x") {
		t.Error("expected distinct instances for named placeholders")
	}

	if got := Underscore().String(); got != "_" {
		t.Errorf("expected _, got %q", got)
	}
}
