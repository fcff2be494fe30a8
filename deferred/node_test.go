package deferred

import (
	"context"
	"errors"
	"testing"
)

// testFunc is a Callable backed by a Go function.
type testFunc struct {
	name  string
	calls int
	fn    func(args []any, kwargs map[string]any) (any, error)
}

func (f *testFunc) Name() string { return f.name }

func (f *testFunc) Invoke(
	_ context.Context,
	args []any,
	kwargs map[string]any,
) (any, error) {
	f.calls++

	return f.fn(args, kwargs)
}

func sumFunc() *testFunc {
	return &testFunc{
		name: "sum",
		fn: func(args []any, kwargs map[string]any) (any, error) {
			total := 0
			for _, a := range args {
				total += a.(int)
			}

			for _, a := range kwargs {
				total += a.(int)
			}

			return total, nil
		},
	}
}

func TestVar_Resolve(t *testing.T) {
	x := NewVar("x")

	if x.Name() != "x" || x.String() != "x" {
		t.Errorf("expected name and display form x, got %q and %q", x.Name(), x.String())
	}

	got, err := x.Resolve(t.Context(), Bindings{"x": 42})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if got != 42 {
		t.Errorf("expected 42, got %v", got)
	}

	_, err = x.Resolve(t.Context(), Bindings{"y": 1})
	if !errors.Is(err, ErrUnboundVar) {
		t.Fatalf("expected ErrUnboundVar, got %v", err)
	}

	if want := `unbound placeholder: "x"`; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestVar_ResolveNilBinding(t *testing.T) {
	got, err := NewVar("x").Resolve(t.Context(), Bindings{"x": nil})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestCall_Resolve(t *testing.T) {
	sum := sumFunc()
	x := New(NewVar("x"))

	call := NewCall(sum, []any{x, 2}, map[string]any{"z": New(NewVar("z"))})
	if sum.calls != 0 {
		t.Fatalf("expected no calls before resolution, got %d", sum.calls)
	}

	got, err := call.Resolve(t.Context(), Bindings{"x": 1, "z": 10})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if got != 13 {
		t.Errorf("expected 13, got %v", got)
	}

	if sum.calls != 1 {
		t.Errorf("expected 1 call, got %d", sum.calls)
	}
}

func TestCall_CopiesArguments(t *testing.T) {
	args := []any{1, 2}
	kwargs := map[string]any{"k": 3}

	call := NewCall(sumFunc(), args, kwargs)
	args[0] = 100
	kwargs["k"] = 100

	got, err := call.Resolve(t.Context(), nil)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if got != 6 {
		t.Errorf("expected 6, got %v", got)
	}

	call.Args()[0] = 100
	if call.Args()[0] != 1 {
		t.Error("Args returned the internal slice")
	}
}

func TestCall_ResolveNilFunc(t *testing.T) {
	_, err := NewCall(nil, nil, nil).Resolve(t.Context(), nil)
	if !errors.Is(err, ErrNotCallable) {
		t.Errorf("expected ErrNotCallable, got %v", err)
	}
}

func TestCall_ResolveCallableError(t *testing.T) {
	boom := errors.New("boom")
	fail := &testFunc{
		name: "fail",
		fn: func([]any, map[string]any) (any, error) {
			return nil, boom
		},
	}

	_, err := NewCall(fail, nil, nil).Resolve(t.Context(), nil)
	if !errors.Is(err, boom) {
		t.Errorf("expected callable error, got %v", err)
	}
}

func TestCall_String(t *testing.T) {
	tests := []struct {
		name string
		call *Call
		want string
	}{
		{
			name: "empty",
			call: NewCall(sumFunc(), nil, nil),
			want: "sum()",
		},
		{
			name: "positional",
			call: NewCall(sumFunc(), []any{New(NewVar("x")), 2, "s"}, nil),
			want: `sum(x, 2, "s")`,
		},
		{
			name: "keywords sorted",
			call: NewCall(sumFunc(), []any{1}, map[string]any{"b": 2, "a": New(NewVar("y"))}),
			want: "sum(1, a=y, b=2)",
		},
		{
			name: "keywords only",
			call: NewCall(sumFunc(), nil, map[string]any{"a": 1}),
			want: "sum(a=1)",
		},
		{
			name: "nested",
			call: NewCall(sumFunc(), []any{New(NewCall(sumFunc(), []any{New(NewVar("x"))}, nil))}, nil),
			want: "sum(sum(x))",
		},
		{
			name: "nil func",
			call: NewCall(nil, []any{1}, nil),
			want: "<nil>(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.call.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNew_Unwraps(t *testing.T) {
	d := New(NewVar("x"))

	if New(d) != d {
		t.Error("expected New to return an existing *Deferred unchanged")
	}

	if _, ok := d.Builder().(*Var); !ok {
		t.Errorf("expected *Var builder, got %T", d.Builder())
	}
}

func TestDeferred_NilBuilder(t *testing.T) {
	d := &Deferred{}

	if d.String() != "<nil>" {
		t.Errorf("expected <nil>, got %q", d.String())
	}

	_, err := d.Resolve(t.Context(), nil)
	if !errors.Is(err, ErrNilBuilder) {
		t.Errorf("expected ErrNilBuilder, got %v", err)
	}
}

func TestDeferred_LogValue(t *testing.T) {
	d := New(NewCall(sumFunc(), []any{New(NewVar("x"))}, nil))

	if got := d.LogValue().String(); got != "sum(x)" {
		t.Errorf("expected sum(x), got %q", got)
	}
}
