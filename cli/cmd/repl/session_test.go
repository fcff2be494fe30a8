package repl

import (
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/ardnew/deferred/deferrable"
)

func atoi(text string) (any, error) { return strconv.Atoi(text) }

func newTestSession(t *testing.T) *Session {
	t.Helper()

	return NewSession(nil, nil, atoi)
}

func TestSession_Eval(t *testing.T) {
	tests := []struct {
		name string
		line string
		bind map[string]any
		want []string
	}{
		{name: "constant", line: "1 + 2", want: []string{"= 3"}},
		{
			name: "unbound",
			line: "x + 1",
			want: []string{"add(x, 1)", "# vars: x", "# unbound: x"},
		},
		{
			name: "bound",
			line: "x * y",
			bind: map[string]any{"x": 6, "y": 7},
			want: []string{"mul(x, y)", "# vars: x, y", "= 42"},
		},
		{
			name: "partly bound",
			line: "x - y",
			bind: map[string]any{"x": 1},
			want: []string{"sub(x, y)", "# vars: x, y", "# unbound: y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(nil, tt.bind, nil)

			res, err := s.Eval(t.Context(), tt.line)
			if err != nil {
				t.Fatalf("eval error: %v", err)
			}

			if got := res.Lines(); !slices.Equal(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSession_EvalErrors(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Eval(t.Context(), "nope(1)"); !errors.Is(err, deferrable.ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", err)
	}

	if _, err := s.Exec("bind d=0"); err != nil {
		t.Fatalf("bind error: %v", err)
	}

	if _, err := s.Eval(t.Context(), "1 / d"); !errors.Is(err, deferrable.ErrDivideByZero) {
		t.Errorf("expected ErrDivideByZero, got %v", err)
	}
}

func TestSession_Exec(t *testing.T) {
	s := newTestSession(t)

	reply, err := s.Exec("bind x=40")
	if err != nil {
		t.Fatalf("bind error: %v", err)
	}

	if !slices.Equal(reply.Lines, []string{"x = 40"}) {
		t.Errorf("unexpected bind reply %q", reply.Lines)
	}

	if _, err := s.Exec("bind y 2"); err != nil {
		t.Fatalf("bind error: %v", err)
	}

	res, err := s.Eval(t.Context(), "x + y")
	if err != nil || !res.Resolved || res.Value != 42 {
		t.Fatalf("expected 42, got %+v (%v)", res, err)
	}

	reply, _ = s.Exec("vars")
	if !slices.Equal(reply.Lines, []string{"x = 40", "y = 2"}) {
		t.Errorf("unexpected vars %q", reply.Lines)
	}

	if _, err := s.Exec("unbind x y"); err != nil {
		t.Fatalf("unbind error: %v", err)
	}

	reply, _ = s.Exec("vars")
	if !slices.Equal(reply.Lines, []string{"(no bindings)"}) {
		t.Errorf("unexpected vars after unbind %q", reply.Lines)
	}

	if reply, _ := s.Exec("quit"); !reply.Quit {
		t.Error("expected quit")
	}

	if reply, _ := s.Exec("clear"); !reply.Clear {
		t.Error("expected clear")
	}

	if reply, _ := s.Exec("funcs"); !slices.Contains(reply.Lines, "add(a, b)") {
		t.Errorf("expected add(a, b) among %q", reply.Lines)
	}
}

func TestSession_ExecErrors(t *testing.T) {
	s := newTestSession(t)

	tests := []struct {
		name string
		line string
	}{
		{name: "unknown", line: "bnd x=1"},
		{name: "bad name", line: "bind 1x=1"},
		{name: "no name", line: "bind =1"},
		{name: "bad value", line: "bind x=one"},
		{name: "unbind nothing", line: "unbind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Exec(tt.line); !errors.Is(err, ErrCommand) {
				t.Errorf("expected ErrCommand, got %v", err)
			}
		})
	}

	if _, ok := s.Lookup("x"); ok {
		t.Error("failed bind must not add a binding")
	}
}

func TestNewSession_CopiesBindings(t *testing.T) {
	initial := map[string]any{"x": 1}
	s := NewSession(nil, initial, nil)

	if _, err := s.Exec("bind y=2"); err != nil {
		t.Fatalf("bind error: %v", err)
	}

	if _, ok := initial["y"]; ok {
		t.Error("session must not write to the initial bindings")
	}

	if v, _ := s.Lookup("y"); v != "2" {
		t.Errorf("expected undecoded text, got %#v", v)
	}
}
