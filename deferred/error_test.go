package deferred

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestError_Is(t *testing.T) {
	cause := errors.New("cause")

	derived := ErrUnboundVar.Wrap(cause).With(slog.String("name", "x"))

	if !errors.Is(derived, ErrUnboundVar) {
		t.Error("expected derived error to match its sentinel")
	}

	if errors.Is(derived, ErrResolveType) {
		t.Error("expected derived error not to match another sentinel")
	}

	if !errors.Is(derived, cause) {
		t.Error("expected derived error to wrap its cause")
	}

	if !errors.Is(fmt.Errorf("outer: %w", derived), ErrUnboundVar) {
		t.Error("expected match through fmt wrapping")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "sentinel", err: ErrNilBuilder, want: "deferred node has no builder"},
		{
			name: "wrapped",
			err:  ErrNotCallable.Wrap(errors.New("nil")),
			want: "call target is not callable: nil",
		},
		{name: "plain", err: WrapError(errors.New("plain")), want: "plain"},
		{name: "empty", err: &Error{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestError_WithIsImmutable(t *testing.T) {
	a := ErrResolveType.With(slog.String("want", "int"))
	b := a.With(slog.String("got", "string"))

	if len(a.Attrs()) != 1 {
		t.Errorf("expected 1 attr on original, got %d", len(a.Attrs()))
	}

	if len(b.Attrs()) != 2 {
		t.Errorf("expected 2 attrs on derived, got %d", len(b.Attrs()))
	}

	if len(ErrResolveType.Attrs()) != 0 {
		t.Error("sentinel was mutated")
	}
}

func TestWrapError_ReturnsExisting(t *testing.T) {
	orig := ErrUnboundVar.With(slog.String("name", "x"))

	if got := WrapError(fmt.Errorf("ctx: %w", orig)); got != orig {
		t.Errorf("expected the wrapped *Error, got %v", got)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrNotCallable.Wrap(errors.New("nil")).With(slog.String("call", "f()"))

	attrs := err.LogValue().Group()
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attrs, got %d: %v", len(attrs), attrs)
	}

	if attrs[0].Key != "error" || attrs[1].Key != "cause" || attrs[2].Key != "call" {
		t.Errorf("unexpected attrs %v", attrs)
	}
}
