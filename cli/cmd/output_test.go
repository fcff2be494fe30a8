package cmd

import (
	"bytes"
	"errors"
	"testing"
)

func TestOutputWrite(t *testing.T) {
	tests := []struct {
		name string
		out  Output
		in   any
		want string
	}{
		{name: "text string", out: Output{Format: "text"}, in: "raw", want: "raw\n"},
		{name: "text list", out: Output{Format: "text"}, in: []any{"a", 1}, want: "[\"a\", 1]\n"},
		{name: "text nil", out: Output{Format: "text"}, in: nil, want: "nil\n"},
		{name: "json compact", out: Output{Format: "json"}, in: []any{1, "a"}, want: "[1,\"a\"]\n"},
		{name: "json indent", out: Output{Format: "json", Indent: 1}, in: []any{true}, want: "[\n true\n]\n"},
		{name: "yaml", out: Output{Format: "yaml"}, in: map[string]any{"k": true}, want: "k: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := tt.out.write(&buf, tt.in); err != nil {
				t.Fatalf("write error: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestOutputWrite_Error(t *testing.T) {
	err := Output{Format: "json"}.write(&bytes.Buffer{}, map[string]any{"f": func() {}})
	if !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}
