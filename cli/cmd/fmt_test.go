package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ardnew/deferred/deferrable"
)

func TestFmtRun(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		format string
		want   string
	}{
		{name: "constant", expr: "1 + 2", want: "3\n"},
		{name: "deferred", expr: "x * 2 + len(\"abc\")", want: "add(mul(x, 2), 3)\n# vars: x\n"},
		{name: "underscore", expr: "_ > y", want: "gt(_, y)\n# vars: _, y\n"},
		{
			name:   "json",
			expr:   "x + 1",
			format: "json",
			want:   "{\"expr\":\"add(x, 1)\",\"deferred\":true,\"vars\":[\"x\"]}\n",
		},
		{
			name:   "yaml",
			expr:   "x",
			format: "yaml",
			want:   "expr: x\ndeferred: true\nvars:\n- x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			f := &Fmt{out: &out}
			f.Expr = tt.expr
			f.Format = tt.format

			if tt.format == "" {
				f.Format = "text"
			}

			if err := f.Run(t.Context()); err != nil {
				t.Fatalf("run error: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestFmtRun_Unsupported(t *testing.T) {
	f := &Fmt{out: &bytes.Buffer{}}
	f.Expr = "x ? 1 : 2"
	f.Format = "text"

	if err := f.Run(t.Context()); !errors.Is(err, deferrable.ErrUnsupportedSyntax) {
		t.Errorf("expected ErrUnsupportedSyntax, got %v", err)
	}
}
