package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/deferred/deferrable"
	"github.com/ardnew/deferred/deferred"
)

// Fmt parses an expression and prints its deferred form without binding
// anything. Constant sub-expressions are computed.
type Fmt struct {
	Source `embed:""`
	Output `embed:""`

	out io.Writer
}

// form describes a parsed expression.
type form struct {
	Expr     string   `json:"expr"           yaml:"expr"`
	Deferred bool     `json:"deferred"       yaml:"deferred"`
	Vars     []string `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) error {
	src, err := f.read()
	if err != nil {
		return err
	}

	expr, err := deferrable.ParseContext(ctx, src, deferrable.Builtins())
	if err != nil {
		return deferred.WrapError(err).With(slog.String("command", "fmt"))
	}

	info := form{
		Expr:     deferred.Repr(expr),
		Deferred: deferrable.IsDeferred(expr),
		Vars:     deferred.Vars(expr),
	}

	w := writer(f.out)

	if f.Format != "text" {
		return f.write(w, info)
	}

	if _, err := fmt.Fprintln(w, info.Expr); err != nil {
		return err
	}

	if len(info.Vars) > 0 {
		_, err = fmt.Fprintln(w, "# vars:", strings.Join(info.Vars, ", "))
	}

	return err
}
