package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/ardnew/deferred/deferrable"
	"github.com/ardnew/deferred/deferred"
	"github.com/ardnew/deferred/log"
)

// Eval parses an expression, binds its placeholders, and prints the result.
type Eval struct {
	Source   `embed:""`
	Bindings `embed:""`
	Output   `embed:""`

	out io.Writer
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) error {
	src, err := e.read()
	if err != nil {
		return err
	}

	expr, err := deferrable.ParseContext(ctx, src, deferrable.Builtins())
	if err != nil {
		return deferred.WrapError(err).With(slog.String("command", "eval"))
	}

	bindings, err := e.load()
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "evaluate",
		slog.String("expr", deferred.Repr(expr)),
		slog.Int("bindings", len(bindings)),
	)

	result, err := deferred.Resolve(ctx, expr, bindings)
	if err != nil {
		if errors.Is(err, deferred.ErrUnboundVar) {
			err = deferred.WrapError(err).
				With(slog.Any("unbound", unbound(expr, bindings)))
		}

		return deferred.WrapError(err).With(slog.String("command", "eval"))
	}

	return e.write(writer(e.out), result)
}

// unbound returns the placeholders of expr that have no binding.
func unbound(expr any, b deferred.Bindings) []string {
	return slices.DeleteFunc(deferred.Vars(expr), func(name string) bool {
		_, ok := b[name]

		return ok
	})
}
