package cmd

import (
	"context"

	"github.com/ardnew/deferred/cli/cmd/repl"
	"github.com/ardnew/deferred/deferrable"
	"github.com/ardnew/deferred/log"
)

// Repl starts an interactive session over the built-in functions.
type Repl struct {
	Bindings `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	bindings, err := r.load()
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	sess := repl.NewSession(deferrable.Builtins(), bindings, parseValue)

	return repl.Run(ctx, sess, cacheDir, log.Default())
}
