package repl

import "github.com/ardnew/deferred/deferred"

// Sentinel errors.
var (
	ErrOutOfBounds = deferred.NewError("index out of range")
	ErrCommand     = deferred.NewError("invalid command")
)
