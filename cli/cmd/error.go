package cmd

import "github.com/ardnew/deferred/deferred"

// Predefined errors (sentinel values).
var (
	ErrSource      = deferred.NewError("read expression")
	ErrBinding     = deferred.NewError("invalid binding")
	ErrFormat      = deferred.NewError("format output")
	ErrWriteConfig = deferred.NewError("write configuration file")
	ErrFileExists  = deferred.NewError("file exists (use --force to overwrite)")
)
