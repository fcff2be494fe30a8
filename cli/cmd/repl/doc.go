// Package repl implements an interactive session for building and resolving
// deferred expressions.
//
// Each line is parsed as an expression. The session prints its deferred form
// and free placeholders, and resolves it once every placeholder is bound.
// Lines starting with ':' are commands, for example ":bind x=2".
package repl
