package deferrable

import "github.com/ardnew/deferred/deferred"

// IsDeferred reports whether v is a placeholder or deferred node, or is a
// plain container holding one at any depth.
//
// Plain containers are values of unnamed slice, array, and map types.
// Mapping keys are never inspected; only values are. A map whose element
// type is struct{} is a set and its keys are its members. Values of named
// types and structs are opaque even when they hold deferred values.
//
// IsDeferred never panics.
func IsDeferred(v any) bool {
	return deferred.Contains(v)
}

// anyDeferred reports whether any argument of a call is deferred.
func anyDeferred(args []any, kwargs map[string]any) bool {
	return IsDeferred(args) || IsDeferred(kwargs)
}
