// Package deferred implements deferred expressions: trees of placeholders and
// pending function calls that are turned into concrete values once every
// placeholder is bound.
//
// # Nodes
//
// A [Var] names a value to be supplied later. A [Call] captures a
// [Callable] together with arguments that may themselves be placeholders,
// deferred expressions, or containers holding them. A [Deferred] is the
// opaque handle wrapping either. All three implement [Builder].
//
//	x := deferred.New(deferred.NewVar("x"))
//	expr := deferred.New(deferred.NewCall(add, []any{x, 2}, nil))
//	v, err := expr.Resolve(ctx, deferred.Bindings{"x": 40}) // 42
//
// # Containers
//
// Resolution and [Walk] look through values of unnamed slice, array, and map
// types only. Mapping keys are never inspected, except for sets (maps whose
// element type is struct{}), whose keys are the members. Named container
// types are opaque leaves; see [Shape].
package deferred
