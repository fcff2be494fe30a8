// Package deferrable makes ordinary Go functions placeholder-aware.
//
// A function wrapped by [Wrap] or a [Transformer] from [New] behaves exactly
// like the original when every argument is concrete. When any argument is a
// placeholder, a deferred expression, or a plain container holding one, the
// call is checked against the function's [Signature] and returned as a
// *deferred.Deferred to be resolved later with bindings.
//
//	add := deferrable.MustWrap(func(a, b int) int { return a + b },
//		deferrable.WithParams(deferrable.Required("a"), deferrable.Required("b")))
//
//	add.Apply(1, 2) // 3
//	e, _ := add.Apply(deferrable.Var("x"), 2) // add(x, 2)
//	deferred.Resolve(ctx, e, deferred.Bindings{"x": 40}) // 42
//
// Go functions carry no parameter names, so keyword arguments bind to the
// names declared with [WithParams] (arg0, arg1, ... by default).
//
// [Parse] builds the same expressions from expr-lang source text using the
// [Builtins] registry.
package deferrable
