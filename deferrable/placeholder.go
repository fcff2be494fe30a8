package deferrable

import "github.com/ardnew/deferred/deferred"

// underscoreName is the reserved name of the value being matched.
const underscoreName = "_"

// underscore is created once and never mutated.
var underscore = deferred.New(deferred.NewVar(underscoreName))

// Underscore returns the reserved placeholder "_", shared process-wide.
func Underscore() *deferred.Deferred { return underscore }

// Var returns a deferred placeholder with the given name.
// Var("_") returns [Underscore].
func Var(name string) *deferred.Deferred {
	if name == underscoreName {
		return underscore
	}

	return deferred.New(deferred.NewVar(name))
}
