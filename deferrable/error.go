package deferrable

import "github.com/ardnew/deferred/deferred"

// Predefined errors (sentinel values).
var (
	ErrNotFunction       = deferred.NewError("not a function")
	ErrSignature         = deferred.NewError("signature mismatch")
	ErrSignatureSpec     = deferred.NewError("invalid parameter declaration")
	ErrArgumentType      = deferred.NewError("argument has wrong type")
	ErrUnknownFunction   = deferred.NewError("unknown function")
	ErrUnsupportedSyntax = deferred.NewError("unsupported syntax")
	ErrParse             = deferred.NewError("parse error")
	ErrOperand           = deferred.NewError("unsupported operand type")
	ErrDivideByZero      = deferred.NewError("division by zero")
)
