package repl

import (
	"strings"

	"github.com/ardnew/deferred/deferrable"
)

// functionCall describes the call enclosing the cursor.
type functionCall struct {
	name     string // callee, possibly dotted (e.g. "path.cat")
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor.
// Brackets and braces nest; commas count only at the call's own level.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	depth, commas := 0, 0

	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case ')', ']', '}':
			depth++

		case '[', '{':
			if depth == 0 {
				return functionCall{}
			}

			depth--

		case ',':
			if depth == 0 {
				commas++
			}

		case '(':
			if depth > 0 {
				depth--

				continue
			}

			name := calleeBefore(input[:i])
			if name == "" {
				return functionCall{}
			}

			return functionCall{name: name, argIndex: commas, inCall: true}
		}
	}

	return functionCall{}
}

// calleeBefore returns the dotted identifier ending s, ignoring trailing
// blanks.
func calleeBefore(s string) string {
	s = strings.TrimRight(s, " \t")

	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c != '.' && c != '_' &&
			(c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			break
		}

		i--
	}

	return strings.Trim(s[i:], ".")
}

// hintParts returns the rendered parameters of sig and the index of the one
// receiving argument arg, or -1 when arg is past the last parameter.
func hintParts(sig *deferrable.Signature, arg int) ([]string, int) {
	params := sig.Params()
	parts := make([]string, len(params))

	for i, p := range params {
		switch {
		case sig.Variadic() && i == len(params)-1:
			parts[i] = p.Name + "..."
		case p.HasDefault:
			parts[i] = p.Name + "?"
		default:
			parts[i] = p.Name
		}
	}

	switch {
	case arg < len(params):
		return parts, arg
	case sig.Variadic():
		return parts, len(params) - 1
	default:
		return parts, -1
	}
}

// renderSignatureHint renders name(params) with the current parameter
// highlighted.
func renderSignatureHint(name string, fn *deferrable.Func, arg int) string {
	parts, current := hintParts(fn.Signature(), arg)

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range parts {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if doc := fn.Doc(); doc != "" {
		b.WriteString("  ")
		b.WriteString(hintStyle.Render(doc))
	}

	return b.String()
}
