package deferrable

import (
	"context"
	"errors"
	"log/slog"
	"reflect"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// operators maps expression operators to the registry functions that
// implement them.
//
//nolint:gochecknoglobals
var operators = map[string]string{
	"+":   "add",
	"-":   "sub",
	"*":   "mul",
	"/":   "div",
	"%":   "mod",
	"==":  "eq",
	"!=":  "ne",
	"<":   "lt",
	"<=":  "le",
	">":   "gt",
	">=":  "ge",
	"and": "and",
	"&&":  "and",
	"or":  "or",
	"||":  "or",
}

// unary maps prefix operators to registry functions. Unary "+" is identity.
//
//nolint:gochecknoglobals
var unary = map[string]string{
	"-":   "neg",
	"!":   "not",
	"not": "not",
}

// Parse builds a value from an expression in expr-lang syntax.
//
// Identifiers become placeholders, with "_" the reserved one. Literals,
// arrays, and maps become Go values (int, float64, bool, string, nil,
// []any, map[string]any). Operators and function calls go through the
// functions in reg, or [Builtins] when reg is nil, so sub-expressions free
// of placeholders are computed now and the rest become deferred calls.
//
//	v, _ := Parse("x * 2 + 1", nil) // deferred: add(mul(x, 2), 1)
//	n, _ := Parse("3 * 2 + 1", nil) // 7
func Parse(src string, reg Registry) (any, error) {
	return ParseContext(context.Background(), src, reg)
}

// ParseContext is like [Parse] but passes ctx to the functions it calls.
func ParseContext(ctx context.Context, src string, reg Registry) (any, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, ErrParse.Wrap(err).With(slog.String("source", src))
	}

	if reg == nil {
		reg = Builtins()
	}

	return evaluator{ctx: ctx, reg: reg}.eval(tree.Node)
}

type evaluator struct {
	ctx context.Context //nolint:containedctx
	reg Registry
}

func (e evaluator) eval(node ast.Node) (any, error) {
	switch n := node.(type) {
	case *ast.NilNode:
		return nil, nil
	case *ast.IntegerNode:
		return n.Value, nil
	case *ast.FloatNode:
		return n.Value, nil
	case *ast.BoolNode:
		return n.Value, nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.ConstantNode:
		return n.Value, nil

	case *ast.IdentifierNode:
		return Var(n.Value), nil

	case *ast.ArrayNode:
		return e.list(n.Nodes)

	case *ast.MapNode:
		return e.mapping(n)

	case *ast.UnaryNode:
		if n.Operator == "+" {
			return e.eval(n.Node)
		}

		name, ok := unary[n.Operator]
		if !ok {
			return nil, unsupported(node, n.Operator)
		}

		return e.call(name, []ast.Node{n.Node})

	case *ast.BinaryNode:
		name, ok := operators[n.Operator]
		if !ok {
			return nil, unsupported(node, n.Operator)
		}

		return e.call(name, []ast.Node{n.Left, n.Right})

	case *ast.CallNode:
		name, ok := calleeName(n.Callee)
		if !ok {
			return nil, unsupported(node, n.Callee.String())
		}

		return e.call(name, n.Arguments)

	case *ast.BuiltinNode:
		return e.call(n.Name, n.Arguments)
	}

	return nil, unsupported(node, node.String())
}

func (e evaluator) list(nodes []ast.Node) ([]any, error) {
	vals := make([]any, len(nodes))

	for i, n := range nodes {
		v, err := e.eval(n)
		if err != nil {
			return nil, err
		}

		vals[i] = v
	}

	return vals, nil
}

func (e evaluator) mapping(n *ast.MapNode) (map[string]any, error) {
	m := make(map[string]any, len(n.Pairs))

	for _, p := range n.Pairs {
		pair, ok := p.(*ast.PairNode)
		if !ok {
			return nil, unsupported(p, p.String())
		}

		key, ok := pair.Key.(*ast.StringNode)
		if !ok {
			return nil, unsupported(pair.Key, "non-string map key")
		}

		v, err := e.eval(pair.Value)
		if err != nil {
			return nil, err
		}

		m[key.Value] = v
	}

	return m, nil
}

func (e evaluator) call(name string, argNodes []ast.Node) (any, error) {
	fn, err := e.reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	args, err := e.list(argNodes)
	if err != nil {
		return nil, err
	}

	return fn.CallContext(e.ctx, args, nil)
}

// calleeName returns the dotted name of a call target such as path.cat.
func calleeName(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return n.Value, true
	case *ast.MemberNode:
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return "", false
		}

		base, ok := calleeName(n.Node)
		if !ok {
			return "", false
		}

		return base + "." + prop.Value, true
	}

	return "", false
}

func unsupported(node ast.Node, what string) error {
	return ErrUnsupportedSyntax.Wrap(errors.New(what)).
		With(slog.String("node", reflect.TypeOf(node).Elem().Name()))
}
