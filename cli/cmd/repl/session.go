package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/deferred/deferrable"
	"github.com/ardnew/deferred/deferred"
)

// Decoder converts the text of a ":bind" command into a bound value.
type Decoder func(text string) (any, error)

// Session holds the function registry and placeholder bindings that lines
// are evaluated against. It is not safe for concurrent use.
type Session struct {
	reg      deferrable.Registry
	bindings deferred.Bindings
	decode   Decoder
}

// NewSession returns a session over reg with the initial bindings b.
// A nil reg means [deferrable.Builtins]; a nil decode binds text unchanged.
func NewSession(
	reg deferrable.Registry,
	b deferred.Bindings,
	decode Decoder,
) *Session {
	if reg == nil {
		reg = deferrable.Builtins()
	}

	if decode == nil {
		decode = func(text string) (any, error) { return text, nil }
	}

	bindings := deferred.Bindings{}
	maps.Copy(bindings, b)

	return &Session{reg: reg, bindings: bindings, decode: decode}
}

// Names returns the bound placeholder names in order.
func (s *Session) Names() []string {
	return slices.Sorted(maps.Keys(s.bindings))
}

// Lookup returns the value bound to name.
func (s *Session) Lookup(name string) (any, bool) {
	v, ok := s.bindings[name]

	return v, ok
}

// Func returns the registered function name, or nil.
func (s *Session) Func(name string) *deferrable.Func { return s.reg[name] }

// Result is the outcome of evaluating one line.
type Result struct {
	// Form is the display form of the parsed expression.
	Form string
	// Vars lists the free placeholders of the expression.
	Vars []string
	// Unbound lists the placeholders of Vars without a binding.
	Unbound []string
	// Value is the resolved value when Resolved is true.
	Value    any
	Resolved bool
}

// Lines returns the text printed for r.
func (r Result) Lines() []string {
	var lines []string

	if len(r.Vars) > 0 {
		lines = append(lines, r.Form, "# vars: "+strings.Join(r.Vars, ", "))
	}

	switch {
	case r.Resolved:
		lines = append(lines, "= "+deferred.Repr(r.Value))
	case len(r.Unbound) > 0:
		lines = append(lines, "# unbound: "+strings.Join(r.Unbound, ", "))
	}

	return lines
}

// Eval parses line and resolves it when all of its placeholders are bound.
func (s *Session) Eval(ctx context.Context, line string) (Result, error) {
	expr, err := deferrable.ParseContext(ctx, line, s.reg)
	if err != nil {
		return Result{}, err
	}

	r := Result{Form: deferred.Repr(expr), Vars: deferred.Vars(expr)}

	for _, name := range r.Vars {
		if _, ok := s.bindings[name]; !ok {
			r.Unbound = append(r.Unbound, name)
		}
	}

	if len(r.Unbound) > 0 {
		return r, nil
	}

	v, err := deferred.Resolve(ctx, expr, s.bindings)
	if err != nil {
		return r, err
	}

	r.Value, r.Resolved = v, true

	return r, nil
}

// Reply is the outcome of a command.
type Reply struct {
	Lines []string
	Quit  bool
	Clear bool
}

// commands are the names accepted after ':'.
var commands = []string{"bind", "clear", "funcs", "help", "quit", "unbind", "vars"} //nolint:gochecknoglobals

const helpText = `Type an expression to see its deferred form and resolve it.
Identifiers are placeholders; bind them with commands:

  :bind NAME=VALUE   bind a placeholder (VALUE is decoded, e.g. 42, [1, 2])
  :unbind NAME...    remove bindings
  :vars              list bindings
  :funcs             list functions
  :clear             clear the screen
  :quit              exit

Tab / Shift-Tab cycle completions, Up / Down browse history,
Ctrl-C on an empty line or Ctrl-D exits.`

// Exec runs a command line given without its leading ':'.
func (s *Session) Exec(line string) (Reply, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "q", "quit", "exit":
		return Reply{Quit: true}, nil

	case "clear":
		return Reply{Clear: true}, nil

	case "h", "help":
		return Reply{Lines: strings.Split(helpText, "\n")}, nil

	case "bind":
		return s.bind(rest)

	case "unbind":
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return Reply{}, ErrCommand.Wrap(errors.New("usage: :unbind NAME..."))
		}

		for _, f := range fields {
			delete(s.bindings, f)
		}

		return Reply{}, nil

	case "vars":
		names := s.Names()
		if len(names) == 0 {
			return Reply{Lines: []string{"(no bindings)"}}, nil
		}

		lines := make([]string, len(names))
		for i, n := range names {
			lines[i] = n + " = " + deferred.Repr(s.bindings[n])
		}

		return Reply{Lines: lines}, nil

	case "funcs":
		names := s.reg.Names()

		lines := make([]string, len(names))
		for i, n := range names {
			lines[i] = s.reg[n].String()
		}

		return Reply{Lines: lines}, nil
	}

	err := ErrCommand.Wrap(fmt.Errorf("%q", name))
	if m := fuzzy.Find(name, commands); len(m) > 0 {
		err = err.With(slog.String("suggestion", m[0].Str))
	}

	return Reply{}, err
}

// bind handles "NAME=VALUE" and "NAME VALUE".
func (s *Session) bind(arg string) (Reply, error) {
	name, text, ok := strings.Cut(arg, "=")
	if !ok {
		name, text, _ = strings.Cut(arg, " ")
	}

	name, text = strings.TrimSpace(name), strings.TrimSpace(text)
	if !isIdent(name) {
		return Reply{}, ErrCommand.Wrap(errors.New("usage: :bind NAME=VALUE")).
			With(slog.String("name", name))
	}

	v, err := s.decode(text)
	if err != nil {
		return Reply{}, ErrCommand.Wrap(err).With(slog.String("name", name))
	}

	s.bindings[name] = v

	return Reply{Lines: []string{name + " = " + deferred.Repr(v)}}, nil
}

func isIdent(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
