package cmd

import (
	"log/slog"
	"math"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/deferred/deferred"
)

// Bindings collects placeholder values from the command line.
type Bindings struct {
	Bind map[string]string `help:"Bind placeholder NAME to VALUE, parsed as YAML." placeholder:"NAME=VALUE" short:"b"`
	From string            `help:"Read bindings from a YAML or JSON mapping file."  name:"bindings"          short:"B" type:"existingfile"`
}

// load returns the bindings from the --bindings file overlaid with --bind
// flags.
func (b *Bindings) load() (deferred.Bindings, error) {
	out := deferred.Bindings{}

	if b.From != "" {
		data, err := os.ReadFile(b.From)
		if err != nil {
			return nil, ErrBinding.Wrap(err).With(slog.String("file", b.From))
		}

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, ErrBinding.Wrap(err).With(slog.String("file", b.From))
		}

		for k, v := range doc {
			out[k] = normalize(v)
		}
	}

	for name, text := range b.Bind {
		v, err := parseValue(text)
		if err != nil {
			return nil, ErrBinding.Wrap(err).With(slog.String("name", name))
		}

		out[name] = v
	}

	return out, nil
}

// parseValue decodes a single YAML value, so 42 is a number, true a bool,
// [1, 2] a list, and anything unquoted that is not YAML syntax a string.
func parseValue(text string) (any, error) {
	if text == "" {
		return "", nil
	}

	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}

	return normalize(v), nil
}

// normalize converts decoded YAML values to the types expressions produce:
// integers become int, mappings map[string]any, and sequences []any.
func normalize(v any) any {
	switch x := v.(type) {
	case int64:
		return int(x)

	case uint64:
		if x <= math.MaxInt {
			return int(x)
		}

	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}

		return out
	}

	return v
}
