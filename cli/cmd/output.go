package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/deferred/deferred"
)

// Output selects how results are written.
type Output struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2"                          help:"Indent width for json and yaml output." short:"i"`
}

// write encodes v to w in the selected format.
func (o Output) write(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)

	switch o.Format {
	case "json":
		if o.Indent > 0 {
			data, err = json.MarshalIndent(v, "", strings.Repeat(" ", o.Indent))
		} else {
			data, err = json.Marshal(v)
		}

		data = append(data, '\n')

	case "yaml":
		var opts []yaml.EncodeOption
		if o.Indent > 0 {
			opts = append(opts, yaml.Indent(o.Indent))
		}

		data, err = yaml.MarshalWithOptions(v, opts...)

	default:
		data = []byte(text(v) + "\n")
	}

	if err != nil {
		return ErrFormat.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}

// text renders v for the text format. Strings print unquoted.
func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return deferred.Repr(v)
}
