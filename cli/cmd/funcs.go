package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/deferred/deferrable"
)

// Funcs lists the built-in functions available to expressions.
type Funcs struct {
	Filter string `arg:"" help:"Show only functions fuzzy-matching this pattern." optional:""`

	out io.Writer
}

// Run executes the funcs command.
func (f *Funcs) Run(context.Context) error {
	reg := deferrable.Builtins()
	names := reg.Names()

	if f.Filter != "" {
		matches := fuzzy.Find(f.Filter, names)

		names = make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Str
		}
	}

	w := writer(f.out)
	r := lipgloss.NewRenderer(w)

	nameStyle := r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	sigStyle := r.NewStyle().Foreground(lipgloss.Color("8"))
	docStyle := r.NewStyle().PaddingLeft(2)

	width := 0
	for _, name := range names {
		width = max(width, len(name)+len(reg[name].Signature().String()))
	}

	for _, name := range names {
		fn := reg[name]
		sig := fn.Signature().String()
		pad := width - len(name) - len(sig)

		_, err := fmt.Fprintf(w, "%s%s%*s%s\n",
			nameStyle.Render(name),
			sigStyle.Render(sig),
			pad, "",
			docStyle.Render(fn.Doc()),
		)
		if err != nil {
			return err
		}
	}

	return nil
}
