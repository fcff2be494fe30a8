package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ardnew/deferred/pkg"
)

// Version prints the program version.
type Version struct {
	Authors bool `help:"Also list the authors." short:"a"`

	out io.Writer
}

// Run executes the version command.
func (v *Version) Run(context.Context) error {
	w := writer(v.out)

	if _, err := fmt.Fprintln(w, pkg.Name, pkg.Version()); err != nil {
		return err
	}

	if !v.Authors {
		return nil
	}

	for _, a := range pkg.Author {
		if _, err := fmt.Fprintf(w, "%s <%s>\n", a.Name, a.Email); err != nil {
			return err
		}
	}

	return nil
}
