package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is an expression given either inline or read from a file.
type Source struct {
	Expr string `arg:""    help:"Expression to read (default: --file)." name:"expr" optional:""`
	File string `help:"Read the expression from a file, or '-' for stdin." short:"f"`

	stdin io.Reader
}

// read returns the expression text. An inline expression takes precedence
// over --file; with neither, stdin is read.
func (s *Source) read() (string, error) {
	if s.Expr != "" {
		return s.Expr, nil
	}

	var r io.Reader

	switch s.File {
	case "", stdinSource:
		r = s.stdin
		if r == nil {
			r = os.Stdin
		}

	default:
		f, err := os.Open(s.File)
		if err != nil {
			return "", ErrSource.Wrap(err)
		}
		defer f.Close()

		r = f
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", ErrSource.Wrap(err)
	}

	return strings.TrimSpace(string(b)), nil
}

// writer returns w, or os.Stdout when w is nil.
func writer(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
