package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/deferred/cli/cmd"
	"github.com/ardnew/deferred/pkg"
)

const (
	// configJSON and configYAML are the configuration file names in the
	// user config directory. Both are read; YAML values take precedence.
	configJSON = "config.json"
	configYAML = "config.yaml"

	defaultDirMode os.FileMode = 0o700
)

// CLI is the top-level command-line interface for deferred.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate an expression against placeholder bindings"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Print the deferred form of an expression"`
	Funcs   cmd.Funcs   `cmd:""                    help:"List built-in functions"`
	Init    cmd.Init    `cmd:""                    help:"Write a configuration file with current flag values"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Version cmd.Version `cmd:""                    help:"Print version information"`
}

// Run executes the deferred CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := os.MkdirAll(pkg.ConfigDir(), defaultDirMode); err != nil {
		return err
	}

	configPath := filepath.Join(pkg.ConfigDir(), configYAML)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before kong reports any parse error.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, filepath.Join(pkg.ConfigDir(), configJSON)),
		kong.Configuration(resolve, configPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
