// Package cli contains the command line interface for deferred.
//
// # Usage
//
//	deferred [flags] <command> [args]
//
// The default command is eval, so an expression may be given directly:
//
//	deferred 'x * 2 + 1' --bind x=20          # 41
//	deferred fmt 'x * 2 + len("abc")'         # add(mul(x, 2), 3)
//	deferred eval -B vars.yaml -o json 'name' # "..."
//	deferred funcs path                       # path.abs, path.cat, ...
//
// Placeholder values given with --bind are parsed as YAML, so numbers,
// booleans, and lists keep their types. A --bindings file holds a YAML or
// JSON mapping of names to values; --bind overrides it.
//
// # Configuration
//
// Global flags are read from config.json and config.yaml in the user
// configuration directory (for example ~/.config/deferred). Nested YAML
// mappings name flags by their dash-separated parts:
//
//	log:
//	  level: debug
//	  pretty: true
//
// "deferred init" writes config.yaml from the current flag values.
// Command-line flags override configuration values.
//
// # Logging
//
// All --log-* flags configure the default logger before the command line is
// parsed, so they take effect regardless of position.
package cli
