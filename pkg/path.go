package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// debugBin matches the executable name dlv gives a debug build.
var debugBin = regexp.MustCompile(`^__debug_bin\d+$`) //nolint:gochecknoglobals

// Prefix returns the name used for the per-user configuration and cache
// directories.
//
// It is the base name of the running executable without extension and
// leading dots. A dlv debug binary is reported as [Name].
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}

		base := filepath.Base(exe)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		base = strings.TrimLeft(base, ".")

		if base == "" || debugBin.MatchString(base) {
			return Name
		}

		return base
	},
)

// ConfigDir returns the directory holding user configuration files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the directory holding transient files such as profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir joins [Prefix] onto the directory reported by lookup. When lookup
// fails it falls back to hidden under the home directory, then to the
// working directory.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
