package profile

import "github.com/ardnew/deferred/pkg"

// Tag is the build tag that enables profiling. It also names the default
// profile output directory under the cache directory.
const Tag = "pprof"

// Profiler configures and initializes the profiler.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option sets a field of a [Profiler].
type Option = pkg.Option[Profiler]

// Make returns a Profiler with opts applied.
func Make(opts ...Option) Profiler {
	return pkg.Apply(Profiler{}, opts...)
}

// WithMode sets the profiler mode. See [Modes].
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath sets the directory profile data is written to.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// Start initializes the profiler and returns an interface for stopping it.
//
// If the binary was built without the pprof tag, or Mode is empty or
// unknown, Start returns a no-op. Both Start and Stop are always safely
// callable.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

type ignore struct{}

func (ignore) Stop() {}
