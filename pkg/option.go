package pkg

// Option is a functional option that transforms a configuration value of
// type T and returns the result.
//
// Configuration values are passed and returned by value so that an option
// never observes a partially-applied configuration owned by someone else.
type Option[T any] func(T) T

// Apply applies each non-nil option to cfg in order and returns the result.
func Apply[T any](cfg T, opts ...Option[T]) T {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}
