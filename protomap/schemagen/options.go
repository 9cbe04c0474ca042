package schemagen

import "log/slog"

// Option configures schema generation.
type Option interface {
	apply(*config)
}

type config struct {
	pkg string
	log *slog.Logger
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithPackage declares a package for the emitted document.
func WithPackage(pkg string) Option {
	return optionFunc(func(c *config) { c.pkg = pkg })
}

// WithLogger sets the logger used for skipped fields.
func WithLogger(log *slog.Logger) Option {
	return optionFunc(func(c *config) { c.log = log })
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt.apply(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}
