package caster

import (
	"github.com/rs/zerolog"

	"graph-caster/enum"
	"graph-caster/metrics"
	"graph-caster/options"
	"graph-caster/token"
)

type settings struct {
	flags   options.Flag
	level   *zerolog.Level
	logger  zerolog.Logger
	metrics *metrics.Collector
	enums   []*enum.Descriptor
	parents []func(*token.Hierarchy) error
	errs    []error
}

// Option tunes a Service under construction.
type Option func(*settings)

// WithFlags replaces the flag set, options.FlagDefault by default.
func WithFlags(flags options.Flag) Option {
	return func(s *settings) {
		s.flags = flags
	}
}

// WithWrapPanics turns recovery of transformer panics on or off.
func WithWrapPanics(on bool) Option {
	return func(s *settings) {
		s.flags = s.flags.Set(options.FlagWrapPanics, on)
	}
}

// WithLogger sets the logger. The service logs nothing by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics sets the collector counting dispatches, faults and enum
// mapping syntheses.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *settings) {
		s.metrics = c
	}
}

// WithEnums declares the enums available to ProcessNamed and ProcessOrdinal.
func WithEnums(descriptors ...*enum.Descriptor) Option {
	return func(s *settings) {
		s.enums = append(s.enums, descriptors...)
	}
}

// WithConfig applies a loaded configuration: its flags, its log level and,
// when enabled, a metrics collector under its namespace.
func WithConfig(cfg options.Config) Option {
	return func(s *settings) {
		s.flags = cfg.Flags()

		level, err := cfg.Level()
		if err != nil {
			s.errs = append(s.errs, err)
		} else {
			s.level = &level
		}

		if cfg.Metrics.Enabled {
			c, err := metrics.NewCollector(cfg.Metrics)
			if err != nil {
				s.errs = append(s.errs, err)
				return
			}
			s.metrics = c
		}
	}
}

// Extends declares P as the parent of C, so transformers registered for P
// also serve C. up presents a C as its P.
func Extends[C, P any](up func(C) P) Option {
	return func(s *settings) {
		s.parents = append(s.parents, func(h *token.Hierarchy) error {
			return token.Extends(h, up)
		})
	}
}
