// Package metrics counts what a dispatch service does: dispatches by
// strictness, faults by kind and synthesized enum mappings by mode.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"graph-caster/options"
)

// Collector provides Prometheus metrics for a dispatch service.
// A nil or disabled collector records nothing.
type Collector struct {
	config options.MetricsConfig

	dispatches *prometheus.CounterVec
	faults     *prometheus.CounterVec
	enums      *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewCollector creates a collector with its own registry.
func NewCollector(cfg options.MetricsConfig) (*Collector, error) {
	if !cfg.Enabled {
		// Return a no-op collector
		return &Collector{config: cfg}, nil
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	c := &Collector{
		config:   cfg,
		registry: registry,

		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatches_total",
				Help:      "Total number of transformer invocations",
			},
			[]string{"strict"},
		),
		faults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "faults_total",
				Help:      "Total number of faults returned, by kind",
			},
			[]string{"kind"},
		),
		enums: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "enum_mappings_synthesized_total",
				Help:      "Total number of enum mappings synthesized, by mode",
			},
			[]string{"mode"},
		),
	}

	for _, collector := range []prometheus.Collector{c.dispatches, c.faults, c.enums} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return c, nil
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.registry != nil
}

// Registry returns the registry holding the collector's metrics, or nil
// when disabled.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}

	return c.registry
}

// Dispatch records one transformer invocation.
func (c *Collector) Dispatch(strict bool) {
	if !c.Enabled() {
		return
	}

	c.dispatches.WithLabelValues(strconv.FormatBool(strict)).Inc()
}

// Fault records one fault of the given kind.
func (c *Collector) Fault(kind string) {
	if !c.Enabled() {
		return
	}

	c.faults.WithLabelValues(kind).Inc()
}

// EnumSynthesized records one enum mapping synthesis.
func (c *Collector) EnumSynthesized(mode string) {
	if !c.Enabled() {
		return
	}

	c.enums.WithLabelValues(mode).Inc()
}
