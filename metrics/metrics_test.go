package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-caster/metrics"
	"graph-caster/options"
)

func TestCollector(t *testing.T) {
	c, err := metrics.NewCollector(options.MetricsConfig{Enabled: true, Namespace: "test"})
	require.NoError(t, err)
	require.True(t, c.Enabled())

	c.Dispatch(true)
	c.Dispatch(false)
	c.Dispatch(false)
	c.Fault("usage")
	c.EnumSynthesized("name")

	expected := `
# HELP test_dispatches_total Total number of transformer invocations
# TYPE test_dispatches_total counter
test_dispatches_total{strict="false"} 2
test_dispatches_total{strict="true"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "test_dispatches_total"))

	count, err := testutil.GatherAndCount(c.Registry(), "test_faults_total", "test_enum_mappings_synthesized_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCollector_Disabled(t *testing.T) {
	c, err := metrics.NewCollector(options.MetricsConfig{})
	require.NoError(t, err)

	assert.False(t, c.Enabled())
	assert.Nil(t, c.Registry())

	assert.NotPanics(t, func() {
		c.Dispatch(true)
		c.Fault("usage")
		c.EnumSynthesized("ordinal")
	})

	var none *metrics.Collector
	assert.NotPanics(t, func() { none.Dispatch(false) })
	assert.Nil(t, none.Registry())
}
