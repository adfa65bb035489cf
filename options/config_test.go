package options_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-caster/options"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := options.Load("")
	require.NoError(t, err)

	assert.Equal(t, options.Defaults(), cfg)
	assert.Equal(t, options.FlagDefault, cfg.Flags())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
wrap_panics: false
log_level: debug
metrics:
  enabled: true
  namespace: orders
`), 0o600))

	t.Setenv("GRAPHCASTER_LOG_FAULTS", "true")
	t.Setenv("GRAPHCASTER_METRICS__NAMESPACE", "billing")

	cfg, err := options.Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.WrapPanics)
	assert.True(t, cfg.EmbeddedAncestry, "untouched keys keep defaults")
	assert.True(t, cfg.LogFaults)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "billing", cfg.Metrics.Namespace, "env wins over file")
	assert.Equal(t, options.FlagEmbeddedAncestry|options.FlagLogFaults, cfg.Flags())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := options.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("GRAPHCASTER_LOG_LEVEL", "loud")

	_, err = options.Load("")
	assert.ErrorContains(t, err, "invalid log level")
}
