package options

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every environment variable read by Load. Nested keys
// are separated by a double underscore: GRAPHCASTER_METRICS__NAMESPACE.
const EnvPrefix = "GRAPHCASTER_"

type Config struct {
	WrapPanics       bool          `koanf:"wrap_panics"`
	EmbeddedAncestry bool          `koanf:"embedded_ancestry"`
	LogFaults        bool          `koanf:"log_faults"`
	LogLevel         string        `koanf:"log_level"`
	Metrics          MetricsConfig `koanf:"metrics"`
}

type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		WrapPanics:       true,
		EmbeddedAncestry: true,
		LogLevel:         zerolog.InfoLevel.String(),
		Metrics: MetricsConfig{
			Namespace: "graphcaster",
		},
	}
}

func defaultsMap() map[string]any {
	d := Defaults()

	return map[string]any{
		"wrap_panics":       d.WrapPanics,
		"embedded_ancestry": d.EmbeddedAncestry,
		"log_faults":        d.LogFaults,
		"log_level":         d.LogLevel,
		"metrics.enabled":   d.Metrics.Enabled,
		"metrics.namespace": d.Metrics.Namespace,
	}
}

// Flags returns the flag set the configuration selects.
func (c Config) Flags() Flag {
	return FlagNone.
		Set(FlagWrapPanics, c.WrapPanics).
		Set(FlagEmbeddedAncestry, c.EmbeddedAncestry).
		Set(FlagLogFaults, c.LogFaults)
}

// Level parses LogLevel. An empty level means info.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	return level, nil
}

// Load reads the configuration: defaults first, then the YAML file at
// path when path is not empty, then GRAPHCASTER_ environment variables.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load config file if requested
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("failed to stat config %s: %w", path, err)
		}

		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	// 3. Load env vars
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
