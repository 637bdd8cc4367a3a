// Package config loads pyforge settings from a YAML file, PYFORGE_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidIndent     = errors.New("render indent must be between 1 and 16")
	ErrInvalidQuote      = errors.New("render quote must be ' or \"")
	ErrInvalidDepth      = errors.New("display max depth must be -1 or positive")
	ErrInvalidRounds     = errors.New("rewrite max rounds must not be negative")
	ErrInvalidSourceSize = errors.New("invalid host max source size")
	ErrInvalidTimeout    = errors.New("host timeout must not be negative")
	ErrInvalidSampling   = errors.New("telemetry sample ratio must be between 0 and 1")
)

const (
	// configName is the config file name without extension.
	configName = "pyforge"
	// configType is the config file format.
	configType = "yaml"
	// envPrefix is the environment variable prefix.
	envPrefix = "PYFORGE"

	maxIndent = 16
)

// Config holds all pyforge configuration.
type Config struct {
	Render    RenderConfig    `mapstructure:"render"`
	Display   DisplayConfig   `mapstructure:"display"`
	Rewrite   RewriteConfig   `mapstructure:"rewrite"`
	Host      HostConfig      `mapstructure:"host"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// RenderConfig controls canonical source output.
type RenderConfig struct {
	Quote  string `mapstructure:"quote"`
	Indent int    `mapstructure:"indent"`
}

// DisplayConfig controls tree dumps.
type DisplayConfig struct {
	// MaxDepth caps nesting in dumps; -1 prints the whole tree.
	MaxDepth int `mapstructure:"max_depth"`
}

// RewriteConfig controls rule application.
type RewriteConfig struct {
	// MaxRounds caps rewrites on one node; zero means no cap.
	MaxRounds int `mapstructure:"max_rounds"`
}

// HostConfig controls compilation checks and execution.
type HostConfig struct {
	Python        string        `mapstructure:"python"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxSourceSize string        `mapstructure:"max_source_size"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Verbose      bool    `mapstructure:"verbose"`
}

// QuoteByte returns the configured string delimiter.
func (rc RenderConfig) QuoteByte() byte {
	return rc.Quote[0]
}

// MaxSourceBytes parses MaxSourceSize ("4MB", "512 KiB"). Empty or "0" means
// no limit.
func (hc HostConfig) MaxSourceBytes() (uint64, error) {
	if hc.MaxSourceSize == "" || hc.MaxSourceSize == "0" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(hc.MaxSourceSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidSourceSize, hc.MaxSourceSize, err)
	}

	return size, nil
}

// LoadConfig loads configuration from file, environment and defaults. An
// empty configPath searches pyforge.yaml in the working directory and $HOME;
// a missing file is not an error then.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	if err := viperCfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config

	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render:  RenderConfig{Quote: DefaultQuote, Indent: DefaultIndent},
		Display: DisplayConfig{MaxDepth: DefaultMaxDepth},
		Rewrite: RewriteConfig{MaxRounds: DefaultMaxRounds},
		Host: HostConfig{
			Python:        DefaultPython,
			Timeout:       DefaultHostTimeout,
			MaxSourceSize: DefaultMaxSourceSize,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

func setDefaults(viperCfg *viper.Viper) {
	defaults := Default()

	viperCfg.SetDefault("render.quote", defaults.Render.Quote)
	viperCfg.SetDefault("render.indent", defaults.Render.Indent)

	viperCfg.SetDefault("display.max_depth", defaults.Display.MaxDepth)

	viperCfg.SetDefault("rewrite.max_rounds", defaults.Rewrite.MaxRounds)

	viperCfg.SetDefault("host.python", defaults.Host.Python)
	viperCfg.SetDefault("host.timeout", defaults.Host.Timeout.String())
	viperCfg.SetDefault("host.max_source_size", defaults.Host.MaxSourceSize)

	viperCfg.SetDefault("logging.level", defaults.Logging.Level)
	viperCfg.SetDefault("logging.format", defaults.Logging.Format)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.verbose", false)
}

func validateConfig(cfg *Config) error {
	if cfg.Render.Indent < 1 || cfg.Render.Indent > maxIndent {
		return fmt.Errorf("%w: %d", ErrInvalidIndent, cfg.Render.Indent)
	}

	if cfg.Render.Quote != `"` && cfg.Render.Quote != "'" {
		return fmt.Errorf("%w: %q", ErrInvalidQuote, cfg.Render.Quote)
	}

	if cfg.Display.MaxDepth == 0 || cfg.Display.MaxDepth < -1 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, cfg.Display.MaxDepth)
	}

	if cfg.Rewrite.MaxRounds < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRounds, cfg.Rewrite.MaxRounds)
	}

	if cfg.Host.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, cfg.Host.Timeout)
	}

	if _, err := cfg.Host.MaxSourceBytes(); err != nil {
		return err
	}

	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampling, cfg.Telemetry.SampleRatio)
	}

	return nil
}
