package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/schemaform"
)

const (
	// FileName is the config file base name searched in "." and
	// $HOME/.schemaform.
	FileName = "schemaform"
	// EnvPrefix prefixes environment overrides, e.g. SCHEMAFORM_ALLOW_HTTP.
	EnvPrefix = "SCHEMAFORM"

	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds the CLI settings.
type Config struct {
	DenyList    []string      `mapstructure:"deny_list" yaml:"deny_list"`
	MaxRefDepth int           `mapstructure:"max_ref_depth" yaml:"max_ref_depth"`
	AllowHTTP   bool          `mapstructure:"allow_http" yaml:"allow_http"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
	Output      string        `mapstructure:"output" yaml:"output"`
}

// Default returns the settings used when no file or env override exists.
func Default() Config {
	return Config{
		DenyList:    append([]string(nil), schemaform.DefaultDenyList...),
		MaxRefDepth: 64,
		HTTPTimeout: 10 * time.Second,
		Output:      OutputJSON,
	}
}

// Load reads path, or searches the default locations when path is empty, and
// applies SCHEMAFORM_* environment overrides. A missing file in the default
// locations is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	v := viper.New()
	defaults := Default()
	v.SetDefault("deny_list", defaults.DenyList)
	v.SetDefault("max_ref_depth", defaults.MaxRefDepth)
	v.SetDefault("allow_http", defaults.AllowHTTP)
	v.SetDefault("http_timeout", defaults.HTTPTimeout)
	v.SetDefault("output", defaults.Output)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+FileName))
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the commands cannot honor.
func (c Config) Validate() error {
	switch c.Output {
	case OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("config: output must be %q or %q, got %q", OutputJSON, OutputYAML, c.Output)
	}
	if c.MaxRefDepth < 1 {
		return fmt.Errorf("config: max_ref_depth must be positive, got %d", c.MaxRefDepth)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: http_timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}

// ParseOptions converts the settings into schemaform parse options.
func (c Config) ParseOptions() []schemaform.Option {
	return []schemaform.Option{
		schemaform.WithDenyList(c.DenyList...),
		schemaform.WithMaxRefDepth(c.MaxRefDepth),
	}
}

// LoaderOptions converts the settings into schema loader options. Extra
// options are applied afterwards.
func (c Config) LoaderOptions(extra ...schema.LoaderOption) schema.LoaderOptions {
	opts := make([]schema.LoaderOption, 0, len(extra)+1)
	if c.AllowHTTP {
		opts = append(opts, schema.WithHTTPFallback(c.HTTPTimeout))
	}
	opts = append(opts, extra...)
	return schema.NewLoaderOptions(opts...)
}

// YAML renders the effective settings as a config file.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(struct {
		DenyList    []string `yaml:"deny_list"`
		MaxRefDepth int      `yaml:"max_ref_depth"`
		AllowHTTP   bool     `yaml:"allow_http"`
		HTTPTimeout string   `yaml:"http_timeout"`
		Output      string   `yaml:"output"`
	}{
		DenyList:    c.DenyList,
		MaxRefDepth: c.MaxRefDepth,
		AllowHTTP:   c.AllowHTTP,
		HTTPTimeout: c.HTTPTimeout.String(),
		Output:      c.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return out, nil
}
