// Package config loads copymd settings from flags, environment and an
// optional config file, then validates them.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/copymd/core/fetch"
)

// EnvPrefix prefixes environment variables: COPYMD_FORMAT, COPYMD_DEBUG, ...
const EnvPrefix = "COPYMD"

// Config holds the settings of one run.
type Config struct {
	Format    string        `mapstructure:"format" validate:"oneof=markdown json yaml pdf"`
	BaseURL   string        `mapstructure:"base_url" validate:"omitempty,url"`
	Title     string        `mapstructure:"title"`
	Selector  string        `mapstructure:"selector"`
	OutputDir string        `mapstructure:"output_dir"`
	UserAgent string        `mapstructure:"user_agent" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Debug     bool          `mapstructure:"debug"`
	Quiet     bool          `mapstructure:"quiet"`
	LogJSON   bool          `mapstructure:"log_json"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format", "markdown")
	v.SetDefault("user_agent", fetch.DefaultUserAgent)
	v.SetDefault("timeout", fetch.DefaultTimeout)
}

// Init points v at the config file and environment. cfgFile overrides the
// default search for .copymd.yaml in $HOME and the working directory.
// A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".copymd")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
