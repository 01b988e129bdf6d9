// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys,
// e.g. LEDGER_DATABASE_PATH for database.path.
const EnvPrefix = "LEDGER"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		Path    string `mapstructure:"path" yaml:"path"`
		LogMode bool   `mapstructure:"log_mode" yaml:"log_mode"`
	} `mapstructure:"database" yaml:"database"`

	Server struct {
		Address string `mapstructure:"address" yaml:"address"`
		// Mode is the gin mode: debug, release or test
		Mode string `mapstructure:"mode" yaml:"mode"`
	} `mapstructure:"server" yaml:"server"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Budget struct {
		// Parallelism bounds the number of buckets computed concurrently in an overview
		Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`
	} `mapstructure:"budget" yaml:"budget"`
}

// InitializeConfig loads configuration with hierarchical precedence:
// defaults, then the config file, then LEDGER_* environment variables.
// An empty configFile searches config.yaml in the standard locations.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.bucket-ledger")
		v.AddConfigPath(".bucket-ledger")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.path", "data/ledger.db")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("budget.parallelism", 4)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	switch config.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %s (must be 'debug', 'release' or 'test')", config.Server.Mode)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Budget.Parallelism < 1 || config.Budget.Parallelism > 64 {
		return fmt.Errorf("budget.parallelism must be between 1 and 64, got: %d", config.Budget.Parallelism)
	}

	return nil
}

// DelimiterRune returns the configured CSV delimiter as a rune, a comma when unset
func (c *Config) DelimiterRune() rune {
	for _, r := range c.CSV.Delimiter {
		return r
	}
	return ','
}
