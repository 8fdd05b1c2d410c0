package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "doodozer"
	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "DOODOZER"
	// ContainerOutputPath is the volume mount point baked into the images.
	ContainerOutputPath = "/downloads"
)

// Config holds all runtime settings. Precedence: flags > env > config file > defaults.
type Config struct {
	OutputPath  string        `mapstructure:"output_path"`
	Concurrency int           `mapstructure:"concurrency"`
	RateLimit   string        `mapstructure:"rate_limit"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Retries     int           `mapstructure:"retries"`
	UserAgent   string        `mapstructure:"user_agent"`
	Proxy       string        `mapstructure:"proxy"`
	NoProgress  bool          `mapstructure:"no_progress"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputPath:  defaultOutputPath(),
		Concurrency: 1,
		HTTPTimeout: 30 * time.Second,
		Retries:     3,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// defaultOutputPath prefers the container volume when it exists, else cwd.
func defaultOutputPath() string {
	if fi, err := os.Stat(ContainerOutputPath); err == nil && fi.IsDir() {
		return ContainerOutputPath
	}
	return ""
}

// Load reads configuration from an optional config file, .env, and
// DOODOZER_* environment variables. cfgFile may be empty to use the default
// search path ($XDG_CONFIG_HOME/doodozer/config.yaml, then cwd).
func Load(cfgFile string) (*Config, error) {
	// .env is optional; ignore absence
	_ = godotenv.Load()

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output_path", defaults.OutputPath)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("rate_limit", defaults.RateLimit)
	v.SetDefault("http_timeout", defaults.HTTPTimeout)
	v.SetDefault("retries", defaults.Retries)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("proxy", defaults.Proxy)
	v.SetDefault("no_progress", defaults.NoProgress)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Bare OUTPUT_PATH is honored alongside the prefixed form for containers
	_ = v.BindEnv("output_path", "DOODOZER_OUTPUT_PATH", "OUTPUT_PATH")
	_ = v.BindEnv("log.level", "DOODOZER_LOG_LEVEL")
	_ = v.BindEnv("log.format", "DOODOZER_LOG_FORMAT")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			// No config file found, use defaults
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// configDir returns the doodozer configuration directory, honoring
// $XDG_CONFIG_HOME and defaulting to ~/.config.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}
