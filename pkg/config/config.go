// Package config manages application configuration using Viper.
package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultExcludedInterests are the ambiguous survey categories omitted
// from the interest pool unless the config overrides them.
var DefaultExcludedInterests = []string{
	"AI & machine learning",
	"something not listed",
	"still figuring it out",
}

// Config wraps a Viper instance holding all tunables for a clustering run.
type Config struct {
	v *viper.Viper
}

// New creates a configuration with defaults.
func New() *Config {
	v := viper.New()

	// Clustering parameters
	v.SetDefault("clustering.resolution", 1.0)
	v.SetDefault("clustering.random_seed", int64(-1)) // -1: sorted visiting order, no shuffle
	v.SetDefault("clustering.max_levels", 10)
	v.SetDefault("clustering.max_iterations", 100)
	v.SetDefault("clustering.min_gain", 1e-9)

	// Pool parameters
	v.SetDefault("pool.excluded_interests", DefaultExcludedInterests)

	// Summary parameters
	v.SetDefault("summary.top_interests", 5)

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.enable_progress", true)

	return &Config{v: v}
}

// LoadFromFile loads configuration from file, overriding defaults.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for clustering parameters
func (c *Config) Resolution() float64 { return c.v.GetFloat64("clustering.resolution") }
func (c *Config) RandomSeed() int64   { return c.v.GetInt64("clustering.random_seed") }
func (c *Config) MaxLevels() int      { return c.v.GetInt("clustering.max_levels") }
func (c *Config) MaxIterations() int  { return c.v.GetInt("clustering.max_iterations") }
func (c *Config) MinGain() float64    { return c.v.GetFloat64("clustering.min_gain") }

func (c *Config) ExcludedInterests() []string { return c.v.GetStringSlice("pool.excluded_interests") }

func (c *Config) TopInterests() int { return c.v.GetInt("summary.top_interests") }

func (c *Config) LogLevel() string     { return c.v.GetString("logging.level") }
func (c *Config) EnableProgress() bool { return c.v.GetBool("logging.enable_progress") }

// Set allows dynamic configuration changes.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Validate fails fast on configuration a run cannot proceed with.
func (c *Config) Validate() error {
	if r := c.Resolution(); r <= 0 {
		return fmt.Errorf("clustering.resolution must be positive, got %v", r)
	}
	if n := c.MaxLevels(); n <= 0 {
		return fmt.Errorf("clustering.max_levels must be positive, got %d", n)
	}
	if n := c.MaxIterations(); n <= 0 {
		return fmt.Errorf("clustering.max_iterations must be positive, got %d", n)
	}
	if n := c.TopInterests(); n < 0 {
		return fmt.Errorf("summary.top_interests must be non-negative, got %d", n)
	}
	return nil
}

// CreateLogger creates a zerolog logger based on config.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "interest-clustering").Logger()
}
