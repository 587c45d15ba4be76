// Package config loads the small YAML configuration file consumed by the
// warren CLI: log level, an optional Redis address for the observer
// attachment, and the default demo scenario to run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level warren.yml document.
type Config struct {
	LogLevel    string          `yaml:"log_level"`              // debug, info, warn, or error; default info
	DefaultDemo string          `yaml:"default_demo,omitempty"` // scenario name run when no argument is given
	Observer    *ObserverConfig `yaml:"observer,omitempty"`
}

// ObserverConfig configures the optional Redis pub/sub fan-out of engine
// lifecycle events.
type ObserverConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr,omitempty"` // host:port, default "localhost:6379"
	Channel string `yaml:"channel,omitempty"`
}

var validLogLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// Validate checks the configuration for internal consistency, applying
// defaults to fields left unset.
func (c *Config) Validate() error {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, ok := validLogLevels[c.LogLevel]; !ok {
		return fmt.Errorf("config: invalid log_level %q (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Observer != nil && c.Observer.Enabled {
		if c.Observer.Addr == "" {
			c.Observer.Addr = "localhost:6379"
		}
		if c.Observer.Channel == "" {
			c.Observer.Channel = "warren.events"
		}
	}

	return nil
}

// Default returns a Config populated with every default value, equivalent
// to Validate-ing an empty Config.
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// Load reads and validates a warren.yml document from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return &c, nil
}
