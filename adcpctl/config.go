// =============================================================================
// config.go - Configuration Loading
// =============================================================================
//
// Settings are layered: built-in defaults, then the YAML config file, then
// environment variables, then command-line flags (applied in commands.go).
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adcp/adcpctl/adcpprotocol"
)

// Environment variables that override the config file.
const (
	envHost     = "ADCP_IP"
	envPort     = "ADCP_PORT"
	envPassword = "ADCP_PASSWORD"
)

// Config holds the adcpctl configuration.
type Config struct {
	Host         string        `yaml:"host" json:"host"`
	Port         int           `yaml:"port" json:"port"`
	Password     string        `yaml:"password" json:"password"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	LogLevel     string        `yaml:"log_level" json:"log_level"`
	OutputFormat string        `yaml:"output_format" json:"output_format"`
}

// defaultConfig returns the settings used when nothing else is given.
func defaultConfig() *Config {
	return &Config{
		Port:         adcpprotocol.DefaultPort,
		Timeout:      adcpprotocol.CommandTimeout,
		LogLevel:     "warn",
		OutputFormat: "table",
	}
}

// defaultConfigPath returns the default config file path: ~/.adcp/config.yaml
func defaultConfigPath() string {
	return filepath.Join(homeDir(), ".adcp", "config.yaml")
}

// loadConfig reads the configuration from the given YAML file path. A
// missing file yields the defaults with no error. A password stored in a
// file other users can read produces a warning on warnOut.
func loadConfig(path string, warnOut io.Writer) (*Config, error) {
	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if perm := info.Mode().Perm(); perm&0o077 != 0 && cfg.Password != "" {
		fmt.Fprintf(warnOut,
			"warning: config file %s has permissions %04o, expected 0600; the password may be exposed to other users\n",
			path, perm)
	}
	return cfg, nil
}

// applyEnv overrides cfg with the ADCP_* environment variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(envHost); v != "" {
		c.Host = v
	}
	if v := getenv(envPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid %s %q", envPort, v)
		}
		c.Port = port
	}
	if v := getenv(envPassword); v != "" {
		c.Password = v
	}
	return nil
}

// validate checks the settings needed to reach a device.
func (c *Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("no device host configured (use --host, %s or the config file)", envHost)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// clientConfig converts the settings into a protocol client config.
func (c *Config) clientConfig(observer adcpprotocol.Observer) adcpprotocol.Config {
	return adcpprotocol.Config{
		Host:           c.Host,
		Port:           c.Port,
		Password:       c.Password,
		CommandTimeout: c.Timeout,
		Observer:       observer,
	}
}

// homeDir returns the current user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
