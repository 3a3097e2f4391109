// Package config loads the optional smokecheck configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment is a named target deployment.
type Environment struct {
	BaseURL string            `yaml:"baseUrl"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// Config represents the smokecheck configuration
type Config struct {
	BaseURL         string                 `yaml:"baseUrl,omitempty"`
	Timeout         int                    `yaml:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool                  `yaml:"followRedirects,omitempty"`
	ValidateSSL     *bool                  `yaml:"validateSSL,omitempty"`
	Proxy           string                 `yaml:"proxy,omitempty"`
	Headers         map[string]string      `yaml:"headers,omitempty"` // default headers for all requests
	RPS             float64                `yaml:"rps,omitempty"`     // request pacing, 0 = unpaced
	HistoryFile     string                 `yaml:"historyFile,omitempty"`
	Environments    map[string]Environment `yaml:"environments,omitempty"`
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// ResolveEnvironment returns the base URL and headers for the named
// environment, falling back to the top-level settings when the name is
// empty. Unknown names are an error.
func (c *Config) ResolveEnvironment(name string) (string, map[string]string, error) {
	if name == "" {
		return c.BaseURL, c.Headers, nil
	}

	env, ok := c.Environments[name]
	if !ok {
		return "", nil, fmt.Errorf("environment %q not found in config", name)
	}

	headers := make(map[string]string, len(c.Headers)+len(env.Headers))
	for k, v := range c.Headers {
		headers[k] = v
	}
	for k, v := range env.Headers {
		headers[k] = v
	}

	baseURL := env.BaseURL
	if baseURL == "" {
		baseURL = c.BaseURL
	}

	return baseURL, headers, nil
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".smokecheck.yaml",
	"smokecheck.yaml",
	"smokecheck.yml",
}

// LoadConfig loads configuration from the specified path or searches for
// config files in the current directory.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	if path := FindConfigFile(dir); path != "" {
		return loadConfigFromFile(path)
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// FindConfigFile returns the path of the first config file present in dir,
// or "" when none exists.
func FindConfigFile(dir string) string {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return config, nil
}
