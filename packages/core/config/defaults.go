package config

// DefaultTimeoutMs is the per-request timeout when nothing is configured.
const DefaultTimeoutMs = 10000

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "",
		Timeout: DefaultTimeoutMs,
	}
}
