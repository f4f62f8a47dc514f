package server

import "time"

// Config holds configuration for the read-only HTTP API.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds how long a request may take to be read.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
}

// ReadTimeout returns the configured read timeout, defaulting to 30 seconds.
func (c Config) ReadTimeout() time.Duration {
	if c.ReadTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// IsProtected reports whether an API key is configured.
func (c Config) IsProtected() bool {
	return c.ApiKey != ""
}
