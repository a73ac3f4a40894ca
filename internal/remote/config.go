package remote

import "time"

// Config holds the HTTP client settings.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	LogCalls bool
}

// DefaultConfig points at the service port used in development.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8765",
		Timeout: 10 * time.Second,
	}
}
