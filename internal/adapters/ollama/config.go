package ollama

import "time"

// Config holds the connection settings for a local Ollama server.
type Config struct {
	Enabled bool
	URL     string
	Model   string
	Timeout time.Duration
}
