package config

import (
	"fmt"
	"strings"
)

// LoggingConfig defines the log verbosity.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unknown level %s", c.Level)
	}
}

// RunLogConfig enables the JSONL run history when Path is set.
type RunLogConfig struct {
	Path string `json:"path"`
}
