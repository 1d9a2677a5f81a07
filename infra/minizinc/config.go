package minizinc

import "fmt"

// Config defines how the MiniZinc binary is invoked.
type Config struct {
	Binary         string `json:"binary"`
	Name           string `json:"name"`
	ModelPath      string `json:"model_path"`
	OutputPath     string `json:"output_path"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Binary == "" {
		c.Binary = "minizinc"
	}
	if c.Name == "" {
		c.Name = "chuffed"
	}
	if c.ModelPath == "" {
		c.ModelPath = "minizinc/model.mzn"
	}
	if c.OutputPath == "" {
		c.OutputPath = "minizinc/solution.json"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 300
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if c.ModelPath == "" || c.OutputPath == "" {
		return fmt.Errorf("model_path and output_path are required")
	}
	return nil
}
