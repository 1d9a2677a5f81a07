package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/yardplan/core/metrics"
	"github.com/kilianp07/yardplan/infra/minizinc"
)

type Config struct {
	Yard     YardConfig      `json:"yard"`
	Plan     PlanConfig      `json:"plan"`
	Model    ModelConfig     `json:"model"`
	Solver   minizinc.Config `json:"solver"`
	Schedule ScheduleConfig  `json:"schedule"`
	Logging  LoggingConfig   `json:"logging"`
	Metrics  metrics.Config  `json:"metrics"`
	RunLog   RunLogConfig    `json:"runlog"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Yard.SetDefaults()
	c.Plan.SetDefaults()
	c.Model.SetDefaults()
	c.Solver.SetDefaults()
	c.Schedule.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Plan.Validate(); err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if err := c.Schedule.Validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Load reads a YAML or JSON file, applies K_ prefixed environment overrides
// (K_SOLVER__TIMEOUT_SECONDS=60), then defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
