package config

import (
	"fmt"

	"github.com/kilianp07/yardplan/core/factory"
	"github.com/kilianp07/yardplan/core/schedule"
)

// YardConfig points at the yard description used to expand plans.
type YardConfig struct {
	// Path is optional; without it plans are used as written.
	Path string `json:"path"`
	// Aliases maps raw yard part names to plan track names.
	Aliases map[string]string `json:"aliases"`
	// ExpandedPlanPath receives the expanded plan.
	ExpandedPlanPath string `json:"expanded_plan_path"`
}

func (c *YardConfig) SetDefaults() {
	if c.ExpandedPlanPath == "" {
		c.ExpandedPlanPath = "ext_plan.plan"
	}
}

// PlanConfig holds plan level switches.
type PlanConfig struct {
	NumDrivers int `json:"num_drivers"`
	// TurnsIncluded is set when the planner already emits turn actions.
	TurnsIncluded bool `json:"turns_included"`
}

func (c *PlanConfig) SetDefaults() {
	if c.NumDrivers == 0 {
		c.NumDrivers = 1
	}
}

func (c PlanConfig) Validate() error {
	if c.NumDrivers < 1 {
		return fmt.Errorf("num_drivers must be at least 1, got %d", c.NumDrivers)
	}
	return nil
}

// ModelConfig controls the exported solver data.
type ModelConfig struct {
	DataPath        string `json:"data_path"`
	DefaultDuration int    `json:"default_duration"`
	HorizonFactor   int    `json:"horizon_factor"`
}

func (c *ModelConfig) SetDefaults() {
	if c.DataPath == "" {
		c.DataPath = "minizinc/data.dzn"
	}
	if c.DefaultDuration == 0 {
		c.DefaultDuration = 3
	}
	if c.HorizonFactor == 0 {
		c.HorizonFactor = 2
	}
}

func (c ModelConfig) Validate() error {
	if c.DefaultDuration < 0 {
		return fmt.Errorf("default_duration must not be negative")
	}
	if c.HorizonFactor < 1 {
		return fmt.Errorf("horizon_factor must be at least 1")
	}
	return nil
}

// ScheduleConfig controls decoding and outputs.
type ScheduleConfig struct {
	TimestepMinutes int                    `json:"timestep_minutes"`
	StartClock      string                 `json:"start_clock"`
	Outputs         []factory.ModuleConfig `json:"outputs"`
}

func (c *ScheduleConfig) SetDefaults() {
	if c.TimestepMinutes == 0 {
		c.TimestepMinutes = 5
	}
	if c.StartClock == "" {
		c.StartClock = "00:00"
	}
	if len(c.Outputs) == 0 {
		c.Outputs = []factory.ModuleConfig{{Type: "text", Conf: map[string]any{"dir": "output"}}}
	}
}

func (c ScheduleConfig) Validate() error {
	_, err := c.Clock()
	return err
}

// Clock returns the clock used to label timesteps.
func (c ScheduleConfig) Clock() (schedule.Clock, error) {
	return schedule.ParseClock(c.StartClock, c.TimestepMinutes)
}
