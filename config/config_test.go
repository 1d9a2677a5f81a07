package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `yard:
  path: "yard.json"
  aliases:
    Entry Track: "e1"
plan:
  num_drivers: 2
  turns_included: true
model:
  data_path: "out/data.dzn"
solver:
  name: "gecode"
  timeout_seconds: 60
schedule:
  timestep_minutes: 10
  start_clock: "06:30"
  outputs:
    - type: "csv"
      conf:
        dir: "grids"
logging:
  level: "debug"
runlog:
  path: "runs.jsonl"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"yard.path", cfg.Yard.Path, "yard.json"},
		{"yard.aliases", cfg.Yard.Aliases["Entry Track"], "e1"},
		{"yard.expanded_plan_path", cfg.Yard.ExpandedPlanPath, "ext_plan.plan"},
		{"plan.num_drivers", cfg.Plan.NumDrivers, 2},
		{"plan.turns_included", cfg.Plan.TurnsIncluded, true},
		{"model.data_path", cfg.Model.DataPath, "out/data.dzn"},
		{"model.default_duration", cfg.Model.DefaultDuration, 3},
		{"model.horizon_factor", cfg.Model.HorizonFactor, 2},
		{"solver.name", cfg.Solver.Name, "gecode"},
		{"solver.binary", cfg.Solver.Binary, "minizinc"},
		{"solver.timeout_seconds", cfg.Solver.TimeoutSeconds, 60},
		{"schedule.timestep_minutes", cfg.Schedule.TimestepMinutes, 10},
		{"schedule.outputs", len(cfg.Schedule.Outputs) == 1 && cfg.Schedule.Outputs[0].Type == "csv", true},
		{"schedule.outputs.dir", cfg.Schedule.Outputs[0].Conf["dir"], "grids"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"runlog.path", cfg.RunLog.Path, "runs.jsonl"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	clock, err := cfg.Schedule.Clock()
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour+30*time.Minute, clock.Start)
	assert.Equal(t, 10*time.Minute, clock.Step)
}

func TestLoadJSONWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"plan": {"num_drivers": 1}}`), 0o644))
	t.Setenv("K_PLAN__NUM_DRIVERS", "4")
	t.Setenv("K_SOLVER__NAME", "cp-sat")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Plan.NumDrivers)
	assert.Equal(t, "cp-sat", cfg.Solver.Name)
	assert.Equal(t, "text", cfg.Schedule.Outputs[0].Type)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "config.toml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("plan:\n  num_drivers: -1\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "num_drivers")

	clock := filepath.Join(dir, "clock.yaml")
	require.NoError(t, os.WriteFile(clock, []byte("schedule:\n  start_clock: \"25h\"\n"), 0o644))
	_, err = Load(clock)
	assert.ErrorContains(t, err, "schedule")

	level := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("logging:\n  level: loud\n"), 0o644))
	_, err = Load(level)
	assert.ErrorContains(t, err, "logging")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Plan.NumDrivers)
	assert.Equal(t, "minizinc/data.dzn", cfg.Model.DataPath)
	assert.Equal(t, "minizinc/solution.json", cfg.Solver.OutputPath)
}
