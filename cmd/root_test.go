package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelCommandAppliesFlags(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.dzn")
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("model:\n  data_path: \""+data+"\"\nschedule:\n  outputs:\n    - type: json\n      conf:\n        path: \""+filepath.Join(dir, "s.json")+"\"\n"), 0o644))
	plan := filepath.Join(dir, "plan.plan")
	require.NoError(t, os.WriteFile(plan, []byte(strings.Join([]string{
		"(move_aside train_a track_1 track_2)",
		"(move_bside train_a track_2 track_1)",
	}, "\n")), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"model", plan, "--config", cfg, "--num-drivers", "3"})
	require.NoError(t, rootCmd.Execute())

	var counts map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &counts))
	assert.Equal(t, 1, counts["turn"])
	assert.Equal(t, 0, counts["precedence"])

	dzn, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Contains(t, string(dzn), "NUM_DRIVERS = 3;")
}
