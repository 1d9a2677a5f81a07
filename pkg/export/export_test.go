package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/yardplan/core/factory"
	"github.com/kilianp07/yardplan/core/schedule"
)

func sampleReport(t *testing.T) Report {
	t.Helper()
	clock, err := schedule.ParseClock("08:00", 5)
	require.NoError(t, err)
	s := &schedule.Schedule{
		Timesteps:  3,
		TrainNames: []string{"train_a"},
		TrainGrid:  [][]int{{0, 1, 0}},
		DriverGrid: [][]schedule.Cell{{
			{Kind: schedule.EnterTrain, Train: 1},
			{Kind: schedule.Driving, Train: 1, Action: 1},
			{Kind: schedule.ExitTrain, Train: 1},
		}},
		Logs: []schedule.DriverLog{{Driver: 1, Events: []string{"enter train train_a", "drive train_a: track_1→track_2", ""}}},
	}
	return Report{Schedule: s, Clock: clock}
}

func TestWriteDriverLog(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteDriverLog(&buf, r.Schedule.Logs[0], r.Clock))
	assert.Equal(t, "08:00 enter train train_a\n08:05 drive train_a: track_1→track_2\n08:10\n", buf.String())
}

func TestWriteCSV(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTrainCSV(&buf, r.Schedule, r.Clock))
	assert.Equal(t, "train,08:00,08:05,08:10\ntrain_a,,1,\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteDriverCSV(&buf, r.Schedule, r.Clock))
	assert.Equal(t, "driver,08:00,08:05,08:10\ndriver_1,enter train_a,driving train_a #1,exit train_a\n", buf.String())
}

func TestRegistryOutputs(t *testing.T) {
	dir := t.TempDir()
	outs, err := Registry.CreateAll([]factory.ModuleConfig{
		{Type: "text", Conf: map[string]any{"dir": dir}},
		{Type: "csv", Conf: map[string]any{"dir": dir}},
		{Type: "json", Conf: map[string]any{"path": filepath.Join(dir, "schedule.json")}},
	})
	require.NoError(t, err)

	r := sampleReport(t)
	for _, o := range outs {
		require.NoError(t, o.Write(context.Background(), r))
	}
	for _, name := range []string{"driver_1.txt", "trains.csv", "drivers.csv", "schedule.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	b, err := os.ReadFile(filepath.Join(dir, "schedule.json"))
	require.NoError(t, err)
	var decoded schedule.Schedule
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, r.Schedule.TrainGrid, decoded.TrainGrid)

	_, err = Registry.Create(factory.ModuleConfig{Type: "png"})
	assert.Error(t, err)
}

func TestTextOutputCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := TextOutput{Dir: t.TempDir()}.Write(ctx, sampleReport(t))
	assert.ErrorIs(t, err, context.Canceled)
}
