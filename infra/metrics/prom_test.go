package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/yardplan/core/metrics"
)

func TestPromRecorder(t *testing.T) {
	rec, err := NewPromRecorder()
	require.NoError(t, err)

	rec.RecordStage(coremetrics.StageDerive, 20*time.Millisecond, nil)
	rec.RecordStage(coremetrics.StageSolve, time.Second, errors.New("infeasible"))
	rec.RecordModel(coremetrics.ModelStats{Tracks: 5, Trains: 2, Movements: 4, Constraints: map[string]int{"turn": 1, "precedence": 2}})
	rec.RecordRun("failed")

	expected := `
# HELP yardplan_constraint_pairs Constraint pairs in the last derived model
# TYPE yardplan_constraint_pairs gauge
yardplan_constraint_pairs{kind="precedence"} 2
yardplan_constraint_pairs{kind="turn"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(rec.constraints, strings.NewReader(expected)))
	assert.Equal(t, 4.0, testutil.ToFloat64(rec.movements))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.stageErrors.WithLabelValues(coremetrics.StageSolve)))
	assert.Equal(t, 2, testutil.CollectAndCount(rec.stages))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.runs.WithLabelValues("failed")))
}

func TestPromRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromRecorderWithRegistry(reg, reg)
	require.NoError(t, err)
	b, err := NewPromRecorderWithRegistry(reg, reg)
	require.NoError(t, err)

	a.RecordRun("ok")
	b.RecordRun("ok")
	assert.Equal(t, 2.0, testutil.ToFloat64(b.runs.WithLabelValues("ok")))
}

func TestWriteTextfile(t *testing.T) {
	rec, err := NewPromRecorder()
	require.NoError(t, err)
	rec.RecordRun("ok")

	path := filepath.Join(t.TempDir(), "metrics", "yardplan.prom")
	require.NoError(t, rec.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `yardplan_runs_total{status="ok"} 1`)
}
