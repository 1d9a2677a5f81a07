package dzn

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/yardplan/core/constraints"
	"github.com/kilianp07/yardplan/core/plan"
)

const want = `NUM_TRAINS = 2;
NUM_TIMESTEPS = 18;
NUM_ACTIONS = 3;
NUM_DRIVERS = 2;

action_durations = [3, 3, 3];
action_train = [1, 1, 2];

PRECEDENCE_PAIRS = 1;
precedence_earlier = [2];
precedence_later = [3];

TURN_PAIRS = 1;
turn_earlier = [1];
turn_later = [2];

START_ORDER_PAIRS = 0;
start_order_earlier = [];
start_order_later = [];

NON_OVERLAP_PAIRS = 0;
non_overlap_earlier = [];
non_overlap_later = [];

SCHEDULED_ACTIONS_PER_TRAIN = 3;
train_actions = [|0, 2, 1
 |0, 0, 3|];
`

func sampleData(t *testing.T) Data {
	t.Helper()
	m, err := plan.ParseLines([]string{
		"(move_aside train_a track_1 track_2)",
		"(move_bside train_a track_2 track_1)",
		"(move_aside train_b track_3 track_2)",
	})
	require.NoError(t, err)
	set := constraints.NewDeriver(constraints.Options{}, nil).Derive(m)
	durations := constraints.Durations(m, constraints.ConstantDuration(3))
	return FromModel(m, set, durations, 2, 2)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleData(t)))
	assert.Equal(t, want, buf.String())
}

func TestEncodeKeepsGivenOrder(t *testing.T) {
	d := Data{Relations: map[constraints.Kind][]constraints.Pair{
		constraints.NonOverlap: {{Earlier: 4, Later: 5}, {Earlier: 1, Later: 2}},
	}}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d))
	assert.Contains(t, buf.String(), "non_overlap_earlier = [4, 1];")
	assert.Contains(t, buf.String(), "non_overlap_later = [5, 2];")
	assert.Contains(t, buf.String(), "train_actions = [||];")
}

func TestWriteFileReplacesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minizinc", "data.dzn")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale content that is much longer than nothing"), 0o644))

	require.NoError(t, WriteFile(path, sampleData(t)))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(b))
}

func TestEncodeIsByteIdenticalAcrossRuns(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, sampleData(t)))
	require.NoError(t, Encode(&b, sampleData(t)))
	assert.Equal(t, a.Bytes(), b.Bytes())
}
