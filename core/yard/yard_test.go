package yard

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/yardplan/core/plan"
)

const chainYard = `{"trackParts": [
  {"id": 1, "name": "1", "type": "RailRoad", "aSide": [2]},
  {"id": 2, "name": "2", "type": "Switch", "aSide": [3]},
  {"id": 3, "name": "3", "type": "RailRoad", "aSide": []},
  {"id": "b", "name": "bumper", "type": "Bumper", "aSide": [3]}
]}`

func chainGraph(t *testing.T) *Graph {
	t.Helper()
	d, err := DecodeDescription(strings.NewReader(chainYard), "json")
	require.NoError(t, err)
	g, err := NewGraph(d, nil)
	require.NoError(t, err)
	return g
}

func TestNormalizeAndAliases(t *testing.T) {
	assert.Equal(t, "Track_12_a", Normalize("Track 12--a"))
	assert.Equal(t, "_x_", Normalize("(x)"))

	a := NewAliases(map[string]string{"Entry track": "e 1"})
	assert.Equal(t, "e_1", a.Resolve("Entry-track"))
	assert.Equal(t, "other_one", a.Resolve("other one"))
}

func TestNewGraphExcludesNonRoutableParts(t *testing.T) {
	g := chainGraph(t)
	assert.Equal(t, 3, g.Len())
	assert.False(t, g.Has("bumper"))
	assert.True(t, g.Adjacent("1", "2"))
	assert.True(t, g.Adjacent("3", "2"))
	assert.False(t, g.Adjacent("1", "3"))
	assert.Equal(t, []string{"1", "2", "3"}, g.Names())
}

func TestNonRoutablePartDoesNotBridge(t *testing.T) {
	d := Description{TrackParts: []TrackPart{
		{ID: "1", Name: "a", Type: RailRoad, ASide: []PartID{"x"}},
		{ID: "x", Name: "crossing", Type: "Intersection", ASide: []PartID{"2"}},
		{ID: "2", Name: "b", Type: RailRoad},
	}}
	g, err := NewGraph(d, nil)
	require.NoError(t, err)
	_, err = g.ShortestPath("a", "b")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestNewGraphUnknownNeighbour(t *testing.T) {
	d := Description{TrackParts: []TrackPart{{ID: "1", Name: "a", Type: RailRoad, ASide: []PartID{"9"}}}}
	_, err := NewGraph(d, nil)
	assert.ErrorIs(t, err, ErrUnknownPart)
}

func TestAliasesCollapseNodes(t *testing.T) {
	d := Description{TrackParts: []TrackPart{
		{ID: "1", Name: "Gate A", Type: RailRoad, ASide: []PartID{"2"}},
		{ID: "2", Name: "Gate B", Type: RailRoad, ASide: []PartID{"3"}},
		{ID: "3", Name: "Shed", Type: RailRoad},
	}}
	g, err := NewGraph(d, NewAliases(map[string]string{"Gate A": "entry", "Gate B": "entry"}))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Adjacent("entry", "shed"))
}

func TestShortestPath(t *testing.T) {
	g := chainGraph(t)
	p, err := g.ShortestPath("1", "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, p)

	p, err = g.ShortestPath("2", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, p)

	_, err = g.ShortestPath("1", "nowhere")
	var re *RouteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "nowhere", re.To)
}

func TestExpandMultiHopMove(t *testing.T) {
	e := NewExpander(chainGraph(t), nil)
	out, err := e.Expand([]string{"(MOVE_ASIDE train_x track_1 track_3)"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"(move_aside train_x track_1 track_2)",
		"(move_aside train_x track_2 track_3)",
	}, out)
}

func TestExpandAdjacentMoveUnchanged(t *testing.T) {
	e := NewExpander(chainGraph(t), nil)
	in := []string{"0: (move_bside train_x track_1 track_2) [1]\n", "(Assign driver_1)"}
	out, err := e.Expand(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"0: (move_bside train_x track_1 track_2) [1]", "(assign driver_1)"}, out)
}

func TestExpandIsEndpointPreservingAndAdjacent(t *testing.T) {
	d := Description{TrackParts: []TrackPart{
		{ID: "1", Name: "a", Type: RailRoad, ASide: []PartID{"2"}},
		{ID: "2", Name: "s1", Type: Switch, ASide: []PartID{"3", "4"}},
		{ID: "3", Name: "b", Type: RailRoad},
		{ID: "4", Name: "s2", Type: EnglishSwitch, ASide: []PartID{"5"}},
		{ID: "5", Name: "c", Type: RailRoad, ASide: []PartID{"3"}},
	}}
	g, err := NewGraph(d, nil)
	require.NoError(t, err)
	out, err := NewExpander(g, nil).Expand([]string{"(move_aside train_t track_a track_c)"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out), 2)

	var hops []plan.Move
	for i, l := range out {
		mv, err := plan.ParseMove(l, i+1)
		require.NoError(t, err)
		assert.Equal(t, plan.ASide, mv.Direction)
		assert.Equal(t, "train_t", mv.Train)
		assert.True(t, g.Adjacent(strings.TrimPrefix(mv.Origin, "track_"), strings.TrimPrefix(mv.Destination, "track_")))
		hops = append(hops, mv)
	}
	assert.Equal(t, "track_a", hops[0].Origin)
	assert.Equal(t, "track_c", hops[len(hops)-1].Destination)
	for i := 1; i < len(hops); i++ {
		assert.Equal(t, hops[i-1].Destination, hops[i].Origin)
	}
}

func TestExpandRouteNotFoundIsFatal(t *testing.T) {
	e := NewExpander(chainGraph(t), nil)
	out, err := e.Expand([]string{"(move_aside train_x track_1 track_2)", "(move_aside train_x track_1 track_bumper)"})
	assert.ErrorIs(t, err, ErrRouteNotFound)
	assert.Nil(t, out)
}

func TestExpandMalformedMove(t *testing.T) {
	e := NewExpander(chainGraph(t), nil)
	_, err := e.Expand([]string{"(move_aside train_x track_1)"})
	assert.ErrorIs(t, err, plan.ErrMalformedPlanLine)
}

func TestLoadDescriptionYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yard.yaml")
	data := "trackParts:\n  - id: 1\n    name: one\n    type: RailRoad\n    aSide: [2]\n  - id: 2\n    name: two\n    type: RailRoad\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	d, err := LoadDescription(path)
	require.NoError(t, err)
	require.Len(t, d.TrackParts, 2)
	assert.Equal(t, PartID("1"), d.TrackParts[0].ID)
	assert.Equal(t, []PartID{"2"}, d.TrackParts[0].ASide)

	_, err = LoadDescription(filepath.Join(t.TempDir(), "yard.toml"))
	assert.Error(t, err)
	_, err = DecodeDescription(strings.NewReader(""), "toml")
	assert.Error(t, err)
}
