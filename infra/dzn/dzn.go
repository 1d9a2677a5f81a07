// Package dzn writes the constraint model as a MiniZinc data file.
package dzn

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/yardplan/core/constraints"
	"github.com/kilianp07/yardplan/core/plan"
)

// Data is everything the solver model reads. Relation pairs are written in the
// order given.
type Data struct {
	NumTrains  int
	NumDrivers int
	// NumTimesteps is the planning horizon.
	NumTimesteps int
	// Durations and ActionTrain are indexed by movement id - 1.
	Durations   []int
	ActionTrain []int
	// TrainActions has one row per train listing its movement ids
	// right-aligned in reverse plan order, zero padded.
	TrainActions [][]int
	Relations    map[constraints.Kind][]constraints.Pair
}

// FromModel assembles Data from a parsed model and its derived relations.
// The horizon is horizonFactor times the sum of durations.
func FromModel(m *plan.Model, set *constraints.Set, durations []int, numDrivers, horizonFactor int) Data {
	d := Data{
		NumTrains:   len(m.Trains()),
		NumDrivers:  numDrivers,
		Durations:   durations,
		ActionTrain: make([]int, len(m.Movements())),
		Relations:   make(map[constraints.Kind][]constraints.Pair, len(constraints.Kinds)),
	}
	total := 0
	for _, v := range durations {
		total += v
	}
	d.NumTimesteps = horizonFactor * total
	for i, mv := range m.Movements() {
		d.ActionTrain[i] = int(mv.Train)
	}
	width := 1
	for _, tr := range m.Trains() {
		if len(tr.Movements)+1 > width {
			width = len(tr.Movements) + 1
		}
	}
	for _, tr := range m.Trains() {
		row := make([]int, width)
		for j, id := range tr.Movements {
			row[width-1-j] = int(id)
		}
		d.TrainActions = append(d.TrainActions, row)
	}
	for _, k := range constraints.Kinds {
		d.Relations[k] = set.Pairs(k)
	}
	return d
}

// Encode writes d in dzn syntax.
func Encode(w io.Writer, d Data) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "NUM_TRAINS = %d;\n", d.NumTrains)
	fmt.Fprintf(bw, "NUM_TIMESTEPS = %d;\n", d.NumTimesteps)
	fmt.Fprintf(bw, "NUM_ACTIONS = %d;\n", len(d.Durations))
	fmt.Fprintf(bw, "NUM_DRIVERS = %d;\n\n", d.NumDrivers)
	fmt.Fprintf(bw, "action_durations = %s;\n", array(d.Durations))
	fmt.Fprintf(bw, "action_train = %s;\n", array(d.ActionTrain))
	for _, k := range constraints.Kinds {
		ps := d.Relations[k]
		earlier := make([]int, len(ps))
		later := make([]int, len(ps))
		for i, p := range ps {
			earlier[i], later[i] = int(p.Earlier), int(p.Later)
		}
		name := k.String()
		fmt.Fprintf(bw, "\n%s_PAIRS = %d;\n", strings.ToUpper(name), len(ps))
		fmt.Fprintf(bw, "%s_earlier = %s;\n", name, array(earlier))
		fmt.Fprintf(bw, "%s_later = %s;\n", name, array(later))
	}
	width := 0
	if len(d.TrainActions) > 0 {
		width = len(d.TrainActions[0])
	}
	fmt.Fprintf(bw, "\nSCHEDULED_ACTIONS_PER_TRAIN = %d;\n", width)
	fmt.Fprintf(bw, "train_actions = %s;\n", array2d(d.TrainActions))
	return bw.Flush()
}

// WriteFile replaces the data file at path.
func WriteFile(path string, d Data) (err error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove old model: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, d)
}

func join(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func array(vs []int) string {
	return "[" + join(vs) + "]"
}

func array2d(rows [][]int) string {
	if len(rows) == 0 {
		return "[||]"
	}
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = join(r)
	}
	return "[|" + strings.Join(parts, "\n |") + "|]"
}
