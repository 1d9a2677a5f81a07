// Package export renders decoded schedules: per-driver text logs, CSV
// occupancy grids and a JSON dump.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kilianp07/yardplan/core/schedule"
)

// Report is what outputs receive.
type Report struct {
	Schedule *schedule.Schedule
	Clock    schedule.Clock
}

// Output persists a Report somewhere.
type Output interface {
	Write(ctx context.Context, r Report) error
}

// WriteDriverLog writes one line per timestep prefixed with its clock label.
func WriteDriverLog(w io.Writer, log schedule.DriverLog, clock schedule.Clock) error {
	for t, ev := range log.Events {
		line := clock.Label(t)
		if ev != "" {
			line += " " + ev
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func header(first string, s *schedule.Schedule, clock schedule.Clock) []string {
	h := make([]string, 0, s.Timesteps+1)
	h = append(h, first)
	for t := 0; t < s.Timesteps; t++ {
		h = append(h, clock.Label(t))
	}
	return h
}

// WriteTrainCSV writes the train grid: one row per train, one column per
// timestep, holding the action id or nothing when idle.
func WriteTrainCSV(w io.Writer, s *schedule.Schedule, clock schedule.Clock) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header("train", s, clock)); err != nil {
		return err
	}
	for i, row := range s.TrainGrid {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, s.TrainNames[i])
		for _, a := range row {
			if a == 0 {
				rec = append(rec, "")
			} else {
				rec = append(rec, strconv.Itoa(a))
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDriverCSV writes the driver grid with "<kind> <train>" cells.
func WriteDriverCSV(w io.Writer, s *schedule.Schedule, clock schedule.Clock) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header("driver", s, clock)); err != nil {
		return err
	}
	for i, row := range s.DriverGrid {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, "driver_"+strconv.Itoa(i+1))
		for _, c := range row {
			rec = append(rec, cellLabel(s, c))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellLabel(s *schedule.Schedule, c schedule.Cell) string {
	if c.Kind == schedule.Idle {
		return ""
	}
	name := "?"
	if i := int(c.Train) - 1; i >= 0 && i < len(s.TrainNames) {
		name = s.TrainNames[i]
	}
	if c.Kind == schedule.Driving {
		return fmt.Sprintf("%s %s #%d", c.Kind, name, c.Action)
	}
	return c.Kind.String() + " " + name
}

// TextOutput writes driver_<n>.txt files into Dir.
type TextOutput struct {
	Dir string
}

func (o TextOutput) Write(ctx context.Context, r Report) error {
	for _, log := range r.Schedule.Logs {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(o.Dir, fmt.Sprintf("driver_%d.txt", log.Driver))
		if err := writeFile(path, func(w io.Writer) error { return WriteDriverLog(w, log, r.Clock) }); err != nil {
			return err
		}
	}
	return nil
}

// CSVOutput writes trains.csv and drivers.csv into Dir.
type CSVOutput struct {
	Dir string
}

func (o CSVOutput) Write(ctx context.Context, r Report) error {
	if err := writeFile(filepath.Join(o.Dir, "trains.csv"), func(w io.Writer) error {
		return WriteTrainCSV(w, r.Schedule, r.Clock)
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeFile(filepath.Join(o.Dir, "drivers.csv"), func(w io.Writer) error {
		return WriteDriverCSV(w, r.Schedule, r.Clock)
	})
}

// JSONOutput dumps the whole schedule to Path.
type JSONOutput struct {
	Path string
}

func (o JSONOutput) Write(_ context.Context, r Report) error {
	return writeFile(o.Path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Schedule)
	})
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
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
	return fn(f)
}
