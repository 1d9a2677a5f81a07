// Package solver defines the boundary to the external timetabling solver.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInfeasible      = errors.New("solver: model infeasible")
	ErrTimeout         = errors.New("solver: timed out without solution")
	ErrNoSolution      = errors.New("solver: no solution")
	ErrMalformedOutput = errors.New("solver: malformed output")
)

// Request describes one solver invocation.
type Request struct {
	// DataPath is the data file produced by the model exporter.
	DataPath string
	// Solver names the backend, e.g. "chuffed".
	Solver  string
	Timeout time.Duration
}

// Result is a solved timetable: four arrays aligned by scheduled action.
type Result struct {
	StartTime []int `json:"start_time"`
	Duration  []int `json:"duration"`
	TrainID   []int `json:"train_id"`
	DriverID  []int `json:"driver_id"`
}

// Len returns the number of scheduled actions.
func (r Result) Len() int { return len(r.StartTime) }

// Validate checks that the four arrays are aligned.
func (r Result) Validate() error {
	n := len(r.StartTime)
	if len(r.Duration) != n || len(r.TrainID) != n || len(r.DriverID) != n {
		return fmt.Errorf("%w: array lengths %d/%d/%d/%d", ErrMalformedOutput,
			len(r.StartTime), len(r.Duration), len(r.TrainID), len(r.DriverID))
	}
	return nil
}

// Solver runs the external solver synchronously. Implementations must honour
// ctx cancellation and never return a partial Result alongside an error.
type Solver interface {
	Solve(ctx context.Context, req Request) (Result, error)
}
