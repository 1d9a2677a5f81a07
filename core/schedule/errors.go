package schedule

import (
	"errors"
	"fmt"
)

var ErrInconsistentTimetable = errors.New("inconsistent timetable")

// InconsistentError pinpoints where a solved timetable contradicts itself.
type InconsistentError struct {
	// Driver is 1-based; zero when the problem is not tied to a driver.
	Driver int
	// Timestep is -1 when the problem is not tied to a timestep.
	Timestep int
	Msg      string
}

func (e *InconsistentError) Error() string {
	switch {
	case e.Driver > 0 && e.Timestep >= 0:
		return fmt.Sprintf("%s: driver %d at t=%d: %s", ErrInconsistentTimetable, e.Driver, e.Timestep, e.Msg)
	case e.Timestep >= 0:
		return fmt.Sprintf("%s: t=%d: %s", ErrInconsistentTimetable, e.Timestep, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", ErrInconsistentTimetable, e.Msg)
	}
}

func (e *InconsistentError) Unwrap() error { return ErrInconsistentTimetable }

func inconsistent(driver, t int, format string, args ...any) error {
	return &InconsistentError{Driver: driver, Timestep: t, Msg: fmt.Sprintf(format, args...)}
}
