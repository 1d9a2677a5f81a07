package schedule

import (
	"fmt"
	"time"
)

// Clock maps timesteps to wall-clock labels.
type Clock struct {
	Start time.Duration
	Step  time.Duration
}

// ParseClock builds a Clock from an "HH:MM" start and a step in minutes.
func ParseClock(start string, stepMinutes int) (Clock, error) {
	if stepMinutes <= 0 {
		return Clock{}, fmt.Errorf("timestep must be positive, got %d", stepMinutes)
	}
	c := Clock{Step: time.Duration(stepMinutes) * time.Minute}
	if start == "" {
		return c, nil
	}
	t, err := time.Parse("15:04", start)
	if err != nil {
		return Clock{}, fmt.Errorf("start clock %q: %w", start, err)
	}
	c.Start = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	return c, nil
}

// Label formats timestep t as HH:MM, wrapping at midnight.
func (c Clock) Label(t int) string {
	d := (c.Start + time.Duration(t)*c.Step) % (24 * time.Hour)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
