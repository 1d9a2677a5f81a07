package constraints

import "github.com/kilianp07/yardplan/core/plan"

// DefaultDuration is the provisional number of timesteps per movement.
const DefaultDuration = 3

// DurationFunc returns the duration of a movement in timesteps.
type DurationFunc func(plan.Movement) int

// ConstantDuration gives every movement the same duration.
func ConstantDuration(n int) DurationFunc {
	return func(plan.Movement) int { return n }
}

// Durations evaluates fn for every movement, indexed by movement id - 1.
// Negative values are clamped to zero.
func Durations(m *plan.Model, fn DurationFunc) []int {
	if fn == nil {
		fn = ConstantDuration(DefaultDuration)
	}
	out := make([]int, len(m.Movements()))
	for i, mv := range m.Movements() {
		if d := fn(mv); d > 0 {
			out[i] = d
		}
	}
	return out
}
