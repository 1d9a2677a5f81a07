// Package schedule decodes a solved timetable into occupancy grids and
// per-driver event logs.
//
// A scheduled action occupies the timesteps [start, start+duration). The grid
// horizon is one step past the last occupied timestep so that a final exit
// can be shown. Driver cells are tagged explicitly: idle, entering a train,
// exiting a train, changing direction, or driving an action.
package schedule
