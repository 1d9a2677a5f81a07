// Package plan turns line-oriented planner output into a MovementModel.
//
// Every relevant line holds one parenthesized action term such as
// "(move_aside train_a track_1 track_2)". Tracks and trains are registered in
// first-seen order, then movements are built in file order. That file order is
// the controlling order for every adjacency-based derivation downstream; it is
// not wall-clock time.
//
// Tracks, trains and movements live in arenas owned by the Model and refer to
// each other by integer id.
package plan
