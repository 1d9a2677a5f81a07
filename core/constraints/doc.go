// Package constraints derives the ordering relations between movements that
// the timetabling solver has to respect.
//
// Four relations are produced:
//
//   - precedence: the earlier movement completes before the later starts.
//   - turn: same train, direction reversal; a pause separates the two.
//   - start-order: the later movement does not start before the earlier.
//   - non-overlap: the two movements never run at the same time.
//
// Train adjacency is the primary source (precedence or turn), track
// adjacency refines it (precedence continuation or start-order), and a global
// endpoint scan adds non-overlap for pairs not already ordered.
package constraints
