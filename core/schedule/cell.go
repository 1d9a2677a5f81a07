package schedule

import (
	"fmt"

	"github.com/kilianp07/yardplan/core/plan"
)

// CellKind tells what a driver is doing during one timestep.
type CellKind int

const (
	Idle CellKind = iota
	EnterTrain
	ExitTrain
	ChangeDirection
	Driving
)

func (k CellKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case EnterTrain:
		return "enter"
	case ExitTrain:
		return "exit"
	case ChangeDirection:
		return "change_direction"
	case Driving:
		return "driving"
	default:
		return fmt.Sprintf("cellkind(%d)", int(k))
	}
}

// Cell is one driver timestep. Train is set for every kind but Idle; Action
// is set only for Driving.
type Cell struct {
	Kind   CellKind     `json:"kind"`
	Train  plan.TrainID `json:"train,omitempty"`
	Action int          `json:"action,omitempty"`
}

// refine tags one driver row. trains holds the train id per timestep (0 when
// idle) and actions the matching action id.
//
// Idle runs are tagged from their neighbours: the same train on both sides
// marks a direction change on the first idle cell; otherwise the first idle
// cell after a train is an exit and the last idle cell before a train is an
// enter. A single idle cell between two different trains is an exit.
func refine(trains, actions []int) []Cell {
	n := len(trains)
	cells := make([]Cell, n)
	for t := 0; t < n; {
		if trains[t] != 0 {
			cells[t] = Cell{Kind: Driving, Train: plan.TrainID(trains[t]), Action: actions[t]}
			t++
			continue
		}
		s := t
		for t < n && trains[t] == 0 {
			t++
		}
		e := t - 1
		left, right := 0, 0
		if s > 0 {
			left = trains[s-1]
		}
		if t < n {
			right = trains[t]
		}
		if left != 0 && left == right {
			cells[s] = Cell{Kind: ChangeDirection, Train: plan.TrainID(left)}
			continue
		}
		if left != 0 {
			cells[s] = Cell{Kind: ExitTrain, Train: plan.TrainID(left)}
		}
		if right != 0 && (left == 0 || e > s) {
			cells[e] = Cell{Kind: EnterTrain, Train: plan.TrainID(right)}
		}
	}
	return cells
}
