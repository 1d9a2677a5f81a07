package schedule

import (
	"github.com/kilianp07/yardplan/core/logger"
	"github.com/kilianp07/yardplan/core/plan"
	"github.com/kilianp07/yardplan/core/solver"
)

// DriverLog is the event log of one driver, one entry per timestep. Entries
// are empty when nothing happens.
type DriverLog struct {
	Driver int      `json:"driver"`
	Events []string `json:"events"`
}

// Schedule is a decoded timetable.
type Schedule struct {
	Timesteps int `json:"timesteps"`
	// TrainNames is indexed by train id - 1.
	TrainNames []string `json:"train_names"`
	// TrainGrid[train-1][t] is the action occupying the train, 0 when idle.
	TrainGrid [][]int `json:"train_grid"`
	// DriverGrid[driver-1][t] tags what the driver does.
	DriverGrid [][]Cell    `json:"driver_grid"`
	Logs       []DriverLog `json:"logs"`
}

// Decoder turns solver results into schedules for one model.
type Decoder struct {
	model *plan.Model
	log   logger.Logger
}

// NewDecoder returns a Decoder bound to m.
func NewDecoder(m *plan.Model, log logger.Logger) *Decoder {
	return &Decoder{model: m, log: logger.OrNop(log)}
}

// Decode builds the train and driver grids and the driver logs. Scheduled
// action i (1-based) is movement i of the model. Any contradiction in the
// result aborts decoding; no partial schedule is returned.
func (d *Decoder) Decode(res solver.Result) (*Schedule, error) {
	if err := res.Validate(); err != nil {
		return nil, inconsistent(0, -1, "%v", err)
	}
	numDrivers, horizon, err := d.check(res)
	if err != nil {
		return nil, err
	}
	numTrains := len(d.model.Trains())
	steps := 0
	if res.Len() > 0 {
		steps = horizon + 1
	}

	trainGrid := grid(numTrains, steps)
	driverTrain := grid(numDrivers, steps)
	driverAction := grid(numDrivers, steps)
	for i := 0; i < res.Len(); i++ {
		a, k, dr := i+1, res.TrainID[i]-1, res.DriverID[i]-1
		for t := res.StartTime[i]; t < res.StartTime[i]+res.Duration[i]; t++ {
			if prev := trainGrid[k][t]; prev != 0 {
				return nil, inconsistent(dr+1, t, "train %s scheduled for actions %d and %d", d.trainName(k+1), prev, a)
			}
			if prev := driverAction[dr][t]; prev != 0 {
				return nil, inconsistent(dr+1, t, "driver assigned to actions %d and %d", prev, a)
			}
			trainGrid[k][t] = a
			driverTrain[dr][t] = k + 1
			driverAction[dr][t] = a
		}
	}

	for dr := range driverTrain {
		for t, k := range driverTrain[dr] {
			if k == 0 {
				continue
			}
			a := trainGrid[k-1][t]
			if a == 0 {
				return nil, inconsistent(dr+1, t, "train %s idle in its own row", d.trainName(k))
			}
			if res.DriverID[a-1] != dr+1 {
				return nil, inconsistent(dr+1, t, "train %s runs action %d of driver %d", d.trainName(k), a, res.DriverID[a-1])
			}
		}
	}

	s := &Schedule{
		Timesteps:  steps,
		TrainNames: make([]string, numTrains),
		TrainGrid:  trainGrid,
		DriverGrid: make([][]Cell, numDrivers),
		Logs:       make([]DriverLog, numDrivers),
	}
	for i := range s.TrainNames {
		s.TrainNames[i] = d.trainName(i + 1)
	}
	for dr := 0; dr < numDrivers; dr++ {
		s.DriverGrid[dr] = refine(driverTrain[dr], driverAction[dr])
		s.Logs[dr] = DriverLog{Driver: dr + 1, Events: d.events(s.DriverGrid[dr])}
	}
	d.log.Infow("schedule decoded", map[string]any{"actions": res.Len(), "drivers": numDrivers, "timesteps": steps})
	return s, nil
}

// check validates every scheduled action against the model and returns the
// driver count and the last occupied timestep + 1.
func (d *Decoder) check(res solver.Result) (numDrivers, horizon int, err error) {
	for i := 0; i < res.Len(); i++ {
		a := i + 1
		if res.StartTime[i] < 0 || res.Duration[i] < 0 {
			return 0, 0, inconsistent(0, -1, "action %d has negative start or duration", a)
		}
		if res.DriverID[i] < 1 {
			return 0, 0, inconsistent(0, -1, "action %d has driver id %d", a, res.DriverID[i])
		}
		mv, ok := d.model.Movement(plan.MovementID(a))
		if !ok {
			return 0, 0, inconsistent(0, -1, "action %d has no movement", a)
		}
		if int(mv.Train) != res.TrainID[i] {
			return 0, 0, inconsistent(0, -1, "action %d scheduled on train %d, movement belongs to train %d", a, res.TrainID[i], mv.Train)
		}
		numDrivers = max(numDrivers, res.DriverID[i])
		horizon = max(horizon, res.StartTime[i]+res.Duration[i])
	}
	return numDrivers, horizon, nil
}

func (d *Decoder) events(cells []Cell) []string {
	out := make([]string, len(cells))
	for t, c := range cells {
		switch c.Kind {
		case EnterTrain:
			out[t] = "enter train " + d.trainName(int(c.Train))
		case ExitTrain:
			out[t] = "exit train " + d.trainName(int(c.Train))
		case ChangeDirection:
			out[t] = "change direction " + d.trainName(int(c.Train))
		case Driving:
			if t > 0 && cells[t-1].Kind == Driving && cells[t-1].Action == c.Action {
				out[t] = "driving"
				continue
			}
			mv, _ := d.model.Movement(plan.MovementID(c.Action))
			origin, _ := d.model.Track(mv.Origin)
			dest, _ := d.model.Track(mv.Destination)
			out[t] = "drive " + d.trainName(int(c.Train)) + ": " + origin.Name + "→" + dest.Name
		}
	}
	return out
}

func (d *Decoder) trainName(id int) string {
	tr, ok := d.model.Train(plan.TrainID(id))
	if !ok {
		return "?"
	}
	return tr.Name
}

func grid(rows, cols int) [][]int {
	g := make([][]int, rows)
	for i := range g {
		g[i] = make([]int, cols)
	}
	return g
}
