package plan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

type (
	TrackID    int
	TrainID    int
	MovementID int
)

// Track is a yard track referenced by the plan.
type Track struct {
	ID   TrackID
	Name string
	// Movements touching this track, in plan order.
	Movements []MovementID
}

// Train is a train referenced by the plan.
type Train struct {
	ID   TrainID
	Name string
	// Movements of this train, in plan order.
	Movements []MovementID
}

// Movement is one planned relocation between two tracks.
type Movement struct {
	ID          MovementID
	Train       TrainID
	Direction   Direction
	Origin      TrackID
	Destination TrackID
}

// Touches reports whether the movement starts or ends on track.
func (m Movement) Touches(track TrackID) bool {
	return m.Origin == track || m.Destination == track
}

// Model owns every track, train and movement of one run. Ids are 1-based and
// index the arenas directly.
type Model struct {
	tracks    []Track
	trains    []Train
	movements []Movement

	trackByName map[string]TrackID
	trainByName map[string]TrainID
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{trackByName: make(map[string]TrackID), trainByName: make(map[string]TrainID)}
}

// Parse reads plan text and builds a Model.
func Parse(r io.Reader) (*Model, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return ParseLines(lines)
}

type termLine struct {
	no   int
	term string
}

// ParseLines builds a Model from plan lines. Names are registered first, then
// movements are created in line order.
func ParseLines(lines []string) (*Model, error) {
	var terms []termLine
	for i, raw := range lines {
		if !IsRelevant(raw) {
			continue
		}
		line := Fold(raw)
		term, ok := ActionTerm(line)
		if !ok {
			return nil, malformed(i+1, line, "no parenthesized action term")
		}
		terms = append(terms, termLine{no: i + 1, term: term})
	}

	m := NewModel()
	for _, tl := range terms {
		for _, name := range trainRe.FindAllString(tl.term, -1) {
			m.addTrain(name)
		}
		for _, name := range trackRe.FindAllString(tl.term, -1) {
			m.addTrack(name)
		}
	}
	for _, tl := range terms {
		if !IsMove(tl.term) {
			continue
		}
		mv, err := ParseMove(tl.term, tl.no)
		if err != nil {
			return nil, err
		}
		if _, err := m.AddMovement(mv); err != nil {
			var le *LineError
			if errors.As(err, &le) {
				le.Line, le.Text = tl.no, tl.term
			}
			return nil, err
		}
	}
	return m, nil
}

func (m *Model) addTrain(name string) TrainID {
	if id, ok := m.trainByName[name]; ok {
		return id
	}
	id := TrainID(len(m.trains) + 1)
	m.trains = append(m.trains, Train{ID: id, Name: name})
	m.trainByName[name] = id
	return id
}

func (m *Model) addTrack(name string) TrackID {
	if id, ok := m.trackByName[name]; ok {
		return id
	}
	id := TrackID(len(m.tracks) + 1)
	m.tracks = append(m.tracks, Track{ID: id, Name: name})
	m.trackByName[name] = id
	return id
}

// AddMovement appends a movement built from registered names. The movement is
// recorded on its train and on both of its tracks.
func (m *Model) AddMovement(mv Move) (MovementID, error) {
	train, ok := m.trainByName[mv.Train]
	if !ok {
		return 0, &LineError{Kind: ErrUnknownTrain, Text: mv.String(), Msg: mv.Train}
	}
	origin, ok := m.trackByName[mv.Origin]
	if !ok {
		return 0, &LineError{Kind: ErrUnknownTrack, Text: mv.String(), Msg: mv.Origin}
	}
	dest, ok := m.trackByName[mv.Destination]
	if !ok {
		return 0, &LineError{Kind: ErrUnknownTrack, Text: mv.String(), Msg: mv.Destination}
	}
	if origin == dest {
		return 0, malformed(0, mv.String(), "origin equals destination %s", mv.Origin)
	}
	id := MovementID(len(m.movements) + 1)
	m.movements = append(m.movements, Movement{ID: id, Train: train, Direction: mv.Direction, Origin: origin, Destination: dest})
	m.trains[train-1].Movements = append(m.trains[train-1].Movements, id)
	m.tracks[origin-1].Movements = append(m.tracks[origin-1].Movements, id)
	m.tracks[dest-1].Movements = append(m.tracks[dest-1].Movements, id)
	return id, nil
}

// Tracks returns the tracks in id order. The slice must not be modified.
func (m *Model) Tracks() []Track { return m.tracks }

// Trains returns the trains in id order. The slice must not be modified.
func (m *Model) Trains() []Train { return m.trains }

// Movements returns the movements in id order. The slice must not be modified.
func (m *Model) Movements() []Movement { return m.movements }

func (m *Model) Track(id TrackID) (Track, bool) {
	if id < 1 || int(id) > len(m.tracks) {
		return Track{}, false
	}
	return m.tracks[id-1], true
}

func (m *Model) Train(id TrainID) (Train, bool) {
	if id < 1 || int(id) > len(m.trains) {
		return Train{}, false
	}
	return m.trains[id-1], true
}

func (m *Model) Movement(id MovementID) (Movement, bool) {
	if id < 1 || int(id) > len(m.movements) {
		return Movement{}, false
	}
	return m.movements[id-1], true
}

// TrackByName looks a track up by its full token, e.g. "track_1".
func (m *Model) TrackByName(name string) (Track, bool) {
	id, ok := m.trackByName[name]
	if !ok {
		return Track{}, false
	}
	return m.tracks[id-1], true
}

// TrainByName looks a train up by its full token, e.g. "train_a".
func (m *Model) TrainByName(name string) (Train, bool) {
	id, ok := m.trainByName[name]
	if !ok {
		return Train{}, false
	}
	return m.trains[id-1], true
}

// Stats is a summary used for logging and metrics.
func (m *Model) Stats() map[string]any {
	return map[string]any{
		"tracks":    len(m.tracks),
		"trains":    len(m.trains),
		"movements": len(m.movements),
	}
}
