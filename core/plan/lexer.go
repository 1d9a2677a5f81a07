package plan

import (
	"regexp"
	"strings"
)

// Direction is the side a train leaves towards.
type Direction int

const (
	ASide Direction = iota
	BSide
)

func (d Direction) String() string {
	if d == ASide {
		return "aside"
	}
	return "bside"
}

const (
	TrainPrefix = "train_"
	TrackPrefix = "track_"
)

var (
	actionTermRe = regexp.MustCompile(`\(.*\)`)
	trainRe      = regexp.MustCompile(`train_\w+`)
	trackRe      = regexp.MustCompile(`track_\w+`)
)

// Move is the lexical content of a move action line.
type Move struct {
	Direction   Direction
	Train       string
	Origin      string
	Destination string
}

// String renders the move as a plan line.
func (m Move) String() string {
	return "(move_" + m.Direction.String() + " " + m.Train + " " + m.Origin + " " + m.Destination + ")"
}

// Fold case-folds a line and strips trailing line terminators.
func Fold(line string) string {
	return strings.ToLower(strings.TrimRight(line, "\r\n"))
}

// IsRelevant reports whether a line mentions a track, train or driver.
func IsRelevant(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "track") || strings.Contains(l, "train") || strings.Contains(l, "driver")
}

// IsMove reports whether a line is a move action.
func IsMove(line string) bool {
	return strings.Contains(strings.ToLower(line), "move")
}

// ActionTerm returns the content of the parenthesized action term.
func ActionTerm(line string) (string, bool) {
	term := actionTermRe.FindString(line)
	if term == "" {
		return "", false
	}
	return term[1 : len(term)-1], true
}

// ParseMove extracts direction, train and the two tracks from a move line.
// The line must already be case-folded. lineNo is only used for errors.
func ParseMove(line string, lineNo int) (Move, error) {
	dir := BSide
	if strings.Contains(line, "aside") {
		dir = ASide
	}
	trains := trainRe.FindAllString(line, -1)
	if len(trains) == 0 {
		return Move{}, malformed(lineNo, line, "no %s token", TrainPrefix)
	}
	tracks := trackRe.FindAllString(line, -1)
	if len(tracks) != 2 {
		return Move{}, malformed(lineNo, line, "expected 2 %s tokens, got %d", TrackPrefix, len(tracks))
	}
	return Move{Direction: dir, Train: trains[0], Origin: tracks[0], Destination: tracks[1]}, nil
}
