package plan

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTrack      = errors.New("unknown track")
	ErrUnknownTrain      = errors.New("unknown train")
	ErrMalformedPlanLine = errors.New("malformed plan line")
)

// LineError reports a failure tied to one plan line.
type LineError struct {
	Kind error
	// Line is 1-based; zero when the line number is not known.
	Line int
	Text string
	Msg  string
}

func (e *LineError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d: %q)", msg, e.Line, e.Text)
	}
	return fmt.Sprintf("%s (%q)", msg, e.Text)
}

func (e *LineError) Unwrap() error { return e.Kind }

func malformed(line int, text, format string, args ...any) error {
	return &LineError{Kind: ErrMalformedPlanLine, Line: line, Text: text, Msg: fmt.Sprintf(format, args...)}
}
