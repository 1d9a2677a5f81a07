package yard

import (
	"errors"
	"fmt"
)

var (
	ErrRouteNotFound = errors.New("route not found")
	ErrUnknownPart   = errors.New("unknown yard part")
)

// RouteError reports a move whose endpoints are not connected in the yard.
type RouteError struct {
	From string
	To   string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrRouteNotFound, e.From, e.To)
}

func (e *RouteError) Unwrap() error { return ErrRouteNotFound }
