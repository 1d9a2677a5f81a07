package constraints

import (
	"fmt"
	"sort"

	"github.com/kilianp07/yardplan/core/plan"
)

// Kind is a relation kind.
type Kind int

const (
	Precedence Kind = iota
	Turn
	StartOrder
	NonOverlap
)

// Kinds lists every relation kind in export order.
var Kinds = []Kind{Precedence, Turn, StartOrder, NonOverlap}

func (k Kind) String() string {
	switch k {
	case Precedence:
		return "precedence"
	case Turn:
		return "turn"
	case StartOrder:
		return "start_order"
	case NonOverlap:
		return "non_overlap"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Pair is an ordered pair of movements.
type Pair struct {
	Earlier plan.MovementID
	Later   plan.MovementID
}

// Set holds the four relations, each deduplicated on (earlier, later).
type Set struct {
	rel map[Kind]map[Pair]struct{}
}

// NewSet returns an empty Set.
func NewSet() *Set {
	s := &Set{rel: make(map[Kind]map[Pair]struct{}, len(Kinds))}
	for _, k := range Kinds {
		s.rel[k] = make(map[Pair]struct{})
	}
	return s
}

// Add records a pair. Self pairs are rejected.
func (s *Set) Add(k Kind, earlier, later plan.MovementID) bool {
	if earlier == later {
		return false
	}
	rel, ok := s.rel[k]
	if !ok {
		return false
	}
	p := Pair{Earlier: earlier, Later: later}
	if _, dup := rel[p]; dup {
		return false
	}
	rel[p] = struct{}{}
	return true
}

// Has reports whether the pair is recorded under k.
func (s *Set) Has(k Kind, earlier, later plan.MovementID) bool {
	_, ok := s.rel[k][Pair{Earlier: earlier, Later: later}]
	return ok
}

// Ordered reports whether the pair is already a precedence or a turn.
func (s *Set) Ordered(earlier, later plan.MovementID) bool {
	return s.Has(Precedence, earlier, later) || s.Has(Turn, earlier, later)
}

// Len returns the number of pairs under k.
func (s *Set) Len(k Kind) int { return len(s.rel[k]) }

// Pairs returns the pairs under k sorted by (earlier, later).
func (s *Set) Pairs(k Kind) []Pair {
	out := make([]Pair, 0, len(s.rel[k]))
	for p := range s.rel[k] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Earlier != out[j].Earlier {
			return out[i].Earlier < out[j].Earlier
		}
		return out[i].Later < out[j].Later
	})
	return out
}

// Counts returns the size of every relation keyed by kind name.
func (s *Set) Counts() map[string]int {
	out := make(map[string]int, len(Kinds))
	for _, k := range Kinds {
		out[k.String()] = s.Len(k)
	}
	return out
}
