package constraints

import (
	"github.com/kilianp07/yardplan/core/logger"
	"github.com/kilianp07/yardplan/core/plan"
)

// Options tunes derivation.
type Options struct {
	// TurnsIncluded is set when the plan already contains explicit turn
	// actions. Direction reversals then become plain precedence.
	TurnsIncluded bool
}

// Deriver computes the constraint relations of a MovementModel.
type Deriver struct {
	opts Options
	log  logger.Logger
}

// NewDeriver returns a Deriver.
func NewDeriver(opts Options, log logger.Logger) *Deriver {
	return &Deriver{opts: opts, log: logger.OrNop(log)}
}

// Derive scans train adjacency, then track adjacency, then every pair of
// movements. Later passes consult what earlier passes recorded, so the order
// of the passes is significant. The result only depends on the model.
func (d *Deriver) Derive(m *plan.Model) *Set {
	s := NewSet()
	d.trainPass(m, s)
	d.trackPass(m, s)
	d.overlapPass(m, s)
	d.log.Infow("constraints derived", map[string]any{
		"precedence":  s.Len(Precedence),
		"turn":        s.Len(Turn),
		"start_order": s.Len(StartOrder),
		"non_overlap": s.Len(NonOverlap),
	})
	return s
}

// Every consecutive pair of a train's movements is either a precedence (same
// heading) or a turn (reversal).
func (d *Deriver) trainPass(m *plan.Model, s *Set) {
	for _, tr := range m.Trains() {
		for i := 0; i+1 < len(tr.Movements); i++ {
			a, _ := m.Movement(tr.Movements[i])
			b, _ := m.Movement(tr.Movements[i+1])
			if a.Direction == b.Direction || d.opts.TurnsIncluded {
				s.Add(Precedence, a.ID, b.ID)
			} else {
				s.Add(Turn, a.ID, b.ID)
			}
		}
	}
}

// Consecutive movements on a track: a reversal that ends where the previous
// movement started or ended continues it and is a precedence; two movements
// leaving the same track with the same heading are start-ordered.
func (d *Deriver) trackPass(m *plan.Model, s *Set) {
	for _, tr := range m.Tracks() {
		for i := 0; i+1 < len(tr.Movements); i++ {
			a, _ := m.Movement(tr.Movements[i])
			b, _ := m.Movement(tr.Movements[i+1])
			if a.ID == b.ID {
				continue
			}
			if a.Touches(b.Destination) && a.Direction != b.Direction {
				if !s.Ordered(a.ID, b.ID) {
					s.Add(Precedence, a.ID, b.ID)
				}
				continue
			}
			if s.Ordered(a.ID, b.ID) {
				continue
			}
			if a.Direction == b.Direction && a.Origin == b.Origin {
				s.Add(StartOrder, a.ID, b.ID)
			}
		}
	}
}

// Any later movement ending on an endpoint of an earlier one, with the
// opposite heading, must not overlap it unless the pair is already ordered.
func (d *Deriver) overlapPass(m *plan.Model, s *Set) {
	mvs := m.Movements()
	for i := 0; i < len(mvs); i++ {
		for j := i + 1; j < len(mvs); j++ {
			a, b := mvs[i], mvs[j]
			if !a.Touches(b.Destination) || a.Direction == b.Direction {
				continue
			}
			if s.Ordered(a.ID, b.ID) {
				continue
			}
			s.Add(NonOverlap, a.ID, b.ID)
		}
	}
}
