package yard

import (
	"strings"

	"github.com/kilianp07/yardplan/core/logger"
	"github.com/kilianp07/yardplan/core/plan"
)

// Expander rewrites multi-hop moves into chains of one-hop moves.
type Expander struct {
	graph *Graph
	log   logger.Logger
}

// NewExpander returns an Expander over graph.
func NewExpander(graph *Graph, log logger.Logger) *Expander {
	return &Expander{graph: graph, log: logger.OrNop(log)}
}

// Expand returns the expanded plan. Lines are case-folded; non-move lines pass
// through. A move whose endpoints are adjacent is kept as is, any other move
// is replaced by one move per consecutive pair of nodes on the shortest path,
// with the same direction and train. The whole call fails on the first move
// without a route.
func (e *Expander) Expand(lines []string) ([]string, error) {
	out := make([]string, 0, len(lines))
	expanded := 0
	for i, raw := range lines {
		line := plan.Fold(raw)
		if !plan.IsMove(line) {
			out = append(out, line)
			continue
		}
		mv, err := plan.ParseMove(line, i+1)
		if err != nil {
			return nil, err
		}
		from := strings.TrimPrefix(mv.Origin, plan.TrackPrefix)
		to := strings.TrimPrefix(mv.Destination, plan.TrackPrefix)
		route, err := e.graph.ShortestPath(from, to)
		if err != nil {
			return nil, err
		}
		if len(route) <= 2 {
			out = append(out, line)
			continue
		}
		expanded++
		e.log.Debugw("expanding move", map[string]any{"line": i + 1, "train": mv.Train, "route": route})
		for j := 0; j+1 < len(route); j++ {
			hop := plan.Move{
				Direction:   mv.Direction,
				Train:       mv.Train,
				Origin:      plan.TrackPrefix + strings.ToLower(route[j]),
				Destination: plan.TrackPrefix + strings.ToLower(route[j+1]),
			}
			out = append(out, hop.String())
		}
	}
	e.log.Infow("plan expanded", map[string]any{"lines_in": len(lines), "lines_out": len(out), "moves_expanded": expanded})
	return out, nil
}
