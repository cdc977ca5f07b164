package searcher

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"othello/experiments/metrics"
	"othello/game"
)

// IterativeMinimax deepens the search one ply at a time until the deadline
// or maxDepth. Only depths that finished before the deadline count; depth 1
// always finishes, however small the budget.
type IterativeMinimax struct {
	maxDepth int
	settings
}

func NewIterativeMinimax(maxDepth int, options ...Option) *IterativeMinimax {
	if maxDepth < 1 {
		panic("minimax depth must be at least 1")
	}
	return &IterativeMinimax{maxDepth: maxDepth, settings: newSettings(options)}
}

func (m *IterativeMinimax) Decide(pos *game.Position, eval game.Evaluator, player game.Owner, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	moves := pos.Moves(player)
	if len(moves) == 0 {
		return game.Pass, metrics.SearchMetric{}, ErrNoLegalMoves
	}

	start := m.now()
	m.metrics.Start("IterativeMinimax", start)
	s := &search{eval: eval, player: player, deadline: start.Add(budget), now: m.now, metrics: m.metrics}

	var accepted []float64
	completed := 0
	for depth := 1; depth <= m.maxDepth; depth++ {
		if depth > 1 && s.expired() {
			break
		}
		scores := s.scoreMoves(pos, moves, depth)
		if depth > 1 && s.expired() {
			// Cut short somewhere below the root
			break
		}
		accepted, completed = scores, depth
	}
	if accepted == nil {
		panic("iterative deepening finished without a completed depth")
	}

	best := bestIndex(accepted)
	m.metrics.SetDepth(completed)
	metric := m.metrics.Complete(m.now())

	metric.Score = accepted[best]
	metric.Rationale = fmt.Sprintf("move %v scores %.2f, depth reached %d (%d nodes in %v)",
		moves[best], accepted[best], completed, metric.Nodes, metric.Duration)
	log.Debug().Msgf("%v: %s", player, metric.Rationale)
	return moves[best], metric, nil
}
