package searcher

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"othello/experiments/metrics"
	"othello/game"
)

// search is the alpha-beta core shared by the minimax deciders. Scores are
// always from player's point of view: player maximises, the opponent
// minimises.
type search struct {
	eval     game.Evaluator
	player   game.Owner
	deadline time.Time
	now      func() time.Time
	metrics  metrics.Collector
}

func (s *search) expired() bool {
	return !s.now().Before(s.deadline)
}

// scoreMoves scores every root move at depth, each with a full window
func (s *search) scoreMoves(pos *game.Position, moves []game.Move, depth int) []float64 {
	scores := make([]float64, len(moves))
	for i, move := range moves {
		scores[i] = s.minScore(play(pos, s.player, move), depth-1, math.Inf(-1), math.Inf(1))
		s.metrics.AddNode()
	}
	return scores
}

func (s *search) maxScore(pos *game.Position, depth int, alpha, beta float64) float64 {
	if depth == 0 || pos.IsTerminal() || s.expired() {
		return s.eval.Evaluate(pos, s.player)
	}

	moves := pos.Moves(s.player)
	if len(moves) == 0 {
		s.metrics.AddNode()
		return s.minScore(play(pos, s.player, game.Pass), depth-1, alpha, beta)
	}

	best := math.Inf(-1)
	for _, move := range moves {
		score := s.minScore(play(pos, s.player, move), depth-1, alpha, beta)
		s.metrics.AddNode()
		best = max(best, score)
		alpha = max(alpha, score)
		if beta <= alpha {
			return best
		}
	}
	return best
}

func (s *search) minScore(pos *game.Position, depth int, alpha, beta float64) float64 {
	if depth == 0 || pos.IsTerminal() || s.expired() {
		return s.eval.Evaluate(pos, s.player)
	}

	opponent := s.player.Opponent()
	moves := pos.Moves(opponent)
	if len(moves) == 0 {
		s.metrics.AddNode()
		return s.maxScore(play(pos, opponent, game.Pass), depth-1, alpha, beta)
	}

	worst := math.Inf(1)
	for _, move := range moves {
		score := s.maxScore(play(pos, opponent, move), depth-1, alpha, beta)
		s.metrics.AddNode()
		worst = min(worst, score)
		beta = min(beta, score)
		if beta <= alpha {
			return worst
		}
	}
	return worst
}

// bestIndex returns the first maximal score
func bestIndex(scores []float64) int {
	best := -1
	for i, score := range scores {
		if best < 0 || score > scores[best] {
			best = i
		}
	}
	return best
}

// FixedMinimax searches every move to a fixed depth with alpha-beta pruning.
// Branches still open at the deadline are cut off with a static evaluation.
type FixedMinimax struct {
	depth int
	settings
}

func NewFixedMinimax(depth int, options ...Option) *FixedMinimax {
	if depth < 1 {
		panic("minimax depth must be at least 1")
	}
	return &FixedMinimax{depth: depth, settings: newSettings(options)}
}

func (m *FixedMinimax) Depth() int {
	return m.depth
}

func (m *FixedMinimax) Decide(pos *game.Position, eval game.Evaluator, player game.Owner, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	moves := pos.Moves(player)
	if len(moves) == 0 {
		return game.Pass, metrics.SearchMetric{}, ErrNoLegalMoves
	}

	start := m.now()
	m.metrics.Start("FixedMinimax", start)
	move, score := m.choose(pos, moves, eval, player, start.Add(budget))
	m.metrics.SetDepth(m.depth)
	metric := m.metrics.Complete(m.now())

	metric.Score = score
	metric.Rationale = fmt.Sprintf("move %v scores %.2f at depth %d (%d nodes in %v)",
		move, score, m.depth, metric.Nodes, metric.Duration)
	log.Debug().Msgf("%v: %s", player, metric.Rationale)
	return move, metric, nil
}

// choose runs the search without touching logs, for use inside playouts
func (m *FixedMinimax) choose(pos *game.Position, moves []game.Move, eval game.Evaluator, player game.Owner, deadline time.Time) (game.Move, float64) {
	s := &search{eval: eval, player: player, deadline: deadline, now: m.now, metrics: m.metrics}
	scores := s.scoreMoves(pos, moves, m.depth)
	best := bestIndex(scores)
	return moves[best], scores[best]
}
