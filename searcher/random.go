package searcher

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"othello/experiments/metrics"
	"othello/game"
)

// Random picks uniformly among the legal moves
type Random struct {
	rng *rand.Rand
	settings
}

func NewRandom(options ...Option) *Random {
	s := newSettings(options)
	return &Random{rng: rand.New(rand.NewSource(s.seed)), settings: s}
}

func (r *Random) Decide(pos *game.Position, eval game.Evaluator, player game.Owner, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	moves := pos.Moves(player)
	if len(moves) == 0 {
		return game.Pass, metrics.SearchMetric{}, ErrNoLegalMoves
	}

	start := r.now()
	r.metrics.Start("Random", start)
	move := moves[r.rng.Intn(len(moves))]
	metric := r.metrics.Complete(r.now())
	metric.Rationale = fmt.Sprintf("move %v picked from %d", move, len(moves))
	return move, metric, nil
}
