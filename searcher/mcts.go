package searcher

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"othello/experiments/metrics"
	"othello/game"
)

// MCTS grows a fresh UCT tree on every call until the budget or the
// simulation cap runs out, then plays the root move with the best win rate.
type MCTS struct {
	settings
	rng         *rand.Rand
	minimax     *FixedMinimax // playout move generator in hybrid mode
	simulations int
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{settings: newSettings(options)}
	m.rng = rand.New(rand.NewSource(m.seed))
	if m.hybrid {
		m.minimax = NewFixedMinimax(m.playoutDepth,
			WithClock(m.now),
			WithCollector(metrics.NewDummyCollector()))
	}
	return m
}

func (m *MCTS) Decide(pos *game.Position, eval game.Evaluator, player game.Owner, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	moves := pos.Moves(player)
	if len(moves) == 0 {
		return game.Pass, metrics.SearchMetric{}, ErrNoLegalMoves
	}

	start := m.now()
	m.metrics.Start("MCTS", start)
	if len(moves) == 1 {
		metric := m.metrics.Complete(m.now())
		metric.Rationale = fmt.Sprintf("move %v is the only move", moves[0])
		return moves[0], metric, nil
	}

	m.simulations = 0
	t := newTree()
	t.update([]int{root}, m.playout(pos, player, player, eval), 1)

	// The first round expands the root, so there is always a move to return
	for first := true; first || m.running(start, budget); first = false {
		m.iterate(t, pos, player, eval)
		m.metrics.AddIteration()
	}

	best, bestRate, bestValue := -1, 0.0, 0.0
	for _, idx := range t.nodes[root].children {
		child := &t.nodes[idx]
		rate := child.winRate()
		value := eval.Evaluate(play(pos, player, child.move), player)
		if best < 0 || rate > bestRate || (rate == bestRate && value > bestValue) {
			best, bestRate, bestValue = idx, rate, value
		}
	}
	move := t.nodes[best].move

	metric := m.metrics.Complete(m.now())
	metric.Score = bestRate
	metric.Rationale = fmt.Sprintf("move %v wins %.1f%% of %d playouts, evaluated at %.2f (%d sims in %v, %.2f sims/ms)",
		move, bestRate, t.nodes[best].total, bestValue, m.simulations, metric.Duration, perMillisecond(m.simulations, metric.Duration))
	log.Debug().Msgf("%v: %s", player, metric.Rationale)
	return move, metric, nil
}

func (m *MCTS) running(start time.Time, budget time.Duration) bool {
	if m.maxSimulations > 0 && m.simulations >= m.maxSimulations {
		return false
	}
	return m.now().Sub(start) < budget
}

// iterate runs one round of selection, expansion, playouts and backup
func (m *MCTS) iterate(t *tree, pos *game.Position, player game.Owner, eval game.Evaluator) {
	idx, mover := root, player
	path := []int{root}
	for len(t.nodes[idx].children) > 0 {
		idx = t.selectChild(idx)
		path = append(path, idx)
		if move := t.nodes[idx].move; !move.IsPass() {
			pos = play(pos, mover, move)
		}
		mover = mover.Opponent()
	}

	switch {
	case pos.IsTerminal():
		t.update(path, m.playout(pos, mover, player, eval), 1)
	case !pos.HasLegalMoves(mover):
		outcome := m.playout(pos, mover.Opponent(), player, eval)
		t.add(idx, game.Pass, outcome)
		t.update(path, outcome, 1)
	default:
		moves := pos.Moves(mover)
		wins := 0
		for _, move := range moves {
			outcome := m.playout(play(pos, mover, move), mover.Opponent(), player, eval)
			t.add(idx, move, outcome)
			wins += outcome
		}
		t.update(path, wins, len(moves))
	}
}

func perMillisecond(count int, elapsed time.Duration) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)
	if ms <= 0 {
		return math.Inf(1)
	}
	return float64(count) / ms
}
