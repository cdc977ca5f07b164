package agent

import (
	"time"

	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
)

type Agent interface {
	// FindMove returns the agent's move and the metrics of the search behind
	// it. A player without legal moves gets game.Pass.
	FindMove(pos *game.Position, player game.Owner) (game.Move, metrics.SearchMetric, error)
	// Name is the descriptor the agent was built from
	Name() string
}

type aiAgent struct {
	name    string
	decider searcher.Decider
	eval    game.Evaluator
	budget  time.Duration
}

// NewAI pairs a decider with an evaluator and a per-move time budget
func NewAI(name string, decider searcher.Decider, eval game.Evaluator, budget time.Duration) Agent {
	return &aiAgent{name: name, decider: decider, eval: eval, budget: budget}
}

func (a *aiAgent) Name() string {
	return a.name
}

func (a *aiAgent) FindMove(pos *game.Position, player game.Owner) (game.Move, metrics.SearchMetric, error) {
	if !pos.HasLegalMoves(player) {
		return game.Pass, metrics.SearchMetric{Rationale: "no legal moves, passing"}, nil
	}
	return a.decider.Decide(pos, a.eval, player, a.budget)
}
