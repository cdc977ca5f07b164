package engine

import (
	"context"

	"othello/experiments/metrics"
	"othello/game"
	"othello/record"
)

// MaxMoves bounds the number of plies in a game, passes included
const MaxMoves = 10000

type Engine interface {
	// Run plays a game until neither side can move
	Run(ctx context.Context) (*Result, error)
}

type Result struct {
	Final  *game.Position
	Script *record.Script
	Game   metrics.GameMetric
	Moves  []metrics.MoveMetric
}
