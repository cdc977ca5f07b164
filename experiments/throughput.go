package experiments

import (
	"github.com/samber/lo"

	"othello/experiments/metrics"
)

// throughput is the search work done per second of thinking over the given
// moves. Minimax counts nodes, MCTS counts playouts.
func throughput(moves []metrics.MoveMetric) metrics.Throughput {
	seconds := lo.SumBy(moves, func(mm metrics.MoveMetric) float64 {
		return mm.Duration.Seconds()
	})
	if seconds == 0 {
		return metrics.Throughput{}
	}
	return metrics.Throughput{
		Nodes:       float64(lo.SumBy(moves, func(mm metrics.MoveMetric) int { return mm.Nodes })) / seconds,
		Simulations: float64(lo.SumBy(moves, func(mm metrics.MoveMetric) int { return mm.Simulations })) / seconds,
	}
}
