package searcher

import "othello/game"

// playout plays pos to the end, mover first, and reports WIN if player ends
// ahead. A side without moves just hands the turn over.
func (m *MCTS) playout(pos *game.Position, mover, player game.Owner, eval game.Evaluator) int {
	for !pos.IsTerminal() {
		if moves := pos.Moves(mover); len(moves) > 0 {
			pos = play(pos, mover, m.playoutMove(pos, moves, mover, eval))
		}
		mover = mover.Opponent()
	}

	m.simulations++
	m.metrics.AddSimulation()
	if pos.Winner() == player {
		return WIN
	}
	return LOSS
}

func (m *MCTS) playoutMove(pos *game.Position, moves []game.Move, mover game.Owner, eval game.Evaluator) game.Move {
	if m.minimax == nil || m.rng.Float64() < m.randomChance {
		return moves[m.rng.Intn(len(moves))]
	}
	move, _ := m.minimax.choose(pos, moves, eval, mover, m.now().Add(m.playoutSlice))
	return move
}
