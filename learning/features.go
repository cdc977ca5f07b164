package learning

import "othello/game"

// Inputs is the length of the feature vector for a board of the given size:
// one input per cell plus the mobility of each side.
func Inputs(size int) int {
	return size*size + 2
}

// Features encodes pos from player's point of view. Cells hold 1 for the
// player's discs, -1 for the opponent's and 0 when empty. The last two
// inputs are the legal move counts of both sides scaled by the board area.
func Features(pos *game.Position, player game.Owner) []float64 {
	size := pos.Size()
	area := float64(size * size)
	features := make([]float64, Inputs(size))

	idx := 0
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			cell, _ := pos.Cell(row, col)
			switch cell {
			case player:
				features[idx] = 1
			case player.Opponent():
				features[idx] = -1
			}
			idx++
		}
	}

	features[idx] = float64(len(pos.Moves(player))) / area
	features[idx+1] = float64(len(pos.Moves(player.Opponent()))) / area
	return features
}
