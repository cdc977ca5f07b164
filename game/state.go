package game

import (
	"fmt"
	"slices"
)

// The eight rays scanned from a cell, row-major
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Position is an immutable Othello board at a given ply. Legal moves, disc
// counts and the terminal flag are computed once when the position is built,
// so queries during search are free.
type Position struct {
	size  int
	cells []Owner // row-major
	ply   int

	legal    [2][]bool // indexed by player, row-major
	moves    [2][]Move // same content as legal, row-major order
	discs    [2]int
	terminal bool
}

// NewPosition returns the standard opening position on a size x size board
func NewPosition(size int) (*Position, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	cells := make([]Owner, size*size)
	mid := size / 2
	cells[(mid-1)*size+mid-1] = Light
	cells[mid*size+mid] = Light
	cells[(mid-1)*size+mid] = Dark
	cells[mid*size+mid-1] = Dark
	return newPosition(size, cells, 1), nil
}

// NewPositionFromCells builds a position from an explicit grid
func NewPositionFromCells(cells [][]Owner, ply int) (*Position, error) {
	size := len(cells)
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if ply < 1 {
		return nil, fmt.Errorf("ply must be at least 1, got %d", ply)
	}
	flat := make([]Owner, 0, size*size)
	for r, row := range cells {
		if len(row) != size {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), size)
		}
		for _, o := range row {
			if o != Empty && !o.Valid() {
				return nil, &InvalidIdentifierError{ID: o}
			}
			flat = append(flat, o)
		}
	}
	return newPosition(size, flat, ply), nil
}

func checkSize(size int) error {
	if size < 2 || size%2 != 0 {
		return fmt.Errorf("board size must be even and at least 2, got %d", size)
	}
	return nil
}

func newPosition(size int, cells []Owner, ply int) *Position {
	p := &Position{size: size, cells: cells, ply: ply}
	for i := range Players {
		p.legal[i] = make([]bool, len(cells))
	}
	for idx, cell := range cells {
		if cell != Empty {
			p.discs[index(cell)]++
			continue
		}
		row, col := idx/size, idx%size
		for i, player := range Players {
			if p.brackets(row, col, player) {
				p.legal[i][idx] = true
				p.moves[i] = append(p.moves[i], Move{Row: row, Col: col})
			}
		}
	}
	p.terminal = len(p.moves[0]) == 0 && len(p.moves[1]) == 0
	return p
}

func index(o Owner) int {
	return int(o) - 1
}

func (p *Position) brackets(row, col int, player Owner) bool {
	for _, d := range directions {
		if p.run(row, col, d[0], d[1], player) > 0 {
			return true
		}
	}
	return false
}

// run returns the length of the opponent run next to (row, col) along
// (dr, dc), or 0 if it is not closed by one of player's discs.
func (p *Position) run(row, col, dr, dc int, player Owner) int {
	opponent := player.Opponent()
	n := 0
	r, c := row+dr, col+dc
	for p.inBounds(r, c) {
		switch p.cells[r*p.size+c] {
		case opponent:
			n++
		case player:
			return n
		default:
			return 0
		}
		r += dr
		c += dc
	}
	return 0
}

func (p *Position) inBounds(row, col int) bool {
	return row >= 0 && row < p.size && col >= 0 && col < p.size
}

func (p *Position) Size() int {
	return p.size
}

func (p *Position) Ply() int {
	return p.ply
}

// ToMove returns the side whose turn it is: dark on odd plies, light on even
// ones. Passes take a ply, so parity holds for the whole game.
func (p *Position) ToMove() Owner {
	return Players[(p.ply-1)%2]
}

// Cell returns the owner of the disc at (row, col)
func (p *Position) Cell(row, col int) (Owner, error) {
	if !p.inBounds(row, col) {
		return Empty, &InvalidCoordinateError{Row: row, Col: col, Size: p.size}
	}
	return p.cells[row*p.size+col], nil
}

// LegalMoves returns an N x N mask of the cells where player may place a disc
func (p *Position) LegalMoves(player Owner) ([][]bool, error) {
	if !player.Valid() {
		return nil, &InvalidIdentifierError{ID: player}
	}
	legal := p.legal[index(player)]
	mask := make([][]bool, p.size)
	for r := range mask {
		mask[r] = slices.Clone(legal[r*p.size : (r+1)*p.size])
	}
	return mask, nil
}

// Moves returns player's legal placements in row-major order. The slice is
// shared with the position and must not be modified. Non-players get nil.
func (p *Position) Moves(player Owner) []Move {
	if !player.Valid() {
		return nil
	}
	return p.moves[index(player)]
}

func (p *Position) HasLegalMoves(player Owner) bool {
	return len(p.Moves(player)) > 0
}

// IsTerminal reports whether neither player can move
func (p *Position) IsTerminal() bool {
	return p.terminal
}

func (p *Position) DiscCount(player Owner) (int, error) {
	if !player.Valid() {
		return 0, &InvalidIdentifierError{ID: player}
	}
	return p.discs[index(player)], nil
}

func (p *Position) Empties() int {
	return len(p.cells) - p.discs[0] - p.discs[1]
}

// Score is the live disc count, except on a terminal board where the empty
// cells go to the leader (a tie splits the board evenly).
func (p *Position) Score(player Owner) (int, error) {
	if !player.Valid() {
		return 0, &InvalidIdentifierError{ID: player}
	}
	return p.score(player), nil
}

func (p *Position) score(player Owner) int {
	own := p.discs[index(player)]
	if !p.terminal {
		return own
	}
	opponent := p.discs[index(player.Opponent())]
	switch {
	case own > opponent:
		return own + p.Empties()
	case own == opponent:
		return len(p.cells) / 2
	default:
		return own
	}
}

// Winner returns the leading player of a finished game, or Empty while the
// game is running or drawn.
func (p *Position) Winner() Owner {
	if !p.terminal {
		return Empty
	}
	switch {
	case p.discs[0] > p.discs[1]:
		return Dark
	case p.discs[1] > p.discs[0]:
		return Light
	default:
		return Empty
	}
}

// Play returns the position after player makes move. The receiver is left
// untouched.
func (p *Position) Play(player Owner, move Move) (*Position, error) {
	if !player.Valid() {
		return nil, &InvalidIdentifierError{ID: player}
	}
	i := index(player)

	if move.IsPass() {
		if p.terminal {
			return nil, &IllegalMoveError{Player: player, Move: move, Reason: "game is over"}
		}
		if len(p.moves[i]) > 0 {
			return nil, &IllegalMoveError{Player: player, Move: move, Reason: "player has legal moves"}
		}
		// Every field is read-only after construction, so the caches carry over
		next := *p
		next.ply++
		return &next, nil
	}

	if !p.inBounds(move.Row, move.Col) {
		return nil, &IllegalMoveError{Player: player, Move: move, Reason: "outside the board"}
	}
	idx := move.Row*p.size + move.Col
	if !p.legal[i][idx] {
		reason := "no disc bracketed"
		if p.cells[idx] != Empty {
			reason = "cell is occupied"
		}
		return nil, &IllegalMoveError{Player: player, Move: move, Reason: reason}
	}

	cells := slices.Clone(p.cells)
	cells[idx] = player
	for _, d := range directions {
		n := p.run(move.Row, move.Col, d[0], d[1], player)
		for k := 1; k <= n; k++ {
			cells[(move.Row+k*d[0])*p.size+move.Col+k*d[1]] = player
		}
	}
	return newPosition(p.size, cells, p.ply+1), nil
}
