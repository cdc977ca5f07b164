package game

import "fmt"

// Owner identifies who holds a cell (or who is to move)
type Owner int8

const (
	Empty Owner = iota
	Dark
	Light
)

// Players lists the two owners in turn order (dark moves first)
var Players = [2]Owner{Dark, Light}

func (o Owner) String() string {
	switch o {
	case Empty:
		return "empty"
	case Dark:
		return "dark"
	case Light:
		return "light"
	default:
		return fmt.Sprintf("owner(%d)", int8(o))
	}
}

// Valid reports whether o is one of the two players
func (o Owner) Valid() bool {
	return o == Dark || o == Light
}

// Opponent returns the other player. Empty (or an invalid id) maps to itself.
func (o Owner) Opponent() Owner {
	switch o {
	case Dark:
		return Light
	case Light:
		return Dark
	default:
		return o
	}
}

// Move is a board coordinate (0-indexed row, col) or the Pass sentinel
type Move struct {
	Row int
	Col int
}

// Pass is played when the side to move has no legal placement
var Pass = Move{Row: -1, Col: -1}

func (m Move) IsPass() bool {
	return m == Pass
}

func (m Move) String() string {
	if m.IsPass() {
		return "pass"
	}
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Evaluator scores how favorable a position is for player. Values must be
// finite; the searchers never check.
type Evaluator interface {
	Evaluate(pos *Position, player Owner) float64
}

// EvaluatorFunc adapts a plain function to the Evaluator interface
type EvaluatorFunc func(pos *Position, player Owner) float64

func (f EvaluatorFunc) Evaluate(pos *Position, player Owner) float64 {
	return f(pos, player)
}
