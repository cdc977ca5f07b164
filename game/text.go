package game

import (
	"fmt"
	"strings"
)

const (
	darkRune  = 'X'
	lightRune = 'O'
	emptyRune = '.'
)

// ParseBoard builds a ply-1 position from rows of 'X' (dark), 'O' (light)
// and '.' (empty).
func ParseBoard(rows ...string) (*Position, error) {
	cells := make([][]Owner, len(rows))
	for r, row := range rows {
		cells[r] = make([]Owner, 0, len(row))
		for _, ch := range row {
			switch ch {
			case darkRune:
				cells[r] = append(cells[r], Dark)
			case lightRune:
				cells[r] = append(cells[r], Light)
			case emptyRune:
				cells[r] = append(cells[r], Empty)
			default:
				return nil, fmt.Errorf("row %d: unexpected cell %q", r, ch)
			}
		}
	}
	return NewPositionFromCells(cells, 1)
}

// String renders the board in the ParseBoard alphabet, one row per line
func (p *Position) String() string {
	var sb strings.Builder
	for r := 0; r < p.size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < p.size; c++ {
			switch p.cells[r*p.size+c] {
			case Dark:
				sb.WriteRune(darkRune)
			case Light:
				sb.WriteRune(lightRune)
			default:
				sb.WriteRune(emptyRune)
			}
		}
	}
	return sb.String()
}
