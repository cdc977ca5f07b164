package game

import "fmt"

// IllegalMoveError is returned by Play when the move is not legal for the
// player in the given position.
type IllegalMoveError struct {
	Player Owner
	Move   Move
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %v for %v: %s", e.Move, e.Player, e.Reason)
}

// InvalidCoordinateError is returned by board queries outside the grid
type InvalidCoordinateError struct {
	Row  int
	Col  int
	Size int
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("coordinate (%d,%d) is outside the %dx%d board", e.Row, e.Col, e.Size, e.Size)
}

// InvalidIdentifierError is returned when an owner id is not dark or light
type InvalidIdentifierError struct {
	ID Owner
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid player identifier %d", int8(e.ID))
}
