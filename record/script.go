package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"othello/game"
)

var ErrMalformedScript = errors.New("malformed game script")

// Script is the record of one finished game. Only placements are stored,
// passes are implied by the side to move having no legal moves.
//
// The text form is "r,c;r,c;...:dark;light:rows;cols".
type Script struct {
	Moves      []game.Move
	DarkScore  int
	LightScore int
	Size       int
}

// Parse reads the text form of a script
func Parse(s string) (*Script, error) {
	sections := strings.Split(strings.TrimSpace(s), ":")
	if len(sections) != 3 {
		return nil, fmt.Errorf("%w: expected 3 sections, got %d", ErrMalformedScript, len(sections))
	}

	script := &Script{}
	if sections[0] != "" {
		for i, field := range strings.Split(sections[0], ";") {
			row, col, err := pair(field, ",")
			if err != nil {
				return nil, fmt.Errorf("%w: move %d: %v", ErrMalformedScript, i+1, err)
			}
			script.Moves = append(script.Moves, game.Move{Row: row, Col: col})
		}
	}

	var err error
	script.DarkScore, script.LightScore, err = pair(sections[1], ";")
	if err != nil {
		return nil, fmt.Errorf("%w: scores: %v", ErrMalformedScript, err)
	}

	rows, cols, err := pair(sections[2], ";")
	if err != nil {
		return nil, fmt.Errorf("%w: dimensions: %v", ErrMalformedScript, err)
	}
	if rows != cols {
		return nil, fmt.Errorf("%w: board %dx%d is not square", ErrMalformedScript, rows, cols)
	}
	script.Size = rows

	return script, nil
}

func pair(s, sep string) (int, int, error) {
	first, second, ok := strings.Cut(s, sep)
	if !ok {
		return 0, 0, fmt.Errorf("%q is not a pair", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (s *Script) String() string {
	moves := lo.Map(s.Moves, func(m game.Move, _ int) string {
		return fmt.Sprintf("%d,%d", m.Row, m.Col)
	})
	return fmt.Sprintf("%s:%d;%d:%d;%d", strings.Join(moves, ";"), s.DarkScore, s.LightScore, s.Size, s.Size)
}

// Replay plays the moves from the standard opening and returns every position
// reached, starting with the opening. A side without legal moves passes
// before the next recorded move is applied, and trailing passes are played
// until the game is over or the side to move has a move.
func (s *Script) Replay() ([]*game.Position, error) {
	pos, err := game.NewPosition(s.Size)
	if err != nil {
		return nil, err
	}
	positions := []*game.Position{pos}

	passes := func() error {
		for !pos.IsTerminal() && !pos.HasLegalMoves(pos.ToMove()) {
			pos, err = pos.Play(pos.ToMove(), game.Pass)
			if err != nil {
				return err
			}
			positions = append(positions, pos)
		}
		return nil
	}

	for i, move := range s.Moves {
		if err := passes(); err != nil {
			return nil, err
		}
		pos, err = pos.Play(pos.ToMove(), move)
		if err != nil {
			return nil, fmt.Errorf("move %d %v: %w", i+1, move, err)
		}
		positions = append(positions, pos)
	}
	if err := passes(); err != nil {
		return nil, err
	}

	return positions, nil
}

// Validate replays the script and checks that it ends in a finished game
// with the recorded scores. It returns the final position.
func (s *Script) Validate() (*game.Position, error) {
	positions, err := s.Replay()
	if err != nil {
		return nil, err
	}
	final := positions[len(positions)-1]
	if !final.IsTerminal() {
		return final, fmt.Errorf("%w: game is not over after %d moves", ErrMalformedScript, len(s.Moves))
	}

	dark, _ := final.Score(game.Dark)
	light, _ := final.Score(game.Light)
	if dark != s.DarkScore || light != s.LightScore {
		return final, fmt.Errorf("%w: recorded score %d-%d, replay gives %d-%d",
			ErrMalformedScript, s.DarkScore, s.LightScore, dark, light)
	}
	return final, nil
}

// New records a finished game from its final position and the moves played,
// passes included.
func New(final *game.Position, moves []game.Move) *Script {
	dark, _ := final.Score(game.Dark)
	light, _ := final.Score(game.Light)
	return &Script{
		Moves:      lo.Reject(moves, func(m game.Move, _ int) bool { return m.IsPass() }),
		DarkScore:  dark,
		LightScore: light,
		Size:       final.Size(),
	}
}
