package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"othello/game"
)

// playFirstMoves plays a game where each side always takes its first legal
// move, returning the final position and every move including passes
func playFirstMoves(t *testing.T, size int) (*game.Position, []game.Move) {
	t.Helper()
	pos, err := game.NewPosition(size)
	require.NoError(t, err)

	var moves []game.Move
	for !pos.IsTerminal() {
		mover := pos.ToMove()
		move := game.Pass
		if legal := pos.Moves(mover); len(legal) > 0 {
			move = legal[0]
		}
		pos, err = pos.Play(mover, move)
		require.NoError(t, err)
		moves = append(moves, move)
	}
	return pos, moves
}

func TestParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		text := "2,3;2,2;3,2:10;54:8;8"
		script, err := Parse(text)
		require.NoError(t, err)
		require.Equal(t, []game.Move{{Row: 2, Col: 3}, {Row: 2, Col: 2}, {Row: 3, Col: 2}}, script.Moves)
		require.Equal(t, 10, script.DarkScore)
		require.Equal(t, 54, script.LightScore)
		require.Equal(t, 8, script.Size)
		require.Equal(t, text, script.String())
	})

	t.Run("game without moves", func(t *testing.T) {
		script, err := Parse(":2;2:2;2")
		require.NoError(t, err)
		require.Empty(t, script.Moves)
		require.Equal(t, ":2;2:2;2", script.String())
	})

	t.Run("malformed", func(t *testing.T) {
		for _, text := range []string{
			"",
			"2,3:1;1",
			"2,3:1;1:8;8:extra",
			"2;3:1;1:8;8",
			"2,x:1;1:8;8",
			"2,3:1:8;8",
			"2,3:1;1:8;6",
			"2,3;;2,2:1;1:8;8",
		} {
			_, err := Parse(text)
			require.ErrorIs(t, err, ErrMalformedScript, "%q should be rejected", text)
		}
	})
}

func TestReplay(t *testing.T) {
	final, moves := playFirstMoves(t, 6)
	script := New(final, moves)
	require.Equal(t, 6, script.Size)
	require.LessOrEqual(t, len(script.Moves), len(moves))

	t.Run("reproduces the game", func(t *testing.T) {
		parsed, err := Parse(script.String())
		require.NoError(t, err)

		positions, err := parsed.Replay()
		require.NoError(t, err)
		require.Len(t, positions, len(moves)+1, "Passes are replayed as positions too")
		require.True(t, positions[len(positions)-1].SameBoard(final))

		got, err := parsed.Validate()
		require.NoError(t, err)
		require.True(t, got.SameBoard(final))
	})

	t.Run("wrong score", func(t *testing.T) {
		tampered := *script
		tampered.DarkScore++
		_, err := tampered.Validate()
		require.ErrorIs(t, err, ErrMalformedScript)
	})

	t.Run("unfinished game", func(t *testing.T) {
		unfinished := *script
		unfinished.Moves = script.Moves[:3]
		_, err := unfinished.Validate()
		require.ErrorIs(t, err, ErrMalformedScript)
	})

	t.Run("illegal move", func(t *testing.T) {
		bad := &Script{Moves: []game.Move{{Row: 2, Col: 3}, {Row: 0, Col: 0}}, Size: 8}
		_, err := bad.Replay()
		var illegal *game.IllegalMoveError
		require.True(t, errors.As(err, &illegal), "got %v", err)
		require.Equal(t, game.Light, illegal.Player)
		require.Contains(t, err.Error(), "move 2")
	})

	t.Run("bad size", func(t *testing.T) {
		_, err := (&Script{Size: 5}).Replay()
		require.Error(t, err)
	})

	t.Run("drawn 2x2 board", func(t *testing.T) {
		empty, err := Parse(":2;2:2;2")
		require.NoError(t, err)
		final, err := empty.Validate()
		require.NoError(t, err)
		require.Equal(t, game.Empty, final.Winner())
	})
}
