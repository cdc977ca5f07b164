package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"othello/game"
)

func TestMCTSDecide(t *testing.T) {
	t.Run("single legal move skips the search", func(t *testing.T) {
		pos, err := game.ParseBoard(
			"XO..",
			"....",
			"....",
			"....",
		)
		require.NoError(t, err)

		move, metric, err := NewMCTS(WithClock(frozenClock())).Decide(pos, game.ScoreEvaluator, game.Dark, time.Second)
		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 2}, move)
		require.Zero(t, metric.Simulations, "No playout should run")
		require.Zero(t, metric.Iterations)
	})

	t.Run("no legal moves", func(t *testing.T) {
		pos, err := game.NewPosition(2)
		require.NoError(t, err)
		_, _, err = NewMCTS().Decide(pos, game.ScoreEvaluator, game.Dark, time.Second)
		require.ErrorIs(t, err, ErrNoLegalMoves)
	})

	t.Run("zero budget expands the root once", func(t *testing.T) {
		pos, err := game.NewPosition(8)
		require.NoError(t, err)

		move, metric, err := NewMCTS(WithClock(frozenClock()), WithSeed(1)).
			Decide(pos, game.ScoreEvaluator, game.Dark, 0)
		require.NoError(t, err)
		require.Contains(t, pos.Moves(game.Dark), move)
		require.Equal(t, 1, metric.Iterations)
		require.Equal(t, 1+4, metric.Simulations, "Root seed plus one playout per child")
	})

	t.Run("simulation cap stops a frozen clock", func(t *testing.T) {
		pos := randomPosition(t, 8, 10, 4)
		player := pos.ToMove()

		_, metric, err := NewMCTS(WithClock(frozenClock()), WithSeed(2), WithMaxSimulations(200)).
			Decide(pos, game.PositionalEvaluator, player, time.Hour)
		require.NoError(t, err)
		require.GreaterOrEqual(t, metric.Simulations, 200)
		require.Less(t, metric.Simulations, 200+64, "Only the last expansion may overshoot")
	})

	t.Run("same seed, same decision", func(t *testing.T) {
		pos := randomPosition(t, 6, 8, 9)
		player := pos.ToMove()

		decide := func() (game.Move, float64, int) {
			move, metric, err := NewMCTS(WithClock(frozenClock()), WithSeed(42), WithMaxSimulations(300)).
				Decide(pos, game.PositionalEvaluator, player, time.Hour)
			require.NoError(t, err)
			return move, metric.Score, metric.Simulations
		}
		move1, score1, sims1 := decide()
		move2, score2, sims2 := decide()
		require.Equal(t, move1, move2)
		require.Equal(t, score1, score2)
		require.Equal(t, sims1, sims2)
	})

	t.Run("hybrid playouts", func(t *testing.T) {
		pos := randomPosition(t, 6, 6, 5)
		player := pos.ToMove()

		decider := NewMCTS(WithClock(frozenClock()), WithSeed(3), WithMaxSimulations(40),
			WithMinimaxPlayouts(1, 0.5, time.Millisecond))
		require.NotNil(t, decider.minimax)
		require.Equal(t, 1, decider.minimax.Depth())

		move, _, err := decider.Decide(pos, game.PositionalEvaluator, player, time.Hour)
		require.NoError(t, err)
		require.Contains(t, pos.Moves(player), move)
	})

	t.Run("win rate ties go to the better evaluation", func(t *testing.T) {
		// Both moves force a wipeout, (0,3) with the larger margin
		pos, err := game.ParseBoard(
			"XOO.",
			"....",
			"O...",
			"X...",
		)
		require.NoError(t, err)
		require.Len(t, pos.Moves(game.Dark), 2)

		move, metric, err := NewMCTS(WithClock(frozenClock()), WithSeed(5), WithMaxSimulations(100)).
			Decide(pos, game.ScoreEvaluator, game.Dark, time.Hour)
		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 3}, move)
		require.Equal(t, 100.0, metric.Score)
	})
}

func TestMCTSTreeStatistics(t *testing.T) {
	pos := randomPosition(t, 6, 4, 8)
	player := pos.ToMove()

	m := NewMCTS(WithClock(frozenClock()), WithSeed(9))
	tr := newTree()
	tr.update([]int{root}, m.playout(pos, player, player, game.ScoreEvaluator), 1)
	for i := 0; i < 50; i++ {
		m.iterate(tr, pos, player, game.ScoreEvaluator)
	}

	require.Equal(t, m.simulations, tr.nodes[root].total, "Every playout reaches the root")
	children := 0
	for _, idx := range tr.nodes[root].children {
		children += tr.nodes[idx].total
	}
	require.Equal(t, tr.nodes[root].total-1, children, "Root seed is the only playout not below a child")
	for i := range tr.nodes {
		require.LessOrEqual(t, tr.nodes[i].wins, tr.nodes[i].total)
	}
}

func TestPlayout(t *testing.T) {
	m := NewMCTS(WithSeed(1))

	t.Run("draw counts as a loss", func(t *testing.T) {
		pos, err := game.NewPosition(2)
		require.NoError(t, err)
		require.Equal(t, LOSS, m.playout(pos, game.Dark, game.Dark, game.ScoreEvaluator))
		require.Equal(t, LOSS, m.playout(pos, game.Dark, game.Light, game.ScoreEvaluator))
	})

	t.Run("win and loss", func(t *testing.T) {
		pos, err := game.ParseBoard("XX", "X.")
		require.NoError(t, err)
		require.True(t, pos.IsTerminal())
		require.Equal(t, WIN, m.playout(pos, game.Light, game.Dark, game.ScoreEvaluator))
		require.Equal(t, LOSS, m.playout(pos, game.Dark, game.Light, game.ScoreEvaluator))
	})

	t.Run("plays through passes", func(t *testing.T) {
		pos, err := game.ParseBoard(
			"XO..",
			"....",
			"....",
			"....",
		)
		require.NoError(t, err)
		// Light cannot move, so the turn goes straight back to dark
		require.Equal(t, WIN, m.playout(pos, game.Light, game.Dark, game.ScoreEvaluator))
	})
}

func TestMCTSFullGames(t *testing.T) {
	for seed := uint64(1); seed <= 3; seed++ {
		pos, err := game.NewPosition(6)
		require.NoError(t, err)
		deciders := map[game.Owner]Decider{
			game.Dark:  NewMCTS(WithClock(frozenClock()), WithSeed(seed), WithMaxSimulations(30)),
			game.Light: NewRandom(WithSeed(seed)),
		}

		for !pos.IsTerminal() {
			mover := pos.ToMove()
			move := game.Pass
			if pos.HasLegalMoves(mover) {
				move, _, err = deciders[mover].Decide(pos, game.ScoreEvaluator, mover, time.Hour)
				require.NoError(t, err)
			}
			pos, err = pos.Play(mover, move)
			require.NoError(t, err, "Deciders should only return legal moves")
		}
	}
}
