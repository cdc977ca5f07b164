package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"othello/engine"
	"othello/experiments/metrics"
	"othello/game"
	"othello/record"
)

func TestMatchRun(t *testing.T) {
	ctx := context.Background()
	archive, err := record.OpenArchive(ctx, ":memory:")
	require.NoError(t, err)
	defer archive.Close()

	match := Match{
		PlayerA:     "AI(Random,Score)",
		PlayerB:     "AI(FixedMinimax-D1,Positional)",
		Size:        4,
		Games:       6,
		Concurrency: 3,
		Budget:      time.Second,
		Alternate:   true,
		Seed:        11,
		Output:      t.TempDir(),
		Archive:     archive,
	}
	summary, err := match.Run(ctx)
	require.NoError(t, err)

	require.Equal(t, 6, summary.Games)
	require.Equal(t, 6, summary.WinsA+summary.WinsB+summary.Draws)
	require.InDelta(t, float64(summary.WinsA)/6, summary.WinRateA, 1e-12)
	require.GreaterOrEqual(t, summary.StdDevMargin, 0.0)
	require.False(t, summary.EndTime.Before(summary.StartTime))

	t.Run("games are archived with alternating colours", func(t *testing.T) {
		entries, err := archive.All(ctx, 4)
		require.NoError(t, err)
		require.Len(t, entries, 6)
		for i, e := range entries {
			if i%2 == 0 {
				require.Equal(t, match.PlayerA, e.Dark)
			} else {
				require.Equal(t, match.PlayerB, e.Dark)
			}
			_, err := e.Script.Validate()
			require.NoError(t, err)
		}
	})

	t.Run("metrics are written", func(t *testing.T) {
		dirs, err := os.ReadDir(match.Output)
		require.NoError(t, err)
		require.Len(t, dirs, 1)
		dir := filepath.Join(match.Output, dirs[0].Name())
		for _, name := range []string{"game_records.csv", "move_records.csv", "summary.yaml"} {
			require.FileExists(t, filepath.Join(dir, name))
		}

		data, err := os.ReadFile(filepath.Join(dir, "summary.yaml"))
		require.NoError(t, err)
		var decoded metrics.Summary
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		require.Equal(t, summary.WinsA, decoded.WinsA)
		require.Equal(t, match.PlayerB, decoded.PlayerB)
	})

	t.Run("seeded matches repeat", func(t *testing.T) {
		again := match
		again.Output = ""
		again.Archive = nil
		replay, err := again.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, summary.WinsA, replay.WinsA)
		require.Equal(t, summary.MeanMargin, replay.MeanMargin)
	})
}

func TestMatchErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Match{PlayerA: "AI(Random,Score)", PlayerB: "Human", Size: 4, Games: 1}.Run(ctx)
	require.Error(t, err)

	_, err = Match{PlayerA: "AI(Random,Score)", PlayerB: "AI(Random,Score)", Size: 4}.Run(ctx)
	require.Error(t, err)

	_, err = Match{PlayerA: "AI(Random,Score)", PlayerB: "AI(Random,Score)", Size: 3, Games: 2}.Run(ctx)
	require.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Match{PlayerA: "AI(Random,Score)", PlayerB: "AI(Random,Score)", Size: 8, Games: 2}.Run(cancelled)
	require.ErrorIs(t, err, context.Canceled)
}

func result(dark, light int, moves ...metrics.MoveMetric) *engine.Result {
	return &engine.Result{
		Game:  metrics.GameMetric{DarkScore: dark, LightScore: light},
		Moves: moves,
	}
}

func TestSummarize(t *testing.T) {
	m := Match{PlayerA: "a", PlayerB: "b", Size: 4}
	darkMove := metrics.MoveMetric{Player: game.Dark, Move: game.Move{Row: 0, Col: 1},
		SearchMetric: metrics.SearchMetric{Duration: time.Second, Nodes: 100}}
	lightMove := metrics.MoveMetric{Player: game.Light, Move: game.Move{Row: 1, Col: 0},
		SearchMetric: metrics.SearchMetric{Duration: 3 * time.Second, Simulations: 30}}
	lightPass := metrics.MoveMetric{Player: game.Light, Move: game.Pass}

	summary := m.summarize([]gameResult{
		{aIsDark: true, Result: result(10, 6, darkMove, lightMove, lightPass)},
		{aIsDark: false, Result: result(10, 6, darkMove, lightMove)},
		{aIsDark: true, Result: result(8, 8)},
	})

	require.Equal(t, 1, summary.WinsA)
	require.Equal(t, 1, summary.WinsB)
	require.Equal(t, 1, summary.Draws)
	require.InDelta(t, 1.0/3, summary.WinRateA, 1e-12)
	require.Equal(t, 0.0, summary.MeanMargin, "Margins 4, -4 and 0")
	require.InDelta(t, 4.0, summary.StdDevMargin, 1e-12)
	require.InDelta(t, 1.959964*4/1.7320508, summary.MarginError, 1e-4)

	require.Equal(t, 2*time.Second, summary.MeanMoveA, "A moved once as dark and once as light")
	require.Equal(t, 2*time.Second, summary.MeanMoveB)
	require.InDelta(t, 100.0/4, summary.ThroughputA.Nodes, 1e-12)
	require.InDelta(t, 30.0/4, summary.ThroughputA.Simulations, 1e-12)

	t.Run("single game", func(t *testing.T) {
		single := m.summarize([]gameResult{{aIsDark: false, Result: result(3, 13)}})
		require.Equal(t, 1, single.WinsA)
		require.Equal(t, 10.0, single.MeanMargin)
		require.Zero(t, single.StdDevMargin)
		require.Zero(t, single.MeanMoveA)
	})
}

func TestThroughput(t *testing.T) {
	require.Equal(t, metrics.Throughput{}, throughput(nil))
	got := throughput([]metrics.MoveMetric{
		{SearchMetric: metrics.SearchMetric{Duration: 500 * time.Millisecond, Nodes: 50}},
		{SearchMetric: metrics.SearchMetric{Duration: 1500 * time.Millisecond, Nodes: 150, Simulations: 8}},
	})
	require.InDelta(t, 100.0, got.Nodes, 1e-9)
	require.InDelta(t, 4.0, got.Simulations, 1e-9)
}
