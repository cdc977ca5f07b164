package experiments

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"othello/engine"
	"othello/experiments/metrics"
	"othello/game"
	"othello/record"
	"othello/searcher"
	"othello/searcher/agent"
)

// Match pits two player descriptors against each other over a number of
// games. PlayerA is dark in the first game.
type Match struct {
	PlayerA     string
	PlayerB     string
	Size        int
	Games       int
	Concurrency int
	Budget      time.Duration
	// Alternate swaps colours every other game
	Alternate bool
	// Seed makes the deciders reproducible when not 0
	Seed uint64
	// Output is the directory that receives the metrics, nothing is written when empty
	Output string
	// Archive optionally stores every finished game
	Archive *record.Archive
}

type gameResult struct {
	aIsDark bool
	*engine.Result
}

// darkIsA reports whether PlayerA takes dark in the game with the given index
func (m Match) darkIsA(index int) bool {
	return !m.Alternate || index%2 == 0
}

func (m Match) newAgent(descriptor string, seed uint64) (agent.Agent, error) {
	var options []searcher.Option
	if m.Seed != 0 {
		options = append(options, searcher.WithSeed(seed))
	}
	return agent.New(descriptor, m.Budget, options...)
}

// Run plays the match and returns its summary. Games run concurrently, each
// with its own freshly built agents. The first failing game cancels the rest.
func (m Match) Run(ctx context.Context) (metrics.Summary, error) {
	if m.Games < 1 {
		return metrics.Summary{}, fmt.Errorf("a match needs at least one game")
	}
	// Fail early on bad descriptors
	for _, descriptor := range []string{m.PlayerA, m.PlayerB} {
		if _, err := m.newAgent(descriptor, 0); err != nil {
			return metrics.Summary{}, err
		}
	}

	log.Info().Msgf("starting match of %d games between %s and %s...", m.Games, m.PlayerA, m.PlayerB)
	start := time.Now()

	results := make([]gameResult, m.Games)
	var completed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.Concurrency, 1))
	for i := 0; i < m.Games; i++ {
		g.Go(func() error {
			aIsDark := m.darkIsA(i)
			a, err := m.newAgent(m.PlayerA, m.Seed+uint64(2*i))
			if err != nil {
				return err
			}
			b, err := m.newAgent(m.PlayerB, m.Seed+uint64(2*i+1))
			if err != nil {
				return err
			}
			dark, light := a, b
			if !aIsDark {
				dark, light = b, a
			}

			result, err := engine.LocalEngine(m.Size, dark, light).Run(gctx)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = gameResult{aIsDark: aIsDark, Result: result}
			log.Info().Msgf("completed game %d (%d of %d) with winner: %v", i+1, completed.Add(1), m.Games, result.Game.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return metrics.Summary{}, err
	}

	summary := m.summarize(results)
	summary.StartTime = start
	summary.EndTime = time.Now()
	log.Info().Msgf("completed match: %s won %d, %s won %d, %d drawn", m.PlayerA, summary.WinsA, m.PlayerB, summary.WinsB, summary.Draws)

	if m.Archive != nil {
		for _, r := range results {
			if _, err := m.Archive.Save(ctx, r.Game.Dark, r.Game.Light, r.Script, r.Game.StartTime); err != nil {
				return summary, err
			}
		}
		log.Info().Msgf("archived %d games", len(results))
	}
	if m.Output != "" {
		if err := write(m.Output, results, summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (m Match) summarize(results []gameResult) metrics.Summary {
	summary := metrics.Summary{
		PlayerA: m.PlayerA,
		PlayerB: m.PlayerB,
		Size:    m.Size,
		Games:   len(results),
	}

	margins := lo.Map(results, func(r gameResult, _ int) float64 {
		margin := float64(r.Game.DarkScore - r.Game.LightScore)
		if !r.aIsDark {
			margin = -margin
		}
		return margin
	})
	for _, margin := range margins {
		switch {
		case margin > 0:
			summary.WinsA++
		case margin < 0:
			summary.WinsB++
		default:
			summary.Draws++
		}
	}
	summary.WinRateA = float64(summary.WinsA) / float64(len(results))

	if len(margins) > 1 {
		summary.MeanMargin, summary.StdDevMargin = stat.MeanStdDev(margins, nil)
		summary.MarginError = zValue(95) * summary.StdDevMargin / math.Sqrt(float64(len(margins)))
	} else {
		summary.MeanMargin = margins[0]
	}

	movesA, movesB := splitMoves(results)
	summary.MeanMoveA = meanDuration(movesA)
	summary.MeanMoveB = meanDuration(movesB)
	summary.ThroughputA = throughput(movesA)
	summary.ThroughputB = throughput(movesB)
	return summary
}

// splitMoves sorts the searched moves of every game by the player who made them
func splitMoves(results []gameResult) (a, b []metrics.MoveMetric) {
	for _, r := range results {
		for _, mm := range r.Moves {
			if mm.Move.IsPass() {
				continue
			}
			if (mm.Player == game.Dark) == r.aIsDark {
				a = append(a, mm)
			} else {
				b = append(b, mm)
			}
		}
	}
	return a, b
}

func meanDuration(moves []metrics.MoveMetric) time.Duration {
	if len(moves) == 0 {
		return 0
	}
	return time.Duration(stat.Mean(lo.Map(moves, func(mm metrics.MoveMetric, _ int) float64 {
		return float64(mm.Duration)
	}), nil))
}

// zValue is the two-tailed z value of a confidence level given in percent
func zValue(confidence float64) float64 {
	return distuv.UnitNormal.Quantile((1 + confidence/100) / 2)
}

func write(dir string, results []gameResult, summary metrics.Summary) error {
	writer, err := metrics.NewWriter(dir)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	var (
		gameRecords []metrics.GameRecord
		moveRecords []metrics.MoveRecord
	)
	for i, r := range results {
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         i + 1,
			Script:     r.Script.String(),
			GameMetric: r.Game,
		})
		for _, mm := range r.Moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: i + 1, MoveMetric: mm})
		}
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Msg("stored move records")
	if err := writer.WriteSummary(summary); err != nil {
		return err
	}
	log.Info().Msgf("stored summary in %s", writer.Dir())
	return nil
}
