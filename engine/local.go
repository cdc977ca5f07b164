package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"othello/experiments/metrics"
	"othello/game"
	"othello/record"
	"othello/searcher/agent"
)

// Local plays a game between two in-process agents
type Local struct {
	size   int
	agents map[game.Owner]agent.Agent
}

func LocalEngine(size int, dark, light agent.Agent) *Local {
	if dark == nil || light == nil {
		panic("need an agent for each colour")
	}
	return &Local{
		size:   size,
		agents: map[game.Owner]agent.Agent{game.Dark: dark, game.Light: light},
	}
}

// Run executes the entire game loop from the standard opening. The side to
// move asks its agent for a move, which is game.Pass when it has none.
func (e *Local) Run(ctx context.Context) (*Result, error) {
	pos, err := game.NewPosition(e.size)
	if err != nil {
		return nil, err
	}

	dark, light := e.agents[game.Dark].Name(), e.agents[game.Light].Name()
	log.Info().Msgf("starting %dx%d game, dark=%s light=%s", e.size, e.size, dark, light)

	start := time.Now()
	var (
		moves       []game.Move
		moveMetrics []metrics.MoveMetric
	)
	for step := 1; !pos.IsTerminal(); step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if step > MaxMoves {
			return nil, fmt.Errorf("game did not finish within %d moves", MaxMoves)
		}

		mover := pos.ToMove()
		a := e.agents[mover]
		move, metric, err := a.FindMove(pos, mover)
		if err != nil {
			return nil, fmt.Errorf("%s failed to move as %v: %w", a.Name(), mover, err)
		}
		next, err := pos.Play(mover, move)
		if err != nil {
			return nil, fmt.Errorf("%s as %v: %w", a.Name(), mover, err)
		}
		log.Debug().Msgf("step %d: %v plays %v, %s", step, mover, move, metric.Rationale)

		moves = append(moves, move)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       mover,
			Move:         move,
			SearchMetric: metric,
		})
		pos = next
	}

	end := time.Now()
	script := record.New(pos, moves)
	gameMetric := metrics.GameMetric{
		Dark:       dark,
		Light:      light,
		Winner:     pos.Winner(),
		DarkScore:  script.DarkScore,
		LightScore: script.LightScore,
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		TotalMoves: len(script.Moves),
	}
	log.Info().Msgf("game over after %d moves: %d-%d, winner %v", gameMetric.TotalMoves,
		gameMetric.DarkScore, gameMetric.LightScore, gameMetric.Winner)

	return &Result{
		Final:  pos,
		Script: script,
		Game:   gameMetric,
		Moves:  moveMetrics,
	}, nil
}
