package learning

import (
	"context"
	"fmt"

	"github.com/patrikeh/go-deep/training"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"othello/game"
	"othello/record"
)

// Dataset turns recorded games into training examples. Every position where
// the side to move places a disc becomes one example, labelled with the final
// score difference from the mover's point of view over the board area.
// Scripts for other board sizes are skipped.
func Dataset(size int, scripts []*record.Script) (training.Examples, error) {
	var examples training.Examples
	for i, script := range scripts {
		if script.Size != size {
			continue
		}
		positions, err := script.Replay()
		if err != nil {
			return nil, fmt.Errorf("script %d: %w", i+1, err)
		}
		final := positions[len(positions)-1]
		if !final.IsTerminal() {
			return nil, fmt.Errorf("script %d: %w: game is not over", i+1, record.ErrMalformedScript)
		}

		area := float64(size * size)
		for _, pos := range positions {
			mover := pos.ToMove()
			if pos.IsTerminal() || !pos.HasLegalMoves(mover) {
				continue
			}
			examples = append(examples, training.Example{
				Input:    Features(pos, mover),
				Response: []float64{game.ScoreEvaluator(final, mover) / area},
			})
		}
	}
	return examples, nil
}

// Train fits the model to examples with stochastic gradient descent, one pass
// over the shuffled examples per epoch, and returns the mean squared error
// after each epoch.
func (m *Model) Train(ctx context.Context, examples training.Examples, epochs int) ([]float64, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("no training examples")
	}
	trainer := training.NewTrainer(training.NewSGD(m.config.LearningRate, m.config.Momentum, 0.0, false), 0)

	losses := make([]float64, 0, epochs)
	for epoch := 1; epoch <= epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return losses, err
		}
		examples.Shuffle()
		trainer.Train(m.net, examples, nil, 1)

		loss := m.Loss(examples)
		losses = append(losses, loss)
		log.Info().Msgf("epoch %d of %d: mse %.5f over %d examples", epoch, epochs, loss, len(examples))
	}
	return losses, nil
}

// Loss is the mean squared error of the model over examples
func (m *Model) Loss(examples training.Examples) float64 {
	if len(examples) == 0 {
		return 0
	}
	total := lo.SumBy(examples, func(e training.Example) float64 {
		diff := m.net.Predict(e.Input)[0] - e.Response[0]
		return diff * diff
	})
	return total / float64(len(examples))
}
