package learning

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/patrikeh/go-deep"

	"othello/game"
)

// Config describes the network and how it is trained
type Config struct {
	Hidden       []int
	LearningRate float64
	Momentum     float64
}

func DefaultConfig() Config {
	return Config{
		Hidden:       []int{32, 16},
		LearningRate: 0.01,
		Momentum:     0.5,
	}
}

// Model is a learned evaluator: a regression network predicting the final
// disc differential of a position, scaled to [-1, 1] by the board area.
// A model is bound to one board size and is not safe for concurrent use.
type Model struct {
	size   int
	config Config
	net    *deep.Neural
}

// modelFile is the on-disk form of a model
type modelFile struct {
	Size    int
	Config  Config
	Weights [][][]float64
}

// NewModel returns an untrained model with small random weights
func NewModel(size int, config Config) *Model {
	return &Model{
		size:   size,
		config: config,
		net: deep.NewNeural(&deep.Config{
			Inputs:     Inputs(size),
			Layout:     append(append([]int{}, config.Hidden...), 1),
			Activation: deep.ActivationTanh,
			Mode:       deep.ModeRegression,
			Weight:     deep.NewNormal(0.1, 0.0),
			Bias:       true,
		}),
	}
}

func (m *Model) Size() int {
	return m.size
}

func (m *Model) Config() Config {
	return m.config
}

// Predict returns the raw network output for pos, about -1 for a lost game
// and 1 for a wipeout
func (m *Model) Predict(pos *game.Position, player game.Owner) float64 {
	prediction := m.net.Predict(Features(pos, player))[0]
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return 0
	}
	return prediction
}

// Evaluate implements game.Evaluator. It estimates the final disc
// differential; finished games and boards of another size get the exact
// score difference instead.
func (m *Model) Evaluate(pos *game.Position, player game.Owner) float64 {
	if pos.IsTerminal() || pos.Size() != m.size {
		return game.ScoreEvaluator(pos, player)
	}
	return m.Predict(pos, player) * float64(m.size*m.size)
}

func (m *Model) Save(path string) error {
	data, err := json.Marshal(modelFile{
		Size:    m.size,
		Config:  m.config,
		Weights: m.net.Dump().Weights,
	})
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model %s: %w", path, err)
	}
	return nil
}

func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	badWidth := func(w int) bool { return w < 1 }
	if file.Size < 2 || file.Size%2 != 0 || len(file.Config.Hidden) == 0 || slices.ContainsFunc(file.Config.Hidden, badWidth) {
		return nil, fmt.Errorf("model %s has an invalid layout", path)
	}

	m := NewModel(file.Size, file.Config)
	if !sameShape(m.net.Dump().Weights, file.Weights) {
		return nil, fmt.Errorf("model %s does not match its layout", path)
	}
	m.net.ApplyWeights(file.Weights)
	return m, nil
}

// sameShape reports whether every layer and neuron of got has as many weights as want
func sameShape(want, got [][][]float64) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if len(want[i]) != len(got[i]) {
			return false
		}
		for j := range want[i] {
			if len(want[i][j]) != len(got[i][j]) {
				return false
			}
		}
	}
	return true
}
