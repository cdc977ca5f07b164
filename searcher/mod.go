package searcher

import (
	"errors"
	"fmt"
	"math"
	"time"

	"lukechampine.com/frand"

	"othello/experiments/metrics"
	"othello/game"
)

// ErrNoLegalMoves is returned by Decide when the player has to pass. Passing
// is the caller's business.
var ErrNoLegalMoves = errors.New("player has no legal moves")

// Decider picks a move for player within roughly budget of wall-clock time.
// The budget is cooperative: a slow evaluator can overrun it. Deciders keep
// per-call state and are not safe for concurrent use.
type Decider interface {
	Decide(pos *game.Position, eval game.Evaluator, player game.Owner, budget time.Duration) (game.Move, metrics.SearchMetric, error)
}

type Option func(s *settings)

// settings holds the knobs shared by every decider. Options that do not apply
// to a decider are ignored by it.
type settings struct {
	now     func() time.Time
	metrics metrics.Collector
	seed    uint64

	maxSimulations int
	hybrid         bool
	playoutDepth   int
	randomChance   float64
	playoutSlice   time.Duration
}

// Playout defaults for WithMinimaxPlayouts
const (
	DefaultPlayoutDepth = 2
	DefaultRandomChance = 0.1
	DefaultPlayoutSlice = 10 * time.Millisecond
)

func newSettings(options []Option) settings {
	s := settings{ // Default values
		now:     time.Now,
		metrics: metrics.NewCollector(),
		seed:    frand.Uint64n(math.MaxUint64),
	}
	for _, option := range options {
		option(&s)
	}
	return s
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(s *settings) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
	}
}

// WithMaxSimulations caps the number of MCTS playouts per decision
func WithMaxSimulations(simulations int) Option {
	return func(s *settings) {
		if simulations > 0 {
			s.maxSimulations = simulations
		}
	}
}

// WithMinimaxPlayouts switches MCTS to hybrid playouts: each playout move is
// random with probability randomChance and otherwise the best move of a
// depth-limited minimax given slice to think.
func WithMinimaxPlayouts(depth int, randomChance float64, slice time.Duration) Option {
	return func(s *settings) {
		s.hybrid = true
		s.playoutDepth = DefaultPlayoutDepth
		if depth > 0 {
			s.playoutDepth = depth
		}
		s.randomChance = DefaultRandomChance
		if randomChance >= 0 && randomChance <= 1 {
			s.randomChance = randomChance
		}
		s.playoutSlice = DefaultPlayoutSlice
		if slice > 0 {
			s.playoutSlice = slice
		}
	}
}

// play applies a move the searcher generated itself, so failure is a bug
func play(pos *game.Position, player game.Owner, move game.Move) *game.Position {
	next, err := pos.Play(player, move)
	if err != nil {
		panic(fmt.Sprintf("searcher generated an illegal move: %v", err))
	}
	return next
}
