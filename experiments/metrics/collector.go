package metrics

import (
	"time"

	"othello/game"
)

// SearchMetric describes one call to a decider
type SearchMetric struct {
	Decider     string
	Duration    time.Duration
	Nodes       int     // positions visited by minimax
	Depth       int     // deepest completed minimax iteration
	Simulations int     // MCTS playouts, including the root seed
	Iterations  int     // MCTS selection rounds
	Score       float64 // value of the chosen move, in the decider's own units
	Rationale   string
}

type MoveMetric struct {
	Step   int
	Player game.Owner
	Move   game.Move
	SearchMetric
}

type GameMetric struct {
	Dark       string // player descriptor
	Light      string // player descriptor
	Winner     game.Owner
	DarkScore  int
	LightScore int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

// Collector counts the work done by a single Decide call. Deciders are
// single-threaded, so implementations need no synchronisation.
type Collector interface {
	Start(decider string, at time.Time)
	AddNode()
	AddSimulation()
	AddIteration()
	SetDepth(depth int)
	Complete(at time.Time) SearchMetric
}

type collector struct {
	decider     string
	startTime   time.Time
	nodes       int
	simulations int
	iterations  int
	depth       int
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(decider string, at time.Time) {
	*m = collector{decider: decider, startTime: at}
}

func (m *collector) AddNode() {
	m.nodes++
}

func (m *collector) AddSimulation() {
	m.simulations++
}

func (m *collector) AddIteration() {
	m.iterations++
}

func (m *collector) SetDepth(depth int) {
	m.depth = depth
}

func (m *collector) Complete(at time.Time) SearchMetric {
	return SearchMetric{
		Decider:     m.decider,
		Duration:    at.Sub(m.startTime),
		Nodes:       m.nodes,
		Depth:       m.depth,
		Simulations: m.simulations,
		Iterations:  m.iterations,
	}
}

type dummyCollector struct{}

// NewDummyCollector discards everything; used by searches nested inside
// another search.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(decider string, at time.Time) {}
func (m *dummyCollector) AddNode()                           {}
func (m *dummyCollector) AddSimulation()                     {}
func (m *dummyCollector) AddIteration()                      {}
func (m *dummyCollector) SetDepth(depth int)                 {}
func (m *dummyCollector) Complete(at time.Time) SearchMetric { return SearchMetric{} }
