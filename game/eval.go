package game

// Weights applied by the positional evaluator
const (
	EdgeWeight   = 1.5
	CornerWeight = 2.0
)

// ScoreEvaluator rates a position by the score difference between player and
// the opponent
var ScoreEvaluator = EvaluatorFunc(func(pos *Position, player Owner) float64 {
	return float64(pos.score(player) - pos.score(player.Opponent()))
})

// PositionalEvaluator weighs each disc by where it stands: corners and edges
// count more than interior cells. A finished game scores beyond any weighted
// sum so that wins and losses dominate.
var PositionalEvaluator = EvaluatorFunc(evaluatePositional)

func evaluatePositional(pos *Position, player Owner) float64 {
	opponent := player.Opponent()
	if pos.IsTerminal() {
		diff := float64(pos.score(player) - pos.score(opponent))
		bound := float64(pos.size*pos.size) * EdgeWeight * CornerWeight
		switch {
		case diff > 0:
			return bound + diff
		case diff < 0:
			return -bound + diff
		}
	}

	last := pos.size - 1
	score := 0.0
	for idx, cell := range pos.cells {
		if cell == Empty {
			continue
		}
		row, col := idx/pos.size, idx%pos.size
		rowEdge := row == 0 || row == last
		colEdge := col == 0 || col == last
		weight := 1.0
		if rowEdge && colEdge {
			weight = CornerWeight
		} else if rowEdge || colEdge {
			weight = EdgeWeight
		}
		if cell == player {
			score += weight
		} else {
			score -= weight
		}
	}
	return score
}

// MobilityEvaluator compares how many moves each side has, between -1 and 1.
// Finished games fall back to the score difference.
var MobilityEvaluator = EvaluatorFunc(func(pos *Position, player Owner) float64 {
	if pos.IsTerminal() {
		return ScoreEvaluator(pos, player)
	}
	own := float64(len(pos.Moves(player)))
	other := float64(len(pos.Moves(player.Opponent())))
	return normalize(own, other)
})

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}

type cacheKey struct {
	board  uint64
	ply    int
	player Owner
}

// CachedEvaluator memoizes an evaluator that is insensitive to board
// rotation, sharing one entry between all four rotations of a position. It
// is not safe for concurrent use.
type CachedEvaluator struct {
	inner   Evaluator
	limit   int
	entries map[cacheKey]float64
	hits    int
	misses  int
}

// NewCachedEvaluator wraps inner, which must give the same value for every
// rotation of a position. The cache is cleared once it holds limit entries;
// limit <= 0 means unbounded.
func NewCachedEvaluator(inner Evaluator, limit int) *CachedEvaluator {
	return &CachedEvaluator{
		inner:   inner,
		limit:   limit,
		entries: make(map[cacheKey]float64),
	}
}

func (c *CachedEvaluator) Evaluate(pos *Position, player Owner) float64 {
	key := cacheKey{board: pos.CanonicalKey(), ply: pos.ply, player: player}
	if v, ok := c.entries[key]; ok {
		c.hits++
		return v
	}
	c.misses++
	v := c.inner.Evaluate(pos, player)
	if c.limit > 0 && len(c.entries) >= c.limit {
		clear(c.entries)
	}
	c.entries[key] = v
	return v
}

// Stats returns cache hits and misses so far
func (c *CachedEvaluator) Stats() (hits, misses int) {
	return c.hits, c.misses
}
