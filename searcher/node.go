package searcher

import "othello/game"

const root = 0

// node counts playout results below one move. wins and total are always from
// the searching player's point of view, whoever moves at the node.
type node struct {
	move     game.Move
	wins     int
	total    int
	children []int // indices into tree.nodes
}

func (n *node) winRate() float64 {
	return float64(n.wins) * 100 / float64(n.total)
}

// tree is an arena of nodes owned by a single Decide call; index 0 is the
// root
type tree struct {
	nodes []node
}

func newTree() *tree {
	return &tree{nodes: []node{{move: game.Pass}}}
}

// add creates a child of parent that has already seen one playout
func (t *tree) add(parent int, move game.Move, outcome int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{move: move, wins: outcome, total: 1})
	t.nodes[parent].children = append(t.nodes[parent].children, idx)
	return idx
}

func (t *tree) update(path []int, wins, total int) {
	for _, idx := range path {
		t.nodes[idx].wins += wins
		t.nodes[idx].total += total
	}
}

// selectChild returns the child of parent with the highest UCT value, the
// first one on ties
func (t *tree) selectChild(parent int) int {
	p := &t.nodes[parent]
	if len(p.children) == 0 {
		panic("cannot select from a leaf")
	}
	policy := newUCT(CSquared, p.total)
	best, bestValue := -1, 0.0
	for _, idx := range p.children {
		child := &t.nodes[idx]
		value := policy.value(child.wins, child.total)
		if best < 0 || value > bestValue {
			best, bestValue = idx, value
		}
	}
	return best
}
