package searcher

import "math"

const CSquared = 2.0 // Exploration constant, C = sqrt(2)

// Playout outcomes from the searching player's point of view. A draw is a
// LOSS.
const (
	WIN  = 1
	LOSS = 0
)

// uct scores the children of one parent: wins/n + sqrt(C^2*ln(N)/n)
type uct struct {
	numerator float64
}

func newUCT(cSquared float64, parentVisits int) uct {
	if parentVisits == 0 {
		panic("parent visits cannot be 0")
	}
	return uct{numerator: cSquared * math.Log(float64(parentVisits))}
}

func (u uct) value(wins, visits int) float64 {
	if visits == 0 {
		panic("child visits cannot be 0")
	}
	n := float64(visits)
	return float64(wins)/n + math.Sqrt(u.numerator/n)
}
