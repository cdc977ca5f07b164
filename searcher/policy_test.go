package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(CSquared, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTValue(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(CSquared, 100)
		got := policy.value(5, 10)

		expected := 5.0/10 + math.Sqrt2*math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute w/n + C*sqrt(ln(N)/n) with C = sqrt(2)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		require.Panics(t, func() {
			policy.value(5, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		score1 := newUCT(CSquared, 100).value(5, 10)
		score2 := newUCT(CSquared, 1000).value(5, 10)

		require.Greater(t, score2, score1,
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		score1 := policy.value(5, 10)
		score2 := policy.value(5, 20)

		require.Greater(t, score1, score2,
			"More child visits should decrease exploration term")
	})

	t.Run("exploitation term increases with wins", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		score1 := policy.value(5, 10)
		score2 := policy.value(8, 10)

		require.Greater(t, score2, score1,
			"More wins should increase exploitation term")
	})

	t.Run("single parent visit has no exploration", func(t *testing.T) {
		require.Equal(t, 0.5, newUCT(CSquared, 1).value(1, 2), "ln(1) is 0")
	})
}
