package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepthScorer_PositiveMonotone(t *testing.T) {
	s := DefaultScorer()

	prev := s.Positive(0)
	assert.Equal(t, MatchLabelPositive, prev)
	for d := 1; d <= 20; d++ {
		cur := s.Positive(d)
		assert.LessOrEqual(t, cur, prev, "label must not increase at depth %d", d)
		assert.GreaterOrEqual(t, cur, s.Floor)
		prev = cur
	}
}

func TestDepthScorer_Negatives(t *testing.T) {
	s := DefaultScorer()

	same := s.Negative(0, true)
	cross := s.Negative(0, false)
	assert.Greater(t, same, cross, "same-subject negatives are harder, closer to the boundary")
	assert.Less(t, same, s.Positive(20), "negatives stay below any positive")

	// Depth does not move negative labels.
	assert.Equal(t, same, s.Negative(5, true))
	assert.Equal(t, cross, s.Negative(5, false))
}
