//go:build !integration
// +build !integration

package service_flip

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rankingdocopo/core/internal/model"
)

func TestFlip(t *testing.T) {
	flipper := New()

	seen := map[model.CoinSide]int{}
	for i := 0; i < 1000; i++ {
		side := flipper.Flip()
		assert.True(t, side.Valid())
		seen[side]++
	}

	// A fair byte source lands on each side well within 1000 draws.
	assert.Positive(t, seen[model.Heads])
	assert.Positive(t, seen[model.Tails])
}
