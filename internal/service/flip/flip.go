package service_flip

import (
	"crypto/rand"

	"github.com/rankingdocopo/core/internal/model"
)

// Flipper draws a fair coin from crypto/rand. Kept behind the usecase
// interface so tests can pin the outcome.
type Flipper struct{}

func New() *Flipper {
	return &Flipper{}
}

func (f *Flipper) Flip() model.CoinSide {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	if b[0]&1 == 0 {
		return model.Heads
	}
	return model.Tails
}
