package model

import (
	"time"

	"github.com/google/uuid"
)

type CoinSide string

const (
	Heads CoinSide = "heads"
	Tails CoinSide = "tails"
)

func (s CoinSide) Valid() bool {
	return s == Heads || s == Tails
}

type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusFinished RoomStatus = "finished"
)

// MaxBetsPerRoom is enforced by the room repository under concurrent joins.
const MaxBetsPerRoom = 2

type Room struct {
	ID         uuid.UUID
	CreatedBy  uuid.UUID
	Status     RoomStatus
	CoinResult *CoinSide
	Bets       []Bet
	CreatedAt  time.Time
}

type Bet struct {
	RoomID     uuid.UUID
	UserID     uuid.UUID
	UserName   string
	UserAvatar string
	Choice     CoinSide
	PointsBet  int
	PlacedAt   time.Time
}

func (r *Room) Full() bool {
	return len(r.Bets) >= MaxBetsPerRoom
}

// Pot is display-only; payout math lives in the ledger settlement.
func (r *Room) Pot() int {
	total := 0
	for _, b := range r.Bets {
		total += b.PointsBet
	}
	return total
}

func (r *Room) BetOf(userID uuid.UUID) *Bet {
	for i := range r.Bets {
		if r.Bets[i].UserID == userID {
			return &r.Bets[i]
		}
	}
	return nil
}

// CreatorBet returns the first bet in join order. A room is never persisted
// without it.
func (r *Room) CreatorBet() *Bet {
	if len(r.Bets) == 0 {
		return nil
	}
	return &r.Bets[0]
}

type PointsTransfer struct {
	UserID uuid.UUID
	Delta  int
}

// FlipResult is the structured outcome of a resolved room: coin side, winner
// (nil when wagers cancelled out) and the ledger transfers applied.
type FlipResult struct {
	RoomID    uuid.UUID
	Coin      CoinSide
	WinnerID  *uuid.UUID
	Transfers []PointsTransfer
}
