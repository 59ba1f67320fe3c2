package model

import (
	"time"

	"github.com/google/uuid"
)

type PointsTransaction struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Delta        int
	BalanceAfter int
	VenueID      uuid.UUID
	Reason       string
	CreatedAt    time.Time
}
