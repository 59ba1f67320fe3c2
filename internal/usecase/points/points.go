package usecase_points

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rankingdocopo/core/internal/model"
)

var (
	ErrUserNotFound = errors.New("no such user")
	ErrDailyLimit   = errors.New("daily play limit reached")
	ErrZeroDelta    = errors.New("delta must be non-zero")
	ErrInternal     = errors.New("internal error")
)

//go:generate mockery --name=LedgerRepository --output=./mocks/ledger --filename=ledger.go
type LedgerRepository interface {
	Award(ctx context.Context, tx model.PointsTransaction) error
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
}

//go:generate mockery --name=PlayCounter --output=./mocks/playcounter --filename=playcounter.go
type PlayCounter interface {
	// Bump increments today's play count for (userID, game) and returns
	// the new count. The counter resets at midnight.
	Bump(userID uuid.UUID, game string) (int, error)
	// Refund gives a play back when the reward behind it never landed.
	Refund(userID uuid.UUID, game string) error
}

// Usecase is the points service the mini-games (trivia, shell game, roulette)
// call directly for their rewards. The coin flip never goes through Award;
// its settlement is a single ledger transaction owned by the room resolver.
type Usecase struct {
	ledger   LedgerRepository
	plays    PlayCounter
	dailyCap int
}

func New(ledger LedgerRepository, plays PlayCounter, dailyCap int) *Usecase {
	if dailyCap <= 0 {
		dailyCap = 5
	}
	return &Usecase{
		ledger:   ledger,
		plays:    plays,
		dailyCap: dailyCap,
	}
}

func (u *Usecase) Award(ctx context.Context, userID uuid.UUID, delta int, venueID uuid.UUID, reason string) error {
	if delta == 0 {
		return ErrZeroDelta
	}

	count, err := u.plays.Bump(userID, reason)
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if count > u.dailyCap {
		return ErrDailyLimit
	}

	tx := model.PointsTransaction{
		ID:      uuid.New(),
		UserID:  userID,
		Delta:   delta,
		VenueID: venueID,
		Reason:  reason,
	}
	if err := u.ledger.Award(ctx, tx); err != nil {
		// The play was counted up front; give it back so a storage
		// failure does not eat into the daily cap.
		if refundErr := u.plays.Refund(userID, reason); refundErr != nil {
			err = errors.Join(err, refundErr)
		}
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (u *Usecase) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	balance, err := u.ledger.Balance(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, errors.Join(ErrInternal, err)
	}
	return balance, nil
}
