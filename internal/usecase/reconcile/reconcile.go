package usecase_reconcile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rankingdocopo/core/internal/model"
)

var (
	ErrRoomNotFinished = errors.New("room is not finished yet")
	ErrNoSnapshot      = errors.New("no balance snapshot for this room")
	ErrInternal        = errors.New("internal error")
)

//go:generate mockery --name=SnapshotStore --output=./mocks/snapshot --filename=snapshot.go
type SnapshotStore interface {
	// Capture stores the balance observed at room entry. Set-if-absent:
	// the first observation wins, later calls are no-ops.
	Capture(userID, roomID uuid.UUID, points int) error
	Get(userID, roomID uuid.UUID) (points int, ok bool, err error)
	Clear(userID, roomID uuid.UUID) error
}

//go:generate mockery --name=ResultSource --output=./mocks/result --filename=result.go
type ResultSource interface {
	// FlipResult returns the structured outcome of a finished room,
	// ok=false when the store predates structured results.
	FlipResult(ctx context.Context, roomID uuid.UUID) (model.FlipResult, bool, error)
}

// Usecase infers the win/lose/tie verdict a player sees after a flip. When the
// store carries a structured result it is read directly; otherwise the verdict
// falls back to diffing the balance captured at room entry against the current
// one. The diff is best-effort: any unrelated point change between the two
// reads is misattributed to the flip, and that approximation is accepted.
type Usecase struct {
	snapshots SnapshotStore
	results   ResultSource
}

func New(snapshots SnapshotStore, results ResultSource) *Usecase {
	return &Usecase{
		snapshots: snapshots,
		results:   results,
	}
}

// Enter records the player's balance at the moment they first observe the
// room. Intervening balance changes never refresh it.
func (u *Usecase) Enter(userID, roomID uuid.UUID, points int) error {
	if err := u.snapshots.Capture(userID, roomID, points); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (u *Usecase) Result(ctx context.Context, room model.Room, userID uuid.UUID, currentPoints int) (model.Outcome, error) {
	if room.Status != model.StatusFinished {
		return model.Outcome{}, ErrRoomNotFinished
	}

	result, ok, err := u.results.FlipResult(ctx, room.ID)
	if err != nil {
		return model.Outcome{}, errors.Join(ErrInternal, err)
	}
	if ok {
		return outcomeFromResult(result, userID), nil
	}

	initial, ok, err := u.snapshots.Get(userID, room.ID)
	if err != nil {
		return model.Outcome{}, errors.Join(ErrInternal, err)
	}
	if !ok {
		return model.Outcome{}, ErrNoSnapshot
	}
	return outcomeFromDelta(currentPoints - initial), nil
}

// Leave drops the snapshot. Local-only: the room itself is untouched and an
// in-flight resolution still lands on the ledger.
func (u *Usecase) Leave(userID, roomID uuid.UUID) error {
	if err := u.snapshots.Clear(userID, roomID); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func outcomeFromResult(result model.FlipResult, userID uuid.UUID) model.Outcome {
	for _, t := range result.Transfers {
		if t.UserID != userID {
			continue
		}
		return outcomeFromDelta(t.Delta)
	}
	return model.Outcome{Verdict: model.VerdictTied}
}

func outcomeFromDelta(delta int) model.Outcome {
	switch {
	case delta > 0:
		return model.Outcome{Verdict: model.VerdictWon, Amount: delta}
	case delta < 0:
		return model.Outcome{Verdict: model.VerdictLost, Amount: -delta}
	default:
		return model.Outcome{Verdict: model.VerdictTied}
	}
}
