package usecase_coinflip

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rankingdocopo/core/internal/model"
)

var (
	ErrInvalidWager       = errors.New("wager must be positive")
	ErrInvalidChoice      = errors.New("choice must be heads or tails")
	ErrInsufficientPoints = errors.New("not enough points")
	ErrRoomNotFound       = errors.New("no such room")
	ErrSeatTaken          = errors.New("room is no longer available")
	ErrAlreadyInRoom      = errors.New("user already holds a bet in this room")
	ErrNotCreator         = errors.New("only the creator may do this")
	ErrRoomNotReady       = errors.New("room needs a second player")
	ErrRoomFinished       = errors.New("room is already finished")
	ErrOpponentJoined     = errors.New("room cannot be deleted once an opponent joined")
	ErrInternal           = errors.New("internal error")
)

//go:generate mockery --name=RoomRepository --output=./mocks/repository --filename=repository.go
type RoomRepository interface {
	// CreateWithBet inserts the room and its creator bet atomically.
	// A room with zero bets must never exist.
	CreateWithBet(ctx context.Context, room model.Room) error
	ByID(ctx context.Context, roomID uuid.UUID) (model.Room, error)
	// OpenRooms lists waiting rooms holding exactly one bet, excluding
	// rooms created by excludeUserID.
	OpenRooms(ctx context.Context, excludeUserID uuid.UUID) ([]model.Room, error)
	// AddBet appends a second bet. The store arbitrates concurrent joiners:
	// the loser gets ErrSeatTaken, a finished room ErrRoomFinished.
	AddBet(ctx context.Context, bet model.Bet) error
	// Finish transitions waiting -> finished, recording the coin side and
	// winner, and applies the transfers in the same transaction: a room is
	// never finished with an unsettled pot. A room already finished yields
	// ErrRoomFinished; finished rooms never go back.
	Finish(ctx context.Context, result model.FlipResult, reason string) error
	// Delete removes a waiting room holding fewer than two bets.
	Delete(ctx context.Context, roomID uuid.UUID) error
}

//go:generate mockery --name=Ledger --output=./mocks/ledger --filename=ledger.go
type Ledger interface {
	User(ctx context.Context, userID uuid.UUID) (model.User, error)
}

//go:generate mockery --name=Flipper --output=./mocks/flipper --filename=flipper.go
type Flipper interface {
	Flip() model.CoinSide
}

// Notifier pushes lobby/room events. Clients without a socket fall back to
// polling ByID through the HTTP surface.
type Notifier interface {
	RoomOpened(room model.Room)
	RoomFilled(room model.Room)
	RoomClosed(roomID uuid.UUID)
	FlipFinished(result model.FlipResult)
}

type Usecase struct {
	rooms    RoomRepository
	ledger   Ledger
	flipper  Flipper
	notifier Notifier
}

func New(
	rooms RoomRepository,
	ledger Ledger,
	flipper Flipper,
	notifier Notifier,
) *Usecase {
	return &Usecase{
		rooms:    rooms,
		ledger:   ledger,
		flipper:  flipper,
		notifier: notifier,
	}
}

func (u *Usecase) CreateRoom(ctx context.Context, userID uuid.UUID, wager int, choice model.CoinSide) (model.Room, error) {
	if wager <= 0 {
		return model.Room{}, ErrInvalidWager
	}
	if !choice.Valid() {
		return model.Room{}, ErrInvalidChoice
	}

	user, err := u.ledger.User(ctx, userID)
	if err != nil {
		return model.Room{}, errors.Join(ErrInternal, err)
	}
	if user.Points < wager {
		return model.Room{}, ErrInsufficientPoints
	}

	room := model.Room{
		ID:        uuid.New(),
		CreatedBy: userID,
		Status:    model.StatusWaiting,
		Bets: []model.Bet{{
			UserID:     userID,
			UserName:   user.Name,
			UserAvatar: user.AvatarURL,
			Choice:     choice,
			PointsBet:  wager,
		}},
	}
	room.Bets[0].RoomID = room.ID

	if err := u.rooms.CreateWithBet(ctx, room); err != nil {
		return model.Room{}, errors.Join(ErrInternal, err)
	}

	u.notifier.RoomOpened(room)
	return room, nil
}

// JoinRoom seats userID as the second player. The joiner's wager always
// matches the creator's; the choice is their own.
func (u *Usecase) JoinRoom(ctx context.Context, roomID, userID uuid.UUID, choice model.CoinSide) (model.Room, error) {
	if !choice.Valid() {
		return model.Room{}, ErrInvalidChoice
	}

	room, err := u.rooms.ByID(ctx, roomID)
	if err != nil {
		return model.Room{}, u.wrapLookup(err)
	}
	if room.Status == model.StatusFinished {
		return model.Room{}, ErrRoomFinished
	}
	if room.CreatedBy == userID || room.BetOf(userID) != nil {
		return model.Room{}, ErrAlreadyInRoom
	}
	if room.Full() {
		return model.Room{}, ErrSeatTaken
	}

	wager := room.CreatorBet().PointsBet

	user, err := u.ledger.User(ctx, userID)
	if err != nil {
		return model.Room{}, errors.Join(ErrInternal, err)
	}
	if user.Points < wager {
		return model.Room{}, ErrInsufficientPoints
	}

	bet := model.Bet{
		RoomID:     roomID,
		UserID:     userID,
		UserName:   user.Name,
		UserAvatar: user.AvatarURL,
		Choice:     choice,
		PointsBet:  wager,
	}
	if err := u.rooms.AddBet(ctx, bet); err != nil {
		// Lost race gets surfaced as-is so the caller re-syncs the lobby.
		if errors.Is(err, ErrSeatTaken) || errors.Is(err, ErrRoomFinished) || errors.Is(err, ErrRoomNotFound) {
			return model.Room{}, err
		}
		return model.Room{}, errors.Join(ErrInternal, err)
	}

	room, err = u.rooms.ByID(ctx, roomID)
	if err != nil {
		return model.Room{}, u.wrapLookup(err)
	}

	u.notifier.RoomFilled(room)
	return room, nil
}

// settleReason labels the ledger rows a flip settlement writes.
const settleReason = "coinflip"

// StartRoom resolves the room: flips the coin, marks the room finished and
// settles the pot. The waiting->finished transition in the store is the
// arbiter against a double start, and it carries the settlement with it, so
// a failure on either side leaves the room startable again.
func (u *Usecase) StartRoom(ctx context.Context, roomID, userID uuid.UUID) (model.FlipResult, error) {
	room, err := u.rooms.ByID(ctx, roomID)
	if err != nil {
		return model.FlipResult{}, u.wrapLookup(err)
	}
	if room.CreatedBy != userID {
		return model.FlipResult{}, ErrNotCreator
	}
	if room.Status == model.StatusFinished {
		return model.FlipResult{}, ErrRoomFinished
	}
	if len(room.Bets) != model.MaxBetsPerRoom {
		return model.FlipResult{}, ErrRoomNotReady
	}

	coin := u.flipper.Flip()
	result := resolve(room, coin)

	if err := u.rooms.Finish(ctx, result, settleReason); err != nil {
		if errors.Is(err, ErrRoomFinished) {
			return model.FlipResult{}, ErrRoomFinished
		}
		return model.FlipResult{}, errors.Join(ErrInternal, err)
	}

	u.notifier.FlipFinished(result)
	return result, nil
}

// DeleteRoom removes a waiting room. Once the opponent is seated the room is
// locked in and only a flip can end it.
func (u *Usecase) DeleteRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	room, err := u.rooms.ByID(ctx, roomID)
	if err != nil {
		return u.wrapLookup(err)
	}
	if room.CreatedBy != userID {
		return ErrNotCreator
	}
	if room.Status == model.StatusFinished {
		return ErrRoomFinished
	}
	if room.Full() {
		return ErrOpponentJoined
	}

	if err := u.rooms.Delete(ctx, roomID); err != nil {
		if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrOpponentJoined) {
			return err
		}
		return errors.Join(ErrInternal, err)
	}

	u.notifier.RoomClosed(roomID)
	return nil
}

// OpenRooms is the lobby listing: one-seat waiting rooms from other creators.
func (u *Usecase) OpenRooms(ctx context.Context, excludeUserID uuid.UUID) ([]model.Room, error) {
	rooms, err := u.rooms.OpenRooms(ctx, excludeUserID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return rooms, nil
}

func (u *Usecase) Room(ctx context.Context, roomID uuid.UUID) (model.Room, error) {
	room, err := u.rooms.ByID(ctx, roomID)
	if err != nil {
		return model.Room{}, u.wrapLookup(err)
	}
	return room, nil
}

func (u *Usecase) wrapLookup(err error) error {
	if errors.Is(err, ErrRoomNotFound) {
		return ErrRoomNotFound
	}
	return errors.Join(ErrInternal, err)
}

// resolve computes the structured outcome for a two-bet room. Exactly one
// correct guess moves the loser's wager to the winner; both right or both
// wrong returns the wagers untouched (a tie).
func resolve(room model.Room, coin model.CoinSide) model.FlipResult {
	result := model.FlipResult{
		RoomID: room.ID,
		Coin:   coin,
	}

	var winner, loser *model.Bet
	for i := range room.Bets {
		b := &room.Bets[i]
		if b.Choice == coin {
			if winner != nil {
				// Both guessed right.
				return result
			}
			winner = b
		} else {
			if loser != nil {
				// Both guessed wrong.
				return result
			}
			loser = b
		}
	}
	if winner == nil || loser == nil {
		return result
	}

	winnerID := winner.UserID
	result.WinnerID = &winnerID
	result.Transfers = []model.PointsTransfer{
		{UserID: winner.UserID, Delta: loser.PointsBet},
		{UserID: loser.UserID, Delta: -loser.PointsBet},
	}
	return result
}
