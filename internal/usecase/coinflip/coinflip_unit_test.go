//go:build !integration
// +build !integration

package usecase_coinflip

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	flipper_mocks "github.com/rankingdocopo/core/internal/usecase/coinflip/mocks/flipper"
	ledger_mocks "github.com/rankingdocopo/core/internal/usecase/coinflip/mocks/ledger"
	repo_mocks "github.com/rankingdocopo/core/internal/usecase/coinflip/mocks/repository"

	"github.com/rankingdocopo/core/internal/model"
)

type UsecaseCoinflipUnitSuite struct {
	suite.Suite
}

// recordingNotifier satisfies Notifier without a socket behind it.
type recordingNotifier struct {
	mu       sync.Mutex
	opened   []model.Room
	filled   []model.Room
	closed   []uuid.UUID
	finished []model.FlipResult
}

func (n *recordingNotifier) RoomOpened(room model.Room) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opened = append(n.opened, room)
}

func (n *recordingNotifier) RoomFilled(room model.Room) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.filled = append(n.filled, room)
}

func (n *recordingNotifier) RoomClosed(roomID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = append(n.closed, roomID)
}

func (n *recordingNotifier) FlipFinished(result model.FlipResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.finished = append(n.finished, result)
}

type resources struct {
	usecase  *Usecase
	rooms    *repo_mocks.RoomRepository
	ledger   *ledger_mocks.Ledger
	flipper  *flipper_mocks.Flipper
	notifier *recordingNotifier
	ctx      context.Context
}

func initResources(t provider.T) *resources {
	rooms := repo_mocks.NewRoomRepository(t)
	ledger := ledger_mocks.NewLedger(t)
	flipper := flipper_mocks.NewFlipper(t)
	notifier := &recordingNotifier{}
	usecase := New(rooms, ledger, flipper, notifier)

	return &resources{
		usecase:  usecase,
		rooms:    rooms,
		ledger:   ledger,
		flipper:  flipper,
		notifier: notifier,
		ctx:      context.Background(),
	}
}

type roomBuilder struct {
	room model.Room
}

func newRoomBuilder() *roomBuilder {
	creator := uuid.New()
	roomID := uuid.New()
	return &roomBuilder{
		room: model.Room{
			ID:        roomID,
			CreatedBy: creator,
			Status:    model.StatusWaiting,
			Bets: []model.Bet{{
				RoomID:    roomID,
				UserID:    creator,
				UserName:  "Ana",
				Choice:    model.Heads,
				PointsBet: 10,
			}},
		},
	}
}

func (b *roomBuilder) withOpponent(choice model.CoinSide) *roomBuilder {
	b.room.Bets = append(b.room.Bets, model.Bet{
		RoomID:    b.room.ID,
		UserID:    uuid.New(),
		UserName:  "Bruno",
		Choice:    choice,
		PointsBet: b.room.Bets[0].PointsBet,
	})
	return b
}

func (b *roomBuilder) finished(coin model.CoinSide) *roomBuilder {
	b.room.Status = model.StatusFinished
	b.room.CoinResult = &coin
	return b
}

func (b *roomBuilder) build() model.Room {
	return b.room
}

func (suite *UsecaseCoinflipUnitSuite) TestCreateRoom(t provider.T) {
	t.Parallel()

	userID := uuid.New()

	testCases := []struct {
		name          string
		wager         int
		choice        model.CoinSide
		setupMocks    func(r *resources)
		expectedError error
	}{
		{
			name:   "Should create room with creator bet",
			wager:  10,
			choice: model.Heads,
			setupMocks: func(r *resources) {
				r.ledger.On("User", r.ctx, userID).
					Return(model.User{ID: userID, Name: "Ana", Points: 100}, nil).Once()
				r.rooms.On("CreateWithBet", r.ctx, mock.AnythingOfType("model.Room")).
					Return(nil).Once()
			},
		},
		{
			name:          "Should reject non-positive wager",
			wager:         0,
			choice:        model.Heads,
			setupMocks:    func(r *resources) {},
			expectedError: ErrInvalidWager,
		},
		{
			name:          "Should reject unknown side",
			wager:         10,
			choice:        model.CoinSide("edge"),
			setupMocks:    func(r *resources) {},
			expectedError: ErrInvalidChoice,
		},
		{
			name:   "Should reject wager above balance",
			wager:  500,
			choice: model.Tails,
			setupMocks: func(r *resources) {
				r.ledger.On("User", r.ctx, userID).
					Return(model.User{ID: userID, Points: 100}, nil).Once()
			},
			expectedError: ErrInsufficientPoints,
		},
		{
			name:   "Should wrap repository failure",
			wager:  10,
			choice: model.Heads,
			setupMocks: func(r *resources) {
				r.ledger.On("User", r.ctx, userID).
					Return(model.User{ID: userID, Points: 100}, nil).Once()
				r.rooms.On("CreateWithBet", r.ctx, mock.AnythingOfType("model.Room")).
					Return(errors.New("db down")).Once()
			},
			expectedError: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)

			room, err := r.usecase.CreateRoom(r.ctx, userID, tc.wager, tc.choice)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Empty(t, r.notifier.opened)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, model.StatusWaiting, room.Status)
			assert.Equal(t, userID, room.CreatedBy)
			assert.Len(t, room.Bets, 1)
			assert.Equal(t, tc.wager, room.Bets[0].PointsBet)
			assert.Equal(t, tc.choice, room.Bets[0].Choice)
			assert.Len(t, r.notifier.opened, 1)
		})
	}
}

func (suite *UsecaseCoinflipUnitSuite) TestJoinRoom(t provider.T) {
	t.Parallel()

	t.Run("Should seat joiner with the creator's wager", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().build()
		joiner := uuid.New()
		full := newRoomBuilder().withOpponent(model.Tails).build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()
		r.ledger.On("User", r.ctx, joiner).
			Return(model.User{ID: joiner, Name: "Bruno", Points: 50}, nil).Once()
		r.rooms.On("AddBet", r.ctx, mock.MatchedBy(func(bet model.Bet) bool {
			return bet.UserID == joiner && bet.PointsBet == 10 && bet.Choice == model.Tails
		})).Return(nil).Once()
		r.rooms.On("ByID", r.ctx, room.ID).Return(full, nil).Once()

		got, err := r.usecase.JoinRoom(r.ctx, room.ID, joiner, model.Tails)

		assert.NoError(t, err)
		assert.Len(t, got.Bets, 2)
		assert.Len(t, r.notifier.filled, 1)
	})

	t.Run("Should reject creator joining own room", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()

		_, err := r.usecase.JoinRoom(r.ctx, room.ID, room.CreatedBy, model.Tails)

		assert.ErrorIs(t, err, ErrAlreadyInRoom)
	})

	t.Run("Should reject full room before any write", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().withOpponent(model.Tails).build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()

		_, err := r.usecase.JoinRoom(r.ctx, room.ID, uuid.New(), model.Heads)

		assert.ErrorIs(t, err, ErrSeatTaken)
	})

	t.Run("Should surface lost race from the store", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().build()
		joiner := uuid.New()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()
		r.ledger.On("User", r.ctx, joiner).
			Return(model.User{ID: joiner, Points: 50}, nil).Once()
		r.rooms.On("AddBet", r.ctx, mock.AnythingOfType("model.Bet")).
			Return(ErrSeatTaken).Once()

		_, err := r.usecase.JoinRoom(r.ctx, room.ID, joiner, model.Heads)

		assert.ErrorIs(t, err, ErrSeatTaken)
		assert.Empty(t, r.notifier.filled)
	})

	t.Run("Should reject joiner who cannot cover the wager", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().build()
		joiner := uuid.New()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()
		r.ledger.On("User", r.ctx, joiner).
			Return(model.User{ID: joiner, Points: 3}, nil).Once()

		_, err := r.usecase.JoinRoom(r.ctx, room.ID, joiner, model.Heads)

		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})

	t.Run("Should reject finished room", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().withOpponent(model.Tails).finished(model.Heads).build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()

		_, err := r.usecase.JoinRoom(r.ctx, room.ID, uuid.New(), model.Heads)

		assert.ErrorIs(t, err, ErrRoomFinished)
	})
}

func (suite *UsecaseCoinflipUnitSuite) TestStartRoom(t provider.T) {
	t.Parallel()

	t.Run("Should flip, finish and settle when creator starts a full room", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().withOpponent(model.Tails).build()
		winner := room.Bets[0].UserID
		loser := room.Bets[1].UserID

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()
		r.flipper.On("Flip").Return(model.Heads).Once()
		r.rooms.On("Finish", r.ctx, mock.MatchedBy(func(result model.FlipResult) bool {
			return result.RoomID == room.ID && result.Coin == model.Heads &&
				result.WinnerID != nil && *result.WinnerID == winner
		}), "coinflip").Return(nil).Once()

		result, err := r.usecase.StartRoom(r.ctx, room.ID, room.CreatedBy)

		assert.NoError(t, err)
		assert.Equal(t, model.Heads, result.Coin)
		assert.Len(t, result.Transfers, 2)
		assert.Equal(t, 10, transferOf(result, winner))
		assert.Equal(t, -10, transferOf(result, loser))
		assert.Len(t, r.notifier.finished, 1)
	})

	t.Run("Should report a tie with no transfers when both picked the coin side", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().withOpponent(model.Heads).build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()
		r.flipper.On("Flip").Return(model.Heads).Once()
		r.rooms.On("Finish", r.ctx, mock.MatchedBy(func(result model.FlipResult) bool {
			return result.WinnerID == nil && len(result.Transfers) == 0
		}), "coinflip").Return(nil).Once()

		result, err := r.usecase.StartRoom(r.ctx, room.ID, room.CreatedBy)

		assert.NoError(t, err)
		assert.Nil(t, result.WinnerID)
		assert.Empty(t, result.Transfers)
	})

	t.Run("Should reject non-creator", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().withOpponent(model.Tails).build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()

		_, err := r.usecase.StartRoom(r.ctx, room.ID, uuid.New())

		assert.ErrorIs(t, err, ErrNotCreator)
	})

	t.Run("Should reject room without a second bet", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()

		_, err := r.usecase.StartRoom(r.ctx, room.ID, room.CreatedBy)

		assert.ErrorIs(t, err, ErrRoomNotReady)
	})

	t.Run("Should not settle when a concurrent start won the transition", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().withOpponent(model.Tails).build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()
		r.flipper.On("Flip").Return(model.Tails).Once()
		r.rooms.On("Finish", r.ctx, mock.AnythingOfType("model.FlipResult"), "coinflip").
			Return(ErrRoomFinished).Once()

		_, err := r.usecase.StartRoom(r.ctx, room.ID, room.CreatedBy)

		assert.ErrorIs(t, err, ErrRoomFinished)
		assert.Empty(t, r.notifier.finished)
	})

	t.Run("Should leave the room startable when the resolution fails", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().withOpponent(model.Tails).build()

		// The status flip and the settlement share one transaction, so a
		// failure rolls both back and a retry starts from a waiting room.
		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Twice()
		r.flipper.On("Flip").Return(model.Heads).Twice()
		r.rooms.On("Finish", r.ctx, mock.AnythingOfType("model.FlipResult"), "coinflip").
			Return(errors.New("settlement failed")).Once()

		_, err := r.usecase.StartRoom(r.ctx, room.ID, room.CreatedBy)

		assert.ErrorIs(t, err, ErrInternal)
		assert.NotErrorIs(t, err, ErrRoomFinished)
		assert.Empty(t, r.notifier.finished)

		r.rooms.On("Finish", r.ctx, mock.AnythingOfType("model.FlipResult"), "coinflip").
			Return(nil).Once()

		result, err := r.usecase.StartRoom(r.ctx, room.ID, room.CreatedBy)

		assert.NoError(t, err)
		assert.Len(t, result.Transfers, 2)
		assert.Len(t, r.notifier.finished, 1)
	})
}

func (suite *UsecaseCoinflipUnitSuite) TestDeleteRoom(t provider.T) {
	t.Parallel()

	t.Run("Should delete own waiting room", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()
		r.rooms.On("Delete", r.ctx, room.ID).Return(nil).Once()

		err := r.usecase.DeleteRoom(r.ctx, room.ID, room.CreatedBy)

		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{room.ID}, r.notifier.closed)
	})

	t.Run("Should reject non-creator", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()

		err := r.usecase.DeleteRoom(r.ctx, room.ID, uuid.New())

		assert.ErrorIs(t, err, ErrNotCreator)
	})

	t.Run("Should keep the room once the opponent is locked in", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().withOpponent(model.Tails).build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()

		err := r.usecase.DeleteRoom(r.ctx, room.ID, room.CreatedBy)

		assert.ErrorIs(t, err, ErrOpponentJoined)
	})

	t.Run("Should reject finished room", func(t provider.T) {
		r := initResources(t)
		room := newRoomBuilder().withOpponent(model.Tails).finished(model.Tails).build()

		r.rooms.On("ByID", r.ctx, room.ID).Return(room, nil).Once()

		err := r.usecase.DeleteRoom(r.ctx, room.ID, room.CreatedBy)

		assert.ErrorIs(t, err, ErrRoomFinished)
	})
}

func (suite *UsecaseCoinflipUnitSuite) TestOpenRooms(t provider.T) {
	t.Parallel()

	t.Run("Should pass through the lobby listing", func(t provider.T) {
		r := initResources(t)
		userID := uuid.New()
		rooms := []model.Room{newRoomBuilder().build()}

		r.rooms.On("OpenRooms", r.ctx, userID).Return(rooms, nil).Once()

		got, err := r.usecase.OpenRooms(r.ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, rooms, got)
	})

	t.Run("Should wrap repository failure", func(t provider.T) {
		r := initResources(t)
		userID := uuid.New()

		r.rooms.On("OpenRooms", r.ctx, userID).Return(nil, errors.New("db down")).Once()

		_, err := r.usecase.OpenRooms(r.ctx, userID)

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func transferOf(result model.FlipResult, userID uuid.UUID) int {
	for _, tr := range result.Transfers {
		if tr.UserID == userID {
			return tr.Delta
		}
	}
	return 0
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseCoinflipUnitSuite))
}
