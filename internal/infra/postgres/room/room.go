package infra_postgres_room

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rankingdocopo/core/internal/model"
	usecase_coinflip "github.com/rankingdocopo/core/internal/usecase/coinflip"
)

// PotSettler applies the transfers of a resolved flip inside the caller's
// transaction. The ledger driver implements it.
type PotSettler interface {
	SettlePotInTx(ctx context.Context, tx *sqlx.Tx, result model.FlipResult, reason string) error
}

type Driver struct {
	db      *sqlx.DB
	settler PotSettler
}

func New(
	db *sqlx.DB,
	settler PotSettler,
) *Driver {
	return &Driver{
		db:      db,
		settler: settler,
	}
}

type roomDTO struct {
	ID         uuid.UUID      `db:"id"`
	CreatedBy  uuid.UUID      `db:"created_by"`
	Status     string         `db:"status"`
	CoinResult sql.NullString `db:"coin_result"`
	WinnerID   *uuid.UUID     `db:"winner_id"`
	CreatedAt  time.Time      `db:"created_at"`
}

type betDTO struct {
	RoomID     uuid.UUID `db:"room_id"`
	UserID     uuid.UUID `db:"user_id"`
	UserName   string    `db:"user_name"`
	UserAvatar string    `db:"user_avatar"`
	Choice     string    `db:"choice"`
	PointsBet  int       `db:"points_bet"`
	PlacedAt   time.Time `db:"placed_at"`
}

func (d *Driver) CreateWithBet(ctx context.Context, room model.Room) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	queryRoom := `
		INSERT INTO coinflip_rooms (id, created_by, status)
		VALUES (:id, :created_by, :status)
	`
	if _, err := tx.NamedExecContext(ctx, queryRoom, roomDTO{
		ID:        room.ID,
		CreatedBy: room.CreatedBy,
		Status:    string(room.Status),
	}); err != nil {
		return err
	}

	bet := room.CreatorBet()
	if bet == nil {
		return errors.New("room has no creator bet")
	}
	if err := insertBet(ctx, tx, *bet); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *Driver) ByID(ctx context.Context, roomID uuid.UUID) (model.Room, error) {
	var room roomDTO

	query := `
		SELECT id, created_by, status, coin_result, winner_id, created_at
		FROM coinflip_rooms
		WHERE id = $1
	`
	err := d.db.GetContext(ctx, &room, query, roomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Room{}, usecase_coinflip.ErrRoomNotFound
		}
		return model.Room{}, err
	}

	bets, err := d.betsOf(ctx, roomID)
	if err != nil {
		return model.Room{}, err
	}

	return toModel(room, bets), nil
}

func (d *Driver) OpenRooms(ctx context.Context, excludeUserID uuid.UUID) ([]model.Room, error) {
	var rooms []roomDTO

	query := `
		SELECT r.id, r.created_by, r.status, r.coin_result, r.winner_id, r.created_at
		FROM coinflip_rooms r
		WHERE r.status = $1
		  AND r.created_by <> $2
		  AND (SELECT COUNT(*) FROM coinflip_bets b WHERE b.room_id = r.id) = 1
		ORDER BY r.created_at
	`
	if err := d.db.SelectContext(ctx, &rooms, query, string(model.StatusWaiting), excludeUserID); err != nil {
		return nil, err
	}

	result := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		bets, err := d.betsOf(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, toModel(r, bets))
	}
	return result, nil
}

// AddBet seats the second player. The room row is locked for the duration of
// the check-then-insert, so concurrent joiners serialize and the loser sees
// the seat already taken.
func (d *Driver) AddBet(ctx context.Context, bet model.Bet) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var room roomDTO
	queryLock := `
		SELECT id, created_by, status, coin_result, winner_id, created_at
		FROM coinflip_rooms
		WHERE id = $1
		FOR UPDATE
	`
	if err := tx.GetContext(ctx, &room, queryLock, bet.RoomID); err != nil {
		if err == sql.ErrNoRows {
			return usecase_coinflip.ErrRoomNotFound
		}
		return err
	}
	if room.Status != string(model.StatusWaiting) {
		return usecase_coinflip.ErrRoomFinished
	}

	var count int
	queryCount := `SELECT COUNT(*) FROM coinflip_bets WHERE room_id = $1`
	if err := tx.GetContext(ctx, &count, queryCount, bet.RoomID); err != nil {
		return err
	}
	if count >= model.MaxBetsPerRoom {
		return usecase_coinflip.ErrSeatTaken
	}

	if err := insertBet(ctx, tx, bet); err != nil {
		return err
	}

	return tx.Commit()
}

// Finish runs the waiting->finished transition and the pot settlement in a
// single transaction, so a settlement failure rolls the status back and the
// room stays startable.
func (d *Driver) Finish(ctx context.Context, result model.FlipResult, reason string) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE coinflip_rooms
		SET status = $1, coin_result = $2, winner_id = $3
		WHERE id = $4 AND status = $5
	`
	res, err := tx.ExecContext(ctx, query,
		string(model.StatusFinished),
		string(result.Coin),
		result.WinnerID,
		result.RoomID,
		string(model.StatusWaiting),
	)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Either unknown or already resolved by a concurrent start.
		exists, err := d.exists(ctx, result.RoomID)
		if err != nil {
			return err
		}
		if !exists {
			return usecase_coinflip.ErrRoomNotFound
		}
		return usecase_coinflip.ErrRoomFinished
	}

	if err := d.settler.SettlePotInTx(ctx, tx, result, reason); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *Driver) Delete(ctx context.Context, roomID uuid.UUID) error {
	query := `
		DELETE FROM coinflip_rooms
		WHERE id = $1
		  AND status = $2
		  AND (SELECT COUNT(*) FROM coinflip_bets b WHERE b.room_id = $1) < $3
	`
	res, err := d.db.ExecContext(ctx, query, roomID, string(model.StatusWaiting), model.MaxBetsPerRoom)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		exists, err := d.exists(ctx, roomID)
		if err != nil {
			return err
		}
		if !exists {
			return usecase_coinflip.ErrRoomNotFound
		}
		return usecase_coinflip.ErrOpponentJoined
	}
	return nil
}

// FlipResult rebuilds the structured outcome of a finished room for the
// reconciler. ok=false when the room never recorded a coin result.
func (d *Driver) FlipResult(ctx context.Context, roomID uuid.UUID) (model.FlipResult, bool, error) {
	var room roomDTO

	query := `
		SELECT id, created_by, status, coin_result, winner_id, created_at
		FROM coinflip_rooms
		WHERE id = $1
	`
	err := d.db.GetContext(ctx, &room, query, roomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.FlipResult{}, false, usecase_coinflip.ErrRoomNotFound
		}
		return model.FlipResult{}, false, err
	}
	if room.Status != string(model.StatusFinished) || !room.CoinResult.Valid {
		return model.FlipResult{}, false, nil
	}

	result := model.FlipResult{
		RoomID:   room.ID,
		Coin:     model.CoinSide(room.CoinResult.String),
		WinnerID: room.WinnerID,
	}
	if room.WinnerID == nil {
		return result, true, nil
	}

	bets, err := d.betsOf(ctx, roomID)
	if err != nil {
		return model.FlipResult{}, false, err
	}
	for _, b := range bets {
		if b.UserID == *room.WinnerID {
			continue
		}
		result.Transfers = []model.PointsTransfer{
			{UserID: *room.WinnerID, Delta: b.PointsBet},
			{UserID: b.UserID, Delta: -b.PointsBet},
		}
	}
	return result, true, nil
}

func (d *Driver) exists(ctx context.Context, roomID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM coinflip_rooms WHERE id = $1)`
	if err := d.db.GetContext(ctx, &exists, query, roomID); err != nil {
		return false, err
	}
	return exists, nil
}

func (d *Driver) betsOf(ctx context.Context, roomID uuid.UUID) ([]model.Bet, error) {
	var bets []betDTO

	query := `
		SELECT b.room_id, b.user_id, u.name AS user_name, u.avatar_url AS user_avatar,
		       b.choice, b.points_bet, b.placed_at
		FROM coinflip_bets b
		JOIN users u ON u.id = b.user_id
		WHERE b.room_id = $1
		ORDER BY b.placed_at
	`
	if err := d.db.SelectContext(ctx, &bets, query, roomID); err != nil {
		return nil, err
	}

	result := make([]model.Bet, 0, len(bets))
	for _, b := range bets {
		result = append(result, model.Bet{
			RoomID:     b.RoomID,
			UserID:     b.UserID,
			UserName:   b.UserName,
			UserAvatar: b.UserAvatar,
			Choice:     model.CoinSide(b.Choice),
			PointsBet:  b.PointsBet,
			PlacedAt:   b.PlacedAt,
		})
	}
	return result, nil
}

func insertBet(ctx context.Context, tx *sqlx.Tx, bet model.Bet) error {
	query := `
		INSERT INTO coinflip_bets (room_id, user_id, choice, points_bet)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, bet.RoomID, bet.UserID, string(bet.Choice), bet.PointsBet)
	return err
}

func toModel(room roomDTO, bets []model.Bet) model.Room {
	m := model.Room{
		ID:        room.ID,
		CreatedBy: room.CreatedBy,
		Status:    model.RoomStatus(room.Status),
		Bets:      bets,
		CreatedAt: room.CreatedAt,
	}
	if room.CoinResult.Valid {
		side := model.CoinSide(room.CoinResult.String)
		m.CoinResult = &side
	}
	return m
}
