package infra_postgres_ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rankingdocopo/core/internal/model"
	usecase_points "github.com/rankingdocopo/core/internal/usecase/points"
)

// Driver owns the users.points column and the points_transactions audit
// table. Every balance change goes through a transaction row with the
// resulting balance, so support can reconstruct any dispute.
type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

type userDTO struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	AvatarURL string    `db:"avatar_url"`
	Points    int       `db:"points"`
}

func (d *Driver) User(ctx context.Context, userID uuid.UUID) (model.User, error) {
	var user userDTO

	query := `
		SELECT id, name, avatar_url, points
		FROM users
		WHERE id = $1
	`
	err := d.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, usecase_points.ErrUserNotFound
		}
		return model.User{}, err
	}

	return model.User{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Points:    user.Points,
	}, nil
}

func (d *Driver) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	var points int

	query := `SELECT points FROM users WHERE id = $1`
	err := d.db.GetContext(ctx, &points, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, usecase_points.ErrUserNotFound
		}
		return 0, err
	}
	return points, nil
}

func (d *Driver) Award(ctx context.Context, txn model.PointsTransaction) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := applyDelta(ctx, tx, txn); err != nil {
		return err
	}
	return tx.Commit()
}

// SettlePotInTx applies all transfers of a resolved flip inside the caller's
// transaction. The room driver calls it while finishing the room, so the
// status flip and the pot movement commit or roll back together.
func (d *Driver) SettlePotInTx(ctx context.Context, tx *sqlx.Tx, result model.FlipResult, reason string) error {
	for _, transfer := range result.Transfers {
		txn := model.PointsTransaction{
			ID:     uuid.New(),
			UserID: transfer.UserID,
			Delta:  transfer.Delta,
			Reason: reason,
		}
		if err := applyDelta(ctx, tx, txn); err != nil {
			return err
		}
	}
	return nil
}

func applyDelta(ctx context.Context, tx *sqlx.Tx, txn model.PointsTransaction) error {
	var balanceAfter int

	queryUpdate := `
		UPDATE users
		SET points = points + $1
		WHERE id = $2
		RETURNING points
	`
	err := tx.GetContext(ctx, &balanceAfter, queryUpdate, txn.Delta, txn.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return usecase_points.ErrUserNotFound
		}
		return err
	}

	var venueID any
	if txn.VenueID != uuid.Nil {
		venueID = txn.VenueID
	}

	queryInsert := `
		INSERT INTO points_transactions (id, user_id, delta, balance_after, venue_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, queryInsert,
		txn.ID,
		txn.UserID,
		txn.Delta,
		balanceAfter,
		venueID,
		txn.Reason,
		time.Now().UTC(),
	)
	return err
}
