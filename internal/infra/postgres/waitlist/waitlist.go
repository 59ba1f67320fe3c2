package infra_postgres_waitlist

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rankingdocopo/core/internal/model"
	usecase_waitlist "github.com/rankingdocopo/core/internal/usecase/waitlist"
)

// Postgres unique_violation
const uniqueViolation = "23505"

type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

type entryDTO struct {
	Name    string `db:"name"`
	Email   string `db:"email"`
	BarName string `db:"bar_name"`
}

func (d *Driver) Insert(ctx context.Context, entry model.WaitlistEntry) error {
	query := `
		INSERT INTO waiting_list (name, email, bar_name)
		VALUES (:name, :email, :bar_name)
	`
	_, err := d.db.NamedExecContext(ctx, query, entryDTO{
		Name:    entry.Name,
		Email:   entry.Email,
		BarName: entry.BarName,
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return usecase_waitlist.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (d *Driver) DeleteByEmail(ctx context.Context, email string) error {
	query := `
		DELETE FROM waiting_list
		WHERE email = $1
	`
	result, err := d.db.ExecContext(ctx, query, email)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return usecase_waitlist.ErrNotRegistered
	}
	return nil
}
