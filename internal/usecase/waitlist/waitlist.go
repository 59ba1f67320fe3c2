package usecase_waitlist

import (
	"context"
	"errors"
	"strings"

	"github.com/rankingdocopo/core/internal/model"
)

var (
	ErrEmptyFields       = errors.New("name, email and bar name are required")
	ErrAlreadyRegistered = errors.New("email already on the waitlist")
	ErrNotRegistered     = errors.New("email not on the waitlist")
	ErrInternal          = errors.New("internal error")
)

//go:generate mockery --name=WaitlistRepository --output=./mocks/repository --filename=repository.go
type WaitlistRepository interface {
	// Insert persists an entry. A duplicate email yields ErrAlreadyRegistered.
	Insert(ctx context.Context, entry model.WaitlistEntry) error
	DeleteByEmail(ctx context.Context, email string) error
}

type Usecase struct {
	repository WaitlistRepository
}

func New(repository WaitlistRepository) *Usecase {
	return &Usecase{repository: repository}
}

func (u *Usecase) Join(ctx context.Context, entry model.WaitlistEntry) error {
	entry.Name = strings.TrimSpace(entry.Name)
	entry.Email = strings.TrimSpace(entry.Email)
	entry.BarName = strings.TrimSpace(entry.BarName)
	if entry.Name == "" || entry.Email == "" || entry.BarName == "" {
		return ErrEmptyFields
	}

	if err := u.repository.Insert(ctx, entry); err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			return ErrAlreadyRegistered
		}
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (u *Usecase) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyFields
	}

	if err := u.repository.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrNotRegistered) {
			return ErrNotRegistered
		}
		return errors.Join(ErrInternal, err)
	}
	return nil
}
