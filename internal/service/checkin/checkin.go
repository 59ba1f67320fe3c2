package service_checkin

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrInvalidToken = errors.New("unknown or expired session token")
	ErrInternal     = errors.New("internal error")
)

// Session ties a guest to the venue whose code they scanned.
type Session struct {
	UserID  uuid.UUID
	VenueID uuid.UUID
}

// SessionCache is the redis-backed token store.
type SessionCache interface {
	Save(token string, session Session, ttl time.Duration) error
	Lookup(token string) (Session, bool, error)
}

// Service handles venue check-ins: printing the QR that guests scan and
// issuing the session tokens the rest of the API authenticates against.
type Service struct {
	sessions SessionCache
	baseURL  string
	tokenTTL time.Duration
}

func New(
	sessions SessionCache,
	baseURL string,
	tokenTTL time.Duration,
) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &Service{
		sessions: sessions,
		baseURL:  baseURL,
		tokenTTL: tokenTTL,
	}
}

// VenueQR renders the PNG poster code for a venue. The payload is the
// public check-in URL, not a secret.
func (s *Service) VenueQR(venueID uuid.UUID, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	url := fmt.Sprintf("%s/checkin?venue=%s", s.baseURL, venueID)
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return png, nil
}

// CheckIn issues a session token for a guest who scanned the venue code.
func (s *Service) CheckIn(userID, venueID uuid.UUID) (string, error) {
	token := uuid.New().String()
	session := Session{UserID: userID, VenueID: venueID}
	if err := s.sessions.Save(token, session, s.tokenTTL); err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return token, nil
}

// Identify resolves a session token back to the guest and their venue.
func (s *Service) Identify(token string) (Session, error) {
	session, ok, err := s.sessions.Lookup(token)
	if err != nil {
		return Session{}, errors.Join(ErrInternal, err)
	}
	if !ok {
		return Session{}, ErrInvalidToken
	}
	return session, nil
}
