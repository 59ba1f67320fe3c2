package http_auth_middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/rankingdocopo/core/internal/delivery/http/common"
	service_checkin "github.com/rankingdocopo/core/internal/service/checkin"
)

const (
	header          = "X-user-token"
	userContextKey  = "user_id"
	venueContextKey = "venue_id"
)

type SessionResolver interface {
	Identify(token string) (service_checkin.Session, error)
}

type Middleware struct {
	sessions SessionResolver
	logger   *slog.Logger
}

func New(
	sessions SessionResolver,
) *Middleware {
	return &Middleware{
		sessions: sessions,
		logger:   slog.Default(),
	}
}

// UserRequired resolves the check-in session token and puts the user and
// venue ids on the gin context for the controllers.
func (m *Middleware) UserRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		t := ctx.GetHeader(header)
		if t == "" {
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "no " + header + " header",
			})
			ctx.Abort()
			return
		}

		session, err := m.sessions.Identify(t)
		if err != nil {
			if errors.Is(err, service_checkin.ErrInvalidToken) {
				ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
					Message: "invalid token",
				})
			} else {
				m.logger.Error("session lookup failed", slog.String("error", err.Error()))
				ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
					Message: "internal error",
				})
			}
			ctx.Abort()
			return
		}

		ctx.Set(userContextKey, session.UserID)
		ctx.Set(venueContextKey, session.VenueID)
		ctx.Next()
	}
}

// UserID reads the id UserRequired stored on the context.
func UserID(ctx *gin.Context) (uuid.UUID, bool) {
	return contextUUID(ctx, userContextKey)
}

// VenueID reads the venue the session was checked in at.
func VenueID(ctx *gin.Context) (uuid.UUID, bool) {
	return contextUUID(ctx, venueContextKey)
}

func contextUUID(ctx *gin.Context, key string) (uuid.UUID, bool) {
	v, ok := ctx.Get(key)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
