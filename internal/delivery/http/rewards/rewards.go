package http_rewards

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/rankingdocopo/core/internal/delivery/http/common"
	http_auth_middleware "github.com/rankingdocopo/core/internal/delivery/http/middleware/auth"
	usecase_points "github.com/rankingdocopo/core/internal/usecase/points"
)

// Controller is the point-award surface for the single-player mini-games
// (trivia, shell game, roulette). Their game logic lives on the client;
// only the reward lands here.
type Controller struct {
	usecase *usecase_points.Usecase
	auth    *http_auth_middleware.Middleware
	logger  *slog.Logger
}

func New(
	usecase *usecase_points.Usecase,
	auth *http_auth_middleware.Middleware,
) *Controller {
	return &Controller{
		usecase: usecase,
		auth:    auth,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("", c.auth.UserRequired())
	{
		g.POST("/rewards", c.award)
		g.GET("/balance", c.balance)
	}
}

type awardRequestDTO struct {
	Delta   int       `json:"delta"`
	VenueID uuid.UUID `json:"venue_id"`
	Reason  string    `json:"reason"`
}

type balanceResponseDTO struct {
	Points int `json:"points"`
}

func (c *Controller) award(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	var req awardRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "malformed body"})
		return
	}
	if req.Reason == "" {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "reason is required"})
		return
	}

	// The check-in session already knows where the guest is playing.
	venueID := req.VenueID
	if venueID == uuid.Nil {
		venueID, _ = http_auth_middleware.VenueID(ctx)
	}

	if err := c.usecase.Award(ctx, userID, req.Delta, venueID, req.Reason); err != nil {
		switch {
		case errors.Is(err, usecase_points.ErrZeroDelta):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: err.Error()})
		case errors.Is(err, usecase_points.ErrDailyLimit):
			ctx.JSON(http.StatusTooManyRequests, http_common.ErrorResponse{Message: "limite diário de jogadas atingido"})
		case errors.Is(err, usecase_points.ErrUserNotFound):
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
		default:
			c.logger.Error("failed to award points", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		}
		return
	}

	ctx.Status(http.StatusCreated)
}

func (c *Controller) balance(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	points, err := c.usecase.Balance(ctx, userID)
	if err != nil {
		if errors.Is(err, usecase_points.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
			return
		}
		c.logger.Error("failed to get balance", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, balanceResponseDTO{Points: points})
}
