package http_checkin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/rankingdocopo/core/internal/delivery/http/common"
	service_checkin "github.com/rankingdocopo/core/internal/service/checkin"
)

type Controller struct {
	service *service_checkin.Service
	logger  *slog.Logger
}

func New(service *service_checkin.Service) *Controller {
	return &Controller{
		service: service,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/venues/:venue_id/qr", c.venueQR)
	router.POST("/checkins", c.checkIn)
}

type checkInRequestDTO struct {
	UserID  uuid.UUID `json:"user_id"`
	VenueID uuid.UUID `json:"venue_id"`
}

type checkInResponseDTO struct {
	Token string `json:"token"`
}

// VenueQR devolve o código QR do bar em PNG
// @Summary QR de check-in do bar
// @Tags Checkin
// @Produce png
// @Success 200 "PNG do código"
// @Router /venues/{venue_id}/qr [get]
func (c *Controller) venueQR(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("venue_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid venue id"})
		return
	}

	size, _ := strconv.Atoi(ctx.Query("size"))

	png, err := c.service.VenueQR(venueID, size)
	if err != nil {
		c.logger.Error("failed to render venue qr", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}

// CheckIn troca um scan de QR por um token de sessão
// @Summary Check-in no bar
// @Tags Checkin
// @Accept json
// @Produce json
// @Success 201 {object} checkInResponseDTO "Token de sessão"
// @Router /checkins [post]
func (c *Controller) checkIn(ctx *gin.Context) {
	var req checkInRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "malformed body"})
		return
	}
	if req.UserID == uuid.Nil || req.VenueID == uuid.Nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "user_id and venue_id are required"})
		return
	}

	token, err := c.service.CheckIn(req.UserID, req.VenueID)
	if err != nil {
		c.logger.Error("failed to check in", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.JSON(http.StatusCreated, checkInResponseDTO{Token: token})
}
