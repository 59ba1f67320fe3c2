package http_waitlist

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/rankingdocopo/core/internal/delivery/http/common"
	"github.com/rankingdocopo/core/internal/model"
	usecase_waitlist "github.com/rankingdocopo/core/internal/usecase/waitlist"
)

type Controller struct {
	usecase *usecase_waitlist.Usecase
	logger  *slog.Logger
}

func New(usecase *usecase_waitlist.Usecase) *Controller {
	return &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	wl := router.Group("/waitlist")
	{
		wl.POST("", c.join)
		wl.DELETE("/:email", c.unsubscribe)
	}
}

type joinRequestDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	BarName string `json:"barName"`
}

// Join inscreve um bar na lista de espera
// @Summary Inscrição na lista de espera
// @Tags Waitlist
// @Accept json
// @Success 201 "Inscrição realizada"
// @Failure 400 {object} http_common.ErrorResponse "Campos obrigatórios vazios"
// @Failure 409 {object} http_common.ErrorResponse "E-mail já cadastrado"
// @Router /waitlist [post]
func (c *Controller) join(ctx *gin.Context) {
	var req joinRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "malformed body"})
		return
	}

	err := c.usecase.Join(ctx, model.WaitlistEntry{
		Name:    req.Name,
		Email:   req.Email,
		BarName: req.BarName,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase_waitlist.ErrEmptyFields):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "todos os campos são obrigatórios"})
		case errors.Is(err, usecase_waitlist.ErrAlreadyRegistered):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: "este e-mail já está cadastrado na lista de espera"})
		default:
			c.logger.Error("failed to join waitlist", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		}
		return
	}

	ctx.Status(http.StatusCreated)
}

// Unsubscribe remove um e-mail da lista de espera
// @Summary Cancelar inscrição
// @Tags Waitlist
// @Success 204 "Inscrição cancelada"
// @Failure 404 {object} http_common.ErrorResponse "E-mail não encontrado"
// @Router /waitlist/{email} [delete]
func (c *Controller) unsubscribe(ctx *gin.Context) {
	email := ctx.Param("email")

	if err := c.usecase.Unsubscribe(ctx, email); err != nil {
		switch {
		case errors.Is(err, usecase_waitlist.ErrEmptyFields):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "e-mail é obrigatório"})
		case errors.Is(err, usecase_waitlist.ErrNotRegistered):
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
		default:
			c.logger.Error("failed to unsubscribe", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
