package http_coinflip

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/rankingdocopo/core/internal/delivery/http/common"
	http_auth_middleware "github.com/rankingdocopo/core/internal/delivery/http/middleware/auth"
	"github.com/rankingdocopo/core/internal/model"
	usecase_coinflip "github.com/rankingdocopo/core/internal/usecase/coinflip"
	usecase_points "github.com/rankingdocopo/core/internal/usecase/points"
	usecase_reconcile "github.com/rankingdocopo/core/internal/usecase/reconcile"
)

type Controller struct {
	usecase    *usecase_coinflip.Usecase
	reconciler *usecase_reconcile.Usecase
	points     *usecase_points.Usecase
	auth       *http_auth_middleware.Middleware
	logger     *slog.Logger
}

func New(
	usecase *usecase_coinflip.Usecase,
	reconciler *usecase_reconcile.Usecase,
	points *usecase_points.Usecase,
	auth *http_auth_middleware.Middleware,
) *Controller {
	return &Controller{
		usecase:    usecase,
		reconciler: reconciler,
		points:     points,
		auth:       auth,
		logger:     slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/coinflip/rooms", c.auth.UserRequired())
	{
		rooms.GET("", c.lobby)
		rooms.POST("", c.create)
		rooms.GET("/:room_id", c.room)
		rooms.POST("/:room_id/join", c.join)
		rooms.POST("/:room_id/start", c.start)
		rooms.POST("/:room_id/leave", c.leave)
		rooms.GET("/:room_id/outcome", c.outcome)
		rooms.DELETE("/:room_id", c.remove)
	}
}

type betDTO struct {
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar"`
	Choice     string    `json:"choice"`
	PointsBet  int       `json:"points_bet"`
}

type roomDTO struct {
	ID         uuid.UUID `json:"id"`
	CreatedBy  uuid.UUID `json:"created_by"`
	Status     string    `json:"status"`
	CoinResult *string   `json:"coin_result"`
	Pot        int       `json:"pot"`
	Bets       []betDTO  `json:"bets"`
	CreatedAt  time.Time `json:"created_at"`
}

type createRequestDTO struct {
	Wager  int    `json:"wager"`
	Choice string `json:"choice"`
}

type joinRequestDTO struct {
	Choice string `json:"choice"`
}

type outcomeResponseDTO struct {
	Verdict string `json:"verdict"`
	Amount  int    `json:"amount"`
}

// Lobby lista as salas abertas
// @Summary Salas de cara ou coroa abertas
// @Description Lista salas aguardando um segundo jogador, sem as salas do próprio usuário
// @Tags Coinflip
// @Produce json
// @Success 200 {array} roomDTO "Salas abertas"
// @Failure 500 {object} http_common.ErrorResponse "Erro interno"
// @Router /coinflip/rooms [get]
func (c *Controller) lobby(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	rooms, err := c.usecase.OpenRooms(ctx, userID)
	if err != nil {
		c.logger.Error("failed to list open rooms", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	dtos := make([]roomDTO, 0, len(rooms))
	for _, r := range rooms {
		dtos = append(dtos, toRoomDTO(r))
	}
	ctx.JSON(http.StatusOK, dtos)
}

// Create cria uma sala com a aposta do criador
// @Summary Criação de sala
// @Tags Coinflip
// @Accept json
// @Produce json
// @Success 201 {object} roomDTO "Sala criada"
// @Failure 400 {object} http_common.ErrorResponse "Aposta ou escolha inválida"
// @Failure 402 {object} http_common.ErrorResponse "Pontos insuficientes"
// @Router /coinflip/rooms [post]
func (c *Controller) create(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}

	var req createRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "malformed body"})
		return
	}

	room, err := c.usecase.CreateRoom(ctx, userID, req.Wager, model.CoinSide(req.Choice))
	if err != nil {
		c.fail(ctx, "failed to create room", err)
		return
	}

	c.captureSnapshot(ctx, userID, room.ID)
	ctx.JSON(http.StatusCreated, toRoomDTO(room))
}

func (c *Controller) room(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}
	roomID, err := uuid.Parse(ctx.Param("room_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid room id"})
		return
	}

	room, err := c.usecase.Room(ctx, roomID)
	if err != nil {
		c.fail(ctx, "failed to get room", err)
		return
	}

	// First observation seeds the balance snapshot; repeats are no-ops.
	c.captureSnapshot(ctx, userID, room.ID)
	ctx.JSON(http.StatusOK, toRoomDTO(room))
}

// Join entra na sala com a mesma aposta do criador
// @Summary Entrar na sala
// @Tags Coinflip
// @Accept json
// @Produce json
// @Success 200 {object} roomDTO "Sala com as duas apostas"
// @Failure 409 {object} http_common.ErrorResponse "Sala não está mais disponível"
// @Router /coinflip/rooms/{room_id}/join [post]
func (c *Controller) join(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}
	roomID, err := uuid.Parse(ctx.Param("room_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid room id"})
		return
	}

	var req joinRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "malformed body"})
		return
	}

	room, err := c.usecase.JoinRoom(ctx, roomID, userID, model.CoinSide(req.Choice))
	if err != nil {
		c.fail(ctx, "failed to join room", err)
		return
	}

	c.captureSnapshot(ctx, userID, room.ID)
	ctx.JSON(http.StatusOK, toRoomDTO(room))
}

// Start gira a moeda e liquida o pote
// @Summary Girar a moeda
// @Tags Coinflip
// @Produce json
// @Success 200 {object} roomDTO "Sala resolvida"
// @Failure 403 {object} http_common.ErrorResponse "Apenas o criador pode iniciar"
// @Failure 409 {object} http_common.ErrorResponse "Sala sem segundo jogador ou já resolvida"
// @Router /coinflip/rooms/{room_id}/start [post]
func (c *Controller) start(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}
	roomID, err := uuid.Parse(ctx.Param("room_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid room id"})
		return
	}

	if _, err := c.usecase.StartRoom(ctx, roomID, userID); err != nil {
		c.fail(ctx, "failed to start room", err)
		return
	}

	room, err := c.usecase.Room(ctx, roomID)
	if err != nil {
		c.fail(ctx, "failed to reload room", err)
		return
	}
	ctx.JSON(http.StatusOK, toRoomDTO(room))
}

// Leave é local: limpa o snapshot de pontos e devolve o usuário ao lobby.
// A sala em si não muda; uma resolução em andamento ainda acontece.
func (c *Controller) leave(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}
	roomID, err := uuid.Parse(ctx.Param("room_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid room id"})
		return
	}

	if err := c.reconciler.Leave(userID, roomID); err != nil {
		c.logger.Error("failed to clear snapshot", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Outcome devolve o veredito (ganhou/perdeu/empatou) para o modal de resultado
// @Summary Resultado da sala para o usuário
// @Tags Coinflip
// @Produce json
// @Success 200 {object} outcomeResponseDTO "Veredito"
// @Failure 409 {object} http_common.ErrorResponse "Sala ainda não resolvida"
// @Router /coinflip/rooms/{room_id}/outcome [get]
func (c *Controller) outcome(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}
	roomID, err := uuid.Parse(ctx.Param("room_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid room id"})
		return
	}

	room, err := c.usecase.Room(ctx, roomID)
	if err != nil {
		c.fail(ctx, "failed to get room", err)
		return
	}

	balance, err := c.points.Balance(ctx, userID)
	if err != nil {
		c.logger.Error("failed to get balance", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	outcome, err := c.reconciler.Result(ctx, room, userID, balance)
	if err != nil {
		if errors.Is(err, usecase_reconcile.ErrRoomNotFinished) {
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: "room not finished"})
			return
		}
		if errors.Is(err, usecase_reconcile.ErrNoSnapshot) {
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: "no snapshot for this room"})
			return
		}
		c.logger.Error("failed to reconcile outcome", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, outcomeResponseDTO{
		Verdict: string(outcome.Verdict),
		Amount:  outcome.Amount,
	})
}

// Remove apaga a sala enquanto aguarda oponente
// @Summary Apagar sala
// @Tags Coinflip
// @Success 204 "Sala removida"
// @Failure 403 {object} http_common.ErrorResponse "Apenas o criador pode apagar"
// @Failure 409 {object} http_common.ErrorResponse "Oponente já entrou"
// @Router /coinflip/rooms/{room_id} [delete]
func (c *Controller) remove(ctx *gin.Context) {
	userID, ok := http_auth_middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unauthorized"})
		return
	}
	roomID, err := uuid.Parse(ctx.Param("room_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid room id"})
		return
	}

	if err := c.usecase.DeleteRoom(ctx, roomID, userID); err != nil {
		c.fail(ctx, "failed to delete room", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) captureSnapshot(ctx *gin.Context, userID, roomID uuid.UUID) {
	balance, err := c.points.Balance(ctx, userID)
	if err != nil {
		c.logger.Error("failed to snapshot balance", slog.String("error", err.Error()))
		return
	}
	if err := c.reconciler.Enter(userID, roomID, balance); err != nil {
		c.logger.Error("failed to store snapshot", slog.String("error", err.Error()))
	}
}

func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	c.logger.Error(msg, slog.String("error", err.Error()))

	switch {
	case errors.Is(err, usecase_coinflip.ErrInvalidWager),
		errors.Is(err, usecase_coinflip.ErrInvalidChoice):
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: err.Error()})
	case errors.Is(err, usecase_coinflip.ErrInsufficientPoints):
		ctx.JSON(http.StatusPaymentRequired, http_common.ErrorResponse{Message: err.Error()})
	case errors.Is(err, usecase_coinflip.ErrNotCreator):
		ctx.JSON(http.StatusForbidden, http_common.ErrorResponse{Message: err.Error()})
	case errors.Is(err, usecase_coinflip.ErrRoomNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
	case errors.Is(err, usecase_coinflip.ErrSeatTaken),
		errors.Is(err, usecase_coinflip.ErrAlreadyInRoom),
		errors.Is(err, usecase_coinflip.ErrRoomNotReady),
		errors.Is(err, usecase_coinflip.ErrRoomFinished),
		errors.Is(err, usecase_coinflip.ErrOpponentJoined):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
	}
}

func toRoomDTO(room model.Room) roomDTO {
	dto := roomDTO{
		ID:        room.ID,
		CreatedBy: room.CreatedBy,
		Status:    string(room.Status),
		Pot:       room.Pot(),
		Bets:      make([]betDTO, 0, len(room.Bets)),
		CreatedAt: room.CreatedAt,
	}
	if room.CoinResult != nil {
		s := string(*room.CoinResult)
		dto.CoinResult = &s
	}
	for _, b := range room.Bets {
		dto.Bets = append(dto.Bets, betDTO{
			UserID:     b.UserID,
			UserName:   b.UserName,
			UserAvatar: b.UserAvatar,
			Choice:     string(b.Choice),
			PointsBet:  b.PointsBet,
		})
	}
	return dto
}
