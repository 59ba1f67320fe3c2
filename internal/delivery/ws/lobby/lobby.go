package ws_lobby

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the app origins before launch
		return true
	},
}

type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan Event
	topic string
}

type Controller struct {
	hub    *Hub
	logger *slog.Logger
}

func NewController(hub *Hub) *Controller {
	return &Controller{
		hub:    hub,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	ws := router.Group("/ws")
	{
		ws.GET("/lobby", c.subscribeLobby)
		ws.GET("/rooms/:room_id", c.subscribeRoom)
	}
}

func (c *Controller) subscribeLobby(ctx *gin.Context) {
	c.subscribe(ctx, lobbyTopic)
}

func (c *Controller) subscribeRoom(ctx *gin.Context) {
	c.subscribe(ctx, ctx.Param("room_id"))
}

func (c *Controller) subscribe(ctx *gin.Context, topic string) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		hub:   c.hub,
		conn:  conn,
		send:  make(chan Event, 8),
		topic: topic,
	}
	c.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (cl *Client) readPump() {
	defer func() {
		cl.hub.unregister <- cl
		cl.conn.Close()
	}()

	// Incoming messages are ignored; reading keeps the connection alive
	// and detects the close.
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (cl *Client) writePump() {
	defer cl.conn.Close()

	for event := range cl.send {
		if err := cl.conn.WriteJSON(event); err != nil {
			break
		}
	}
}
