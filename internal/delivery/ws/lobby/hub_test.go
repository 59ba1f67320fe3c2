//go:build !integration
// +build !integration

package ws_lobby

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankingdocopo/core/internal/model"
)

func newTestClient(hub *Hub, topic string) *Client {
	return &Client{
		hub:   hub,
		send:  make(chan Event, 8),
		topic: topic,
	}
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case event := <-client.send:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event within a second")
		return Event{}
	}
}

func testRoom() model.Room {
	roomID := uuid.New()
	creator := uuid.New()
	return model.Room{
		ID:        roomID,
		CreatedBy: creator,
		Status:    model.StatusWaiting,
		Bets: []model.Bet{{
			RoomID:    roomID,
			UserID:    creator,
			UserName:  "Ana",
			Choice:    model.Heads,
			PointsBet: 10,
		}},
	}
}

func TestHubFanout(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	lobbyWatcher := newTestClient(hub, lobbyTopic)
	hub.register <- lobbyWatcher

	room := testRoom()
	player := newTestClient(hub, room.ID.String())
	hub.register <- player

	t.Run("Should announce an opened room to the lobby only", func(t *testing.T) {
		hub.RoomOpened(room)

		event := receive(t, lobbyWatcher)
		assert.Equal(t, EventRoomOpened, event.Type)

		payload, ok := event.Payload.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, room.ID.String(), payload["room_id"])
		assert.Equal(t, "Ana", payload["creator_name"])
		assert.Empty(t, player.send)
	})

	t.Run("Should announce a filled room to lobby and players", func(t *testing.T) {
		hub.RoomFilled(room)

		assert.Equal(t, EventRoomFilled, receive(t, lobbyWatcher).Type)
		assert.Equal(t, EventRoomFilled, receive(t, player).Type)
	})

	t.Run("Should deliver the flip result to the room topic", func(t *testing.T) {
		winnerID := uuid.New()
		hub.FlipFinished(model.FlipResult{
			RoomID:   room.ID,
			Coin:     model.Tails,
			WinnerID: &winnerID,
		})

		event := receive(t, player)
		assert.Equal(t, EventFlipFinished, event.Type)

		payload, ok := event.Payload.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "tails", payload["coin_result"])
		assert.Equal(t, winnerID.String(), payload["winner_id"])
	})

	t.Run("Should survive a slow consumer unregistering after the drop", func(t *testing.T) {
		// Undrained and unbuffered: the first broadcast takes the drop
		// branch and closes send.
		slow := &Client{hub: hub, send: make(chan Event), topic: lobbyTopic}
		hub.register <- slow

		hub.RoomOpened(room)
		receive(t, lobbyWatcher)

		_, open := <-slow.send
		assert.False(t, open)

		// The read pump reports the dead connection; this must not close
		// send again and kill the hub loop.
		hub.unregister <- slow

		hub.RoomOpened(room)
		assert.Equal(t, EventRoomOpened, receive(t, lobbyWatcher).Type)
	})

	t.Run("Should stop delivering after unregister", func(t *testing.T) {
		hub.unregister <- lobbyWatcher

		// The closed channel drains to the zero event.
		for event := range lobbyWatcher.send {
			_ = event
		}

		hub.RoomOpened(room)
		assert.Empty(t, player.send)
	})
}
