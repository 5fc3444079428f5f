package api

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
)

const wsSendQueueSize = 64

// wsClient owns the outbound side of one gateway connection. Packets go
// through a bounded queue drained by a single writer goroutine, so pushing
// never blocks the registry; a full queue drops the packet.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (v *wsClient) Push(data []byte) bool {
	select {
	case v.send <- data:
		return true
	default:
		return false
	}
}

func (v *wsClient) writePump() {
	for data := range v.send {
		if err := v.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
}

// Close must only be called after the client can no longer be reached
// through the registry.
func (v *wsClient) Close() {
	v.once.Do(func() {
		close(v.send)
	})
}

func callGateway(c *websocket.Conn) {
	user := c.Locals("user").(models.Account)

	client := &wsClient{conn: c, send: make(chan []byte, wsSendQueueSize)}
	go client.writePump()

	clientId := uuid.NewString()

	defer func() {
		callRegistry.Leave(clientId)
		client.Close()
	}()

	// Event loop
	var task models.UnifiedCommand

	var packet []byte
	var err error

	for {
		if _, packet, err = c.ReadMessage(); err != nil {
			break
		} else if err := jsoniter.Unmarshal(packet, &task); err != nil {
			client.Push(models.UnifiedCommand{
				Action:  "error",
				Message: "unable to unmarshal your command, requires json request",
			}.Marshal())
			continue
		}

		switch task.Action {
		case models.CommandJoinCall:
			var req models.JoinCallPayload
			models.FitStruct(task.Payload, &req)
			if len(req.Room) == 0 {
				client.Push(models.UnifiedCommand{
					Action:  "error",
					Message: "room is required to join a call",
				}.Marshal())
				continue
			}
			name := req.DisplayName
			if len(name) == 0 {
				name = user.Nick
			}
			existing := callRegistry.Join(req.Room, clientId, name, client)
			client.Push(models.UnifiedCommand{
				Action: models.CommandExistingUsers,
				Payload: map[string]any{
					"id":    clientId,
					"users": existing,
				},
			}.Marshal())
		case models.CommandSignal:
			var req models.SignalPayload
			models.FitStruct(task.Payload, &req)
			callRegistry.Signal(clientId, req.To, req.Data)
		case models.CommandChatMessage:
			var req models.ChatMessagePayload
			models.FitStruct(task.Payload, &req)
			sender := req.Sender
			if len(sender) == 0 {
				sender = user.Nick
			}
			callRegistry.BroadcastChat(clientId, req.Text, sender)
		case models.CommandLeaveCall:
			callRegistry.Leave(clientId)
		default:
			client.Push(models.UnifiedCommand{
				Action:  "error",
				Message: "command not found",
			}.Marshal())
		}
	}
}
