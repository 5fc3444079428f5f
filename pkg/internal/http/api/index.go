package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/signaling"
)

var callRegistry *signaling.RoomRegistry

func MapAPIs(app *fiber.App, baseURL string, registry *signaling.RoomRegistry) {
	callRegistry = registry

	api := app.Group(baseURL).Name("API")
	{
		api.Get("/users/me", authMiddleware, getUserinfo)

		chat := api.Group("/chat").Name("Chat API")
		{
			chat.Post("/request", authMiddleware, createChatRequest)
			chat.Post("/request/:requestId/accept", authMiddleware, acceptChatRequest)
			chat.Post("/request/:requestId/reject", authMiddleware, rejectChatRequest)
			chat.Get("/received-requests", authMiddleware, listReceivedChatRequests)
			chat.Get("/sent-requests", authMiddleware, listSentChatRequests)
			chat.Get("/my-chats", authMiddleware, listMyChats)
		}

		calls := api.Group("/calls").Name("Calls API")
		{
			calls.Get("/ice-servers", getIceServers)
			calls.Get("/join", authMiddleware, websocket.New(callGateway))
			calls.Get("/:roomId/participants", authMiddleware, listCallParticipants)
		}
	}
}
