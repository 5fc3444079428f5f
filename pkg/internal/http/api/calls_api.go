package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pion/webrtc/v3"
	"github.com/spf13/viper"
)

// getIceServers hands the externally configured STUN/TURN list to clients so
// they can build their RTCPeerConnection configuration.
func getIceServers(c *fiber.Ctx) error {
	var servers []webrtc.ICEServer

	if urls := viper.GetStringSlice("calling.stun_servers"); len(urls) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: urls})
	}
	if urls := viper.GetStringSlice("calling.turn_servers"); len(urls) > 0 {
		servers = append(servers, webrtc.ICEServer{
			URLs:       urls,
			Username:   viper.GetString("calling.turn_username"),
			Credential: viper.GetString("calling.turn_credential"),
		})
	}

	return c.JSON(fiber.Map{
		"ice_servers": servers,
	})
}

func listCallParticipants(c *fiber.Ctx) error {
	roomId := c.Params("roomId")

	peers, ok := callRegistry.Peers(roomId)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no ongoing call in this room")
	}

	return c.JSON(fiber.Map{
		"room":         roomId,
		"participants": peers,
	})
}
