package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/services"
)

func listMyChats(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	chats, err := services.ListChats(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(chats)
}
