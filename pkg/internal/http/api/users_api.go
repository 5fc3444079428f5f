package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
)

func getUserinfo(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	return c.JSON(user)
}
