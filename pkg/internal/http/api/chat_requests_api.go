package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/http/exts"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/services"
)

func mapChatError(err error) error {
	var vErr services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrRequestNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotInvited):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrAlreadySettled):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrMaterializeConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

type chatRequestUserData struct {
	User                       uint     `json:"user" validate:"required"`
	UserType                   string   `json:"user_type" validate:"required,oneof=Patient Expert Admin"`
	SimilarPrakrithiPercentage *float64 `json:"similar_prakrithi_percentage"`
}

func createChatRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		ChatType   string                `json:"chat_type" validate:"required,oneof=private group"`
		GroupName  string                `json:"group_name" validate:"max=64"`
		ChatReason string                `json:"chat_reason" validate:"max=256"`
		Metadata   map[string]any        `json:"metadata"`
		Users      []chatRequestUserData `json:"users" validate:"required,dive"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	invitees := lo.Map(data.Users, func(item chatRequestUserData, index int) services.ChatRequestInvitee {
		return services.ChatRequestInvitee{
			AccountID:                  item.User,
			UserType:                   item.UserType,
			SimilarPrakrithiPercentage: item.SimilarPrakrithiPercentage,
		}
	})

	request, err := services.NewChatRequest(user, data.ChatType, data.GroupName, data.ChatReason, data.Metadata, invitees)
	if err != nil {
		return mapChatError(err)
	}

	return c.JSON(request)
}

func acceptChatRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	requestId, err := c.ParamsInt("requestId")
	if err != nil || requestId <= 0 {
		return mapChatError(services.ErrRequestNotFound)
	}

	request, err := services.AcceptChatRequest(uint(requestId), user)
	if err != nil {
		return mapChatError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"chat":    request.ChatID,
	})
}

func rejectChatRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	requestId, err := c.ParamsInt("requestId")
	if err != nil || requestId <= 0 {
		return mapChatError(services.ErrRequestNotFound)
	}

	if _, err := services.DeclineChatRequest(uint(requestId), user); err != nil {
		return mapChatError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func listReceivedChatRequests(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var filter []models.ChatType
	if chatType := c.Query("type"); len(chatType) > 0 {
		filter = append(filter, chatType)
	}

	requests, err := services.ListReceivedChatRequests(user, filter...)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(requests)
}

func listSentChatRequests(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var filter []models.ChatType
	if chatType := c.Query("type"); len(chatType) > 0 {
		filter = append(filter, chatType)
	}

	requests, err := services.ListSentChatRequests(user, filter...)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(requests)
}
