package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/services"
)

type authClaims struct {
	Name   string  `json:"name"`
	Nick   string  `json:"nick"`
	Avatar *string `json:"avatar,omitempty"`
	Type   string  `json:"type"`

	jwt.RegisteredClaims
}

// authMiddleware resolves the caller's account out of a bearer token. The
// token may also arrive as the tk query parameter since browsers cannot set
// headers on websocket upgrades.
func authMiddleware(c *fiber.Ctx) error {
	tk := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer"))
	if len(tk) == 0 {
		tk = c.Query("tk")
	}
	if len(tk) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "auth token is required")
	}

	claims := &authClaims{}
	out, err := jwt.ParseWithClaims(tk, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(viper.GetString("security.jwt_secret")), nil
	})
	if err != nil || !out.Valid {
		return fiber.NewError(fiber.StatusUnauthorized, "auth token is invalid")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "auth token subject is malformed")
	}

	account, err := services.LoadAccount(uint(id), claims.Name, claims.Nick, claims.Avatar, models.AccountType(claims.Type))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Locals("user", account)

	return c.Next()
}
