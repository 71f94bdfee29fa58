// Package session reads the authenticated device from a request.
package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrNoDevice = errors.New("no authenticated device")

// TokenKey is where the JWT middleware stores the parsed token.
const TokenKey = "user"

// DeviceID extracts the device UUID from the JWT sub claim.
func DeviceID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(TokenKey).(*jwt.Token)
	if !ok {
		return uuid.Nil, ErrNoDevice
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}
