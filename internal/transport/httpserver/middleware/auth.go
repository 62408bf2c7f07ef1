package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"qayeem-service/internal/transport/httpserver/dto"
)

// Locals keys set by the auth middleware.
const (
	LocalsUserID = "user_id"
	LocalsRole   = "role"
)

// claims is the token payload this service accepts.
type claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth returns a middleware that validates the Bearer token and stores
// the caller's identity in locals.
func Auth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "missing or malformed token",
				Code:  "UNAUTHORIZED",
			})
		}

		parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "UNAUTHORIZED",
			})
		}

		cl := parsed.Claims.(*claims)
		if cl.UserID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "token carries no user identity",
				Code:  "UNAUTHORIZED",
			})
		}

		c.Locals(LocalsUserID, cl.UserID)
		c.Locals(LocalsRole, cl.Role)

		return c.Next()
	}
}

// RequireAdmin returns a middleware that rejects non-admin callers. It
// must run after Auth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals(LocalsRole).(string); role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "admin access required",
				Code:  "FORBIDDEN",
			})
		}

		return c.Next()
	}
}

// UserID returns the authenticated caller's id from locals.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalsUserID).(uint)
	return id
}
