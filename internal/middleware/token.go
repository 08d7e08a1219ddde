package middleware

import (
	jwtPkg "SafeDrive/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	ClaimsKey = "claims"
	AdminRole = "admin"
)

type tokenMiddleware struct {
	secret string
}

func newTokenMiddleware(secret string) *tokenMiddleware {
	return &tokenMiddleware{secret: secret}
}

// NewTokenMiddleware admits requests carrying a valid HS256 bearer token
// whose role claim is admin.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	logger := m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"method":     ctx.Method(),
		"client_ip":  ctx.IP(),
	})

	if m.token.secret == "" {
		logger.Warn("Protected endpoint called without JWT_SECRET configured")
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Endpoint disabled",
		})
	}

	claims, err := jwtPkg.VerifyTokenHeader(ctx.Get(fiber.HeaderAuthorization), m.token.secret)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	role, _ := claims["role"].(string)
	if role != AdminRole {
		logger.WithField("role", role).Warn("Token lacks admin role")
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	ctx.Locals(ClaimsKey, claims)

	logger.Debug("Authentication successful")
	return ctx.Next()
}
