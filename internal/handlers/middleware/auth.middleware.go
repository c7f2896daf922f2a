package middleware

import (
	"context"
	"strings"

	"museletter/internal/models"
	"museletter/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User" // Fiber context key (string)
)

// RequireAuth validates the bearer session token and loads the account it
// was issued for into the request context.
func (m *Middleware) RequireAuth(tokenService *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireAuth")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token missing",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid authorization header format",
			})
		}

		token := tokenParts[1]
		if token == "" {
			log.Info("empty token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token missing",
			})
		}

		userID, err := tokenService.Validate(token)
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid token",
			})
		}

		user, err := m.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			log.Info("user not found for valid token", "userID", userID, "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "User not found",
			})
		}

		// Store user in Fiber context
		c.Locals(UserKeyFiber, user)

		// Add to Go context for services (preserve trace ID from TraceID middleware)
		ctx := context.WithValue(c.UserContext(), UserKey, user)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// GetUser extracts user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}
