package handlers

import (
	"errors"

	"museletter/internal/app"
	authController "museletter/internal/controllers/auth"
	"museletter/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/signup", h.signup)
	auth.Post("/login", h.login)
}

func (h *AuthHandler) signup(c *fiber.Ctx) error {
	log := h.log.Function("signup")

	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("failed to parse signup request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	_, err := h.authController.Signup(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, authController.ErrMissingFields):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "All fields are required.",
			})
		case errors.Is(err, authController.ErrEmailInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Email already in use.",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Signup failed",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "User created",
	})
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("failed to parse login request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	result, err := h.authController.Login(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, authController.ErrMissingFields):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Username and password required.",
			})
		case errors.Is(err, authController.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Login failed",
			})
		}
	}

	return c.JSON(result)
}
