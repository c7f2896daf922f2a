package handlers

import (
	"museletter/internal/app"
	userController "museletter/internal/controllers/users"
	"museletter/internal/handlers/middleware"
	"museletter/internal/models"
	"museletter/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	Handler
	userController userController.UserControllerInterface
	tokenService   *services.TokenService
}

func NewProfileHandler(app app.App, router fiber.Router) *ProfileHandler {
	log := logger.New("handlers").File("profile_handler")
	return &ProfileHandler{
		userController: app.Controllers.User,
		tokenService:   app.TokenService,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ProfileHandler) Register() {
	profile := h.router.Group("/profile", h.middleware.RequireAuth(h.tokenService))

	profile.Get("/", h.getProfile)
	profile.Put("/", h.updateProfile)
}

func (h *ProfileHandler) getProfile(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token missing",
		})
	}

	profile, err := h.userController.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}

	return c.JSON(profile)
}

func (h *ProfileHandler) updateProfile(c *fiber.Ctx) error {
	log := h.log.Function("updateProfile")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token missing",
		})
	}

	var req models.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("failed to parse profile update", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if _, err := h.userController.UpdateProfile(c.UserContext(), user.ID, req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
	})
}
