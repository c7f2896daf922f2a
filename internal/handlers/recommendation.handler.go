package handlers

import (
	"errors"

	"museletter/internal/app"
	recommendationController "museletter/internal/controllers/recommendation"
	"museletter/internal/handlers/middleware"
	"museletter/internal/models"
	"museletter/internal/repositories"
	"museletter/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type RecommendationHandler struct {
	Handler
	recommendationController recommendationController.RecommendationControllerInterface
	tokenService             *services.TokenService
}

func NewRecommendationHandler(app app.App, router fiber.Router) *RecommendationHandler {
	log := logger.New("handlers").File("recommendation_handler")
	return &RecommendationHandler{
		recommendationController: app.Controllers.Recommendation,
		tokenService:             app.TokenService,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecommendationHandler) Register() {
	recommendation := h.router.Group(
		"/recommendation",
		h.middleware.RequireAuth(h.tokenService),
	)

	recommendation.Post("/", h.submit)
	recommendation.Get("/random", h.draw)
	recommendation.Get("/my", h.listSubmitted)
	recommendation.Get("/received", h.listReceived)
	recommendation.Get("/pool-stats", h.poolStats)
}

func (h *RecommendationHandler) submit(c *fiber.Ctx) error {
	log := h.log.Function("submit")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token missing",
		})
	}

	var req struct {
		Track models.TrackReference `json:"track"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Info("failed to parse submission", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid track data",
		})
	}

	recommendation, err := h.recommendationController.Submit(c.UserContext(), user.ID, req.Track)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidTrack):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid track data",
			})
		case errors.Is(err, repositories.ErrDuplicateSubmission):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message":            "You have already recommended this song. Please select a different track.",
				"alreadyRecommended": true,
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to save recommendation",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message":        "Recommendation added to pool successfully",
		"recommendation": recommendation,
	})
}

func (h *RecommendationHandler) draw(c *fiber.Ctx) error {
	log := h.log.Function("draw")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token missing",
		})
	}

	result, err := h.recommendationController.Draw(c.UserContext(), user.ID)
	if err != nil {
		log.Er("draw failed", err, "userID", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch recommendation",
		})
	}

	return c.JSON(result)
}

func (h *RecommendationHandler) listSubmitted(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token missing",
		})
	}

	recommendations, err := h.recommendationController.ListSubmitted(c.UserContext(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch recommendations",
		})
	}

	return c.JSON(recommendations)
}

func (h *RecommendationHandler) listReceived(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token missing",
		})
	}

	recommendations, err := h.recommendationController.ListReceived(c.UserContext(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch received recommendations",
		})
	}

	return c.JSON(recommendations)
}

func (h *RecommendationHandler) poolStats(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token missing",
		})
	}

	stats, err := h.recommendationController.Stats(c.UserContext(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch pool statistics",
		})
	}

	return c.JSON(stats)
}
