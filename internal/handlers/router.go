package handlers

import (
	"museletter/internal/app"
	"museletter/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")

	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewProfileHandler(*app, api).Register()
	NewMusicHandler(*app, api).Register()
	NewSpotifyHandler(*app, api).Register()
	NewRecommendationHandler(*app, api).Register()

	return nil
}
