package handlers

import (
	"errors"

	"museletter/internal/app"
	"museletter/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type MusicHandler struct {
	Handler
	spotifyService *services.SpotifyService
}

func NewMusicHandler(app app.App, router fiber.Router) *MusicHandler {
	log := logger.New("handlers").File("music_handler")
	return &MusicHandler{
		spotifyService: app.SpotifyService,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MusicHandler) Register() {
	music := h.router.Group("/music")

	music.Get("/search", h.search)
}

// search runs a free-text track search on the application token, no user
// session required.
func (h *MusicHandler) search(c *fiber.Ctx) error {
	log := h.log.Function("search")

	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'q' is required",
		})
	}

	tracks, err := h.spotifyService.SearchTracks(c.UserContext(), query)
	if err != nil {
		if errors.Is(err, services.ErrSpotifyNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "Music search not configured",
			})
		}
		log.Er("track search failed", err, "query", query)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to search for music",
		})
	}

	return c.JSON(tracks)
}
