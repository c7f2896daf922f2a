package handlers

import (
	"errors"

	"museletter/internal/app"
	"museletter/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SpotifyHandler struct {
	Handler
	spotifyService *services.SpotifyService
}

func NewSpotifyHandler(app app.App, router fiber.Router) *SpotifyHandler {
	log := logger.New("handlers").File("spotify_handler")
	return &SpotifyHandler{
		spotifyService: app.SpotifyService,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SpotifyHandler) Register() {
	spotify := h.router.Group("/spotify")

	spotify.Get("/auth", h.authURL)
	spotify.Get("/callback", h.callback)
	spotify.Post("/refresh", h.refresh)
	spotify.Get("/top-tracks", h.topTracks)
	spotify.Get("/recent-tracks", h.recentTracks)
}

// authURL hands the client the authorization URL for account linking.
func (h *SpotifyHandler) authURL(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" {
		state = uuid.New().String()
	}

	authURL, err := h.spotifyService.AuthURL(state)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Spotify linking not configured",
		})
	}

	return c.JSON(fiber.Map{
		"authUrl": authURL,
	})
}

func (h *SpotifyHandler) callback(c *fiber.Ctx) error {
	log := h.log.Function("callback")

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Authorization code not found",
		})
	}

	link, err := h.spotifyService.ExchangeCode(c.UserContext(), code)
	if err != nil {
		log.Er("spotify code exchange failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to authenticate with Spotify",
		})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"access_token":  link.AccessToken,
		"refresh_token": link.RefreshToken,
		"user":          link.User,
	})
}

func (h *SpotifyHandler) refresh(c *fiber.Ctx) error {
	log := h.log.Function("refresh")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Refresh token required",
		})
	}

	refreshed, err := h.spotifyService.RefreshUserToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrSpotifyNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "Spotify linking not configured",
			})
		}
		log.Er("spotify token refresh failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to refresh token",
		})
	}

	return c.JSON(refreshed)
}

// delegatedToken pulls the caller's Spotify access token from the request.
func delegatedToken(c *fiber.Ctx) string {
	return c.Get("access_token")
}

func (h *SpotifyHandler) topTracks(c *fiber.Ctx) error {
	log := h.log.Function("topTracks")

	accessToken := delegatedToken(c)
	if accessToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Access token required",
		})
	}

	tracks, err := h.spotifyService.TopTracks(c.UserContext(), accessToken)
	if err != nil {
		if errors.Is(err, services.ErrSpotifyNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "Spotify linking not configured",
			})
		}
		log.Er("failed to fetch top tracks", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch top tracks",
		})
	}

	return c.JSON(fiber.Map{
		"items": tracks,
	})
}

func (h *SpotifyHandler) recentTracks(c *fiber.Ctx) error {
	log := h.log.Function("recentTracks")

	accessToken := delegatedToken(c)
	if accessToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Access token required",
		})
	}

	tracks, err := h.spotifyService.RecentTracks(c.UserContext(), accessToken)
	if err != nil {
		if errors.Is(err, services.ErrSpotifyNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "Spotify linking not configured",
			})
		}
		log.Er("failed to fetch recent tracks", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch recent tracks",
		})
	}

	return c.JSON(fiber.Map{
		"items": tracks,
	})
}
