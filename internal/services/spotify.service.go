package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"museletter/config"
	"museletter/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	searchResultLimit = 20
	topTracksLimit    = 10
	recentTracksLimit = 20
)

var ErrSpotifyNotConfigured = fmt.Errorf("spotify credentials are not configured")

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
}

// SpotifyLink is the result of exchanging an authorization code: the tokens
// to hand back to the client plus the linked profile.
type SpotifyLink struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	User         SpotifyUser `json:"user"`
}

// RefreshedToken is the result of refreshing a user's delegated token.
type RefreshedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// SpotifyService talks to the Spotify Web API. Track search runs on an
// application token obtained through the client-credentials flow; top and
// recently-played tracks need a user token obtained through the
// authorization-code flow.
type SpotifyService struct {
	log        logger.Logger
	httpClient *http.Client

	oauthConfig *oauth2.Config
	appConfig   *clientcredentials.Config

	appToken    *oauth2.Token
	appTokenMux sync.RWMutex
}

func NewSpotifyService(cfg config.Config) *SpotifyService {
	log := logger.New("SpotifyService")

	if cfg.SpotifyClientID == "" {
		log.Warn("Spotify credentials not configured, music features disabled")
		return &SpotifyService{log: log}
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		RedirectURL:  cfg.SpotifyRedirectURI,
		Scopes: []string{
			"user-top-read",
			"user-read-recently-played",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	appConfig := &clientcredentials.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyService{
		log:         log,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		oauthConfig: oauthConfig,
		appConfig:   appConfig,
	}
}

// IsConfigured reports whether Spotify credentials were provided.
func (s *SpotifyService) IsConfigured() bool {
	return s.oauthConfig != nil
}

// AuthURL returns the authorization URL users visit to link their account.
func (s *SpotifyService) AuthURL(state string) (string, error) {
	if !s.IsConfigured() {
		return "", ErrSpotifyNotConfigured
	}
	return s.oauthConfig.AuthCodeURL(state), nil
}

// ExchangeCode trades an authorization code for tokens and fetches the
// linked profile in the same pass.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (*SpotifyLink, error) {
	log := s.log.Function("ExchangeCode")

	if !s.IsConfigured() {
		return nil, ErrSpotifyNotConfigured
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, log.Err("failed to exchange authorization code", err)
	}

	var user SpotifyUser
	if err := s.doRequest(ctx, token.AccessToken, "/me", &user); err != nil {
		return nil, log.Err("failed to fetch linked profile", err)
	}

	expiresIn := int(time.Until(token.Expiry).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}

	return &SpotifyLink{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    expiresIn,
		User:         user,
	}, nil
}

// RefreshUserToken exchanges a refresh token for a fresh access token.
func (s *SpotifyService) RefreshUserToken(
	ctx context.Context,
	refreshToken string,
) (*RefreshedToken, error) {
	log := s.log.Function("RefreshUserToken")

	if !s.IsConfigured() {
		return nil, ErrSpotifyNotConfigured
	}

	source := s.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, log.Err("failed to refresh delegated token", err)
	}

	expiresIn := int(time.Until(token.Expiry).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}

	return &RefreshedToken{
		AccessToken: token.AccessToken,
		ExpiresIn:   expiresIn,
	}, nil
}

// RefreshAppToken fetches a new client-credentials token. Called at startup
// and then hourly by the scheduler so search never runs on a stale token.
func (s *SpotifyService) RefreshAppToken(ctx context.Context) error {
	log := s.log.Function("RefreshAppToken")

	if !s.IsConfigured() {
		log.Debug("Spotify not configured, skipping app token refresh")
		return nil
	}

	token, err := s.appConfig.Token(ctx)
	if err != nil {
		return log.Err("failed to obtain application token", err)
	}

	s.appTokenMux.Lock()
	s.appToken = token
	s.appTokenMux.Unlock()

	log.Info("Application token refreshed", "expiresAt", token.Expiry)
	return nil
}

func (s *SpotifyService) getAppToken(ctx context.Context) (string, error) {
	s.appTokenMux.RLock()
	token := s.appToken
	s.appTokenMux.RUnlock()

	if token != nil && token.Valid() {
		return token.AccessToken, nil
	}

	if err := s.RefreshAppToken(ctx); err != nil {
		return "", err
	}

	s.appTokenMux.RLock()
	defer s.appTokenMux.RUnlock()
	return s.appToken.AccessToken, nil
}

// SearchTracks searches the catalog by free-text query using the
// application token.
func (s *SpotifyService) SearchTracks(
	ctx context.Context,
	query string,
) ([]models.TrackReference, error) {
	log := s.log.Function("SearchTracks")

	if !s.IsConfigured() {
		return nil, ErrSpotifyNotConfigured
	}

	accessToken, err := s.getAppToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"/search?q=%s&type=track&limit=%d",
		url.QueryEscape(query),
		searchResultLimit,
	)

	var response struct {
		Tracks struct {
			Items []models.TrackReference `json:"items"`
		} `json:"tracks"`
	}

	if err := s.doRequest(ctx, accessToken, endpoint, &response); err != nil {
		return nil, log.Err("track search failed", err, "query", query)
	}

	return response.Tracks.Items, nil
}

// TopTracks fetches the linked user's short-term top tracks.
func (s *SpotifyService) TopTracks(
	ctx context.Context,
	accessToken string,
) ([]models.TrackReference, error) {
	log := s.log.Function("TopTracks")

	if !s.IsConfigured() {
		return nil, ErrSpotifyNotConfigured
	}

	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d&time_range=short_term", topTracksLimit)

	var response struct {
		Items []models.TrackReference `json:"items"`
	}

	if err := s.doRequest(ctx, accessToken, endpoint, &response); err != nil {
		return nil, log.Err("failed to fetch top tracks", err)
	}

	return response.Items, nil
}

// RecentTracks fetches the linked user's recently played tracks.
func (s *SpotifyService) RecentTracks(
	ctx context.Context,
	accessToken string,
) ([]models.TrackReference, error) {
	log := s.log.Function("RecentTracks")

	if !s.IsConfigured() {
		return nil, ErrSpotifyNotConfigured
	}

	endpoint := fmt.Sprintf("/me/player/recently-played?limit=%d", recentTracksLimit)

	var response struct {
		Items []struct {
			Track models.TrackReference `json:"track"`
		} `json:"items"`
	}

	if err := s.doRequest(ctx, accessToken, endpoint, &response); err != nil {
		return nil, log.Err("failed to fetch recent tracks", err)
	}

	tracks := make([]models.TrackReference, 0, len(response.Items))
	for _, item := range response.Items {
		tracks = append(tracks, item.Track)
	}

	return tracks, nil
}

func (s *SpotifyService) doRequest(
	ctx context.Context,
	accessToken string,
	endpoint string,
	result any,
) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spotifyBaseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
