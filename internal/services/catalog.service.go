package services

import (
	"encoding/json"
	"math/rand"
	"os"

	"museletter/config"
	"museletter/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// CatalogService holds the curated fallback tracks served when the pool has
// nothing left for a requester. The catalog loads once at startup, from a
// JSON file when SYSTEM_CATALOG_PATH is set, otherwise from the built-in
// selection, and is immutable afterwards.
type CatalogService struct {
	log    logger.Logger
	tracks []models.TrackReference
}

func NewCatalogService(cfg config.Config) (*CatalogService, error) {
	log := logger.New("CatalogService")

	tracks := defaultCatalog()

	if cfg.SystemCatalogPath != "" {
		loaded, err := loadCatalogFile(cfg.SystemCatalogPath)
		if err != nil {
			return nil, log.Err(
				"failed to load system catalog file",
				err,
				"path", cfg.SystemCatalogPath,
			)
		}
		tracks = loaded
		log.Info("Loaded system catalog from file",
			"path", cfg.SystemCatalogPath,
			"trackCount", len(tracks),
		)
	} else {
		log.Info("Using built-in system catalog", "trackCount", len(tracks))
	}

	if len(tracks) == 0 {
		return nil, log.ErrMsg("system catalog must contain at least one track")
	}

	for _, track := range tracks {
		if err := track.Validate(); err != nil {
			return nil, log.Err("system catalog contains an invalid track", err, "trackID", track.ID)
		}
	}

	return &CatalogService{
		log:    log,
		tracks: tracks,
	}, nil
}

// RandomTrack picks one catalog track uniformly at random.
func (s *CatalogService) RandomTrack() models.TrackReference {
	return s.tracks[rand.Intn(len(s.tracks))]
}

// Size returns the number of tracks in the catalog.
func (s *CatalogService) Size() int {
	return len(s.tracks)
}

func loadCatalogFile(path string) ([]models.TrackReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tracks []models.TrackReference
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, err
	}

	return tracks, nil
}

func defaultCatalog() []models.TrackReference {
	return []models.TrackReference{
		{
			ID:      "3AX2zMrXcR2up2rg4bpXSM",
			Name:    "HARDX",
			Artists: []models.TrackArtist{{Name: "Yaego"}},
			Album: models.TrackAlbum{
				Name: "HARDX — Single",
				Images: []models.TrackImage{
					{URL: "https://i.scdn.co/image/ab67616d0000b273c6dd25efb4ab10a9b52d1dbb"},
				},
			},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/3AX2zMrXcR2up2rg4bpXSM",
			},
		},
		{
			ID:   "1zX178V8sWozr96MrfmRun",
			Name: "Western Union",
			Artists: []models.TrackArtist{
				{Name: "Thaiboy Digital"},
				{Name: "Bladee"},
				{Name: "Ecco2k"},
			},
			Album: models.TrackAlbum{
				Name: "Trash Island",
				Images: []models.TrackImage{
					{URL: "https://i.scdn.co/image/ab67616d0000b27389fc8b71ce74de508e3109af"},
				},
			},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/1zX178V8sWozr96MrfmRun",
			},
		},
		{
			ID:      "5IBgHRJfCoxwIlalQZsW08",
			Name:    "Princess",
			Artists: []models.TrackArtist{{Name: "Feng"}},
			Album: models.TrackAlbum{
				Name: "Princess — Single",
				Images: []models.TrackImage{
					{URL: "https://i.scdn.co/image/ab67616d0000b273b9e8f098bc8f0f0644ec6c6b"},
				},
			},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/5IBgHRJfCoxwIlalQZsW08",
			},
		},
		{
			ID:      "6AerqwCmIFR3qqiskGzsYA",
			Name:    "Only Seeing God When I Come",
			Artists: []models.TrackArtist{{Name: "Sega Bodega"}},
			Album: models.TrackAlbum{
				Name: "Romeo",
				Images: []models.TrackImage{
					{URL: "https://i.scdn.co/image/ab67616d0000b273fae2b5ffe2cedb7a45d6e09e"},
				},
			},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/6AerqwCmIFR3qqiskGzsYA",
			},
		},
		{
			ID:      "5MAJGAdzKex0Z8Po7GwS4e",
			Name:    "Rivet Gun",
			Artists: []models.TrackArtist{{Name: "Mother Soki"}},
			Album: models.TrackAlbum{
				Name: "Rivet Gun — Single",
				Images: []models.TrackImage{
					{URL: "https://i.scdn.co/image/ab67616d0000b273a7d857b4338e4e100afd5270"},
				},
			},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/5MAJGAdzKex0Z8Po7GwS4e",
			},
		},
		{
			ID:      "4RzqrsImlUQO81AksmEsbq",
			Name:    "True Altruism",
			Artists: []models.TrackArtist{{Name: "Chanel Beads"}},
			Album: models.TrackAlbum{
				Name: "True Altruism — Single",
				Images: []models.TrackImage{
					{URL: "https://i.scdn.co/image/ab67616d0000b273d270b3b17cbdfcc0b971ef2a"},
				},
			},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/4RzqrsImlUQO81AksmEsbq",
			},
		},
		{
			ID:      "7pCdAOcXQ8vhDpy98dGsGT",
			Name:    "r u kissin any1?",
			Artists: []models.TrackArtist{{Name: "Joey Cash"}},
			Album: models.TrackAlbum{
				Name: "r u kissin any1? — Single",
				Images: []models.TrackImage{
					{URL: "https://i.scdn.co/image/ab67616d0000b273ed23de77be4b7610a64dac45"},
				},
			},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/7pCdAOcXQ8vhDpy98dGsGT",
			},
		},
		{
			ID:   "7CK4bpTIiYWYp478jgSlgp",
			Name: "5",
			Artists: []models.TrackArtist{
				{Name: "Dean Blunt"},
				{Name: "Elias Rønnenfelt"},
			},
			Album: models.TrackAlbum{
				Name: "lucre",
				Images: []models.TrackImage{
					{URL: "https://i.scdn.co/image/ab67616d0000b273a1906f03b1e2a0f2eaa3d6b5"},
				},
			},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/7CK4bpTIiYWYp478jgSlgp",
			},
		},
	}
}
