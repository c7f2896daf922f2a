package seed

import (
	"museletter/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed loads development accounts and a small starter pool so a fresh
// environment has something to draw.
func Seed(db *gorm.DB, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	users := []models.User{
		{
			Username:       "ada",
			Email:          "ada@example.com",
			HashedPassword: string(hash),
			Name:           "Ada Lovelace",
			Country:        "United Kingdom",
		},
		{
			Username:       "grace",
			Email:          "grace@example.com",
			HashedPassword: string(hash),
			Name:           "Grace Hopper",
			Country:        "United States",
		},
	}

	for i := range users {
		var existing models.User
		if err := db.First(&existing, "username = ?", users[i].Username).Error; err == nil {
			log.Info("User already exists", "username", users[i].Username)
			users[i] = existing
			continue
		}
		log.Info("Seeding user", "username", users[i].Username)
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to create user", err, "username", users[i].Username)
		}
	}

	tracks := []models.TrackReference{
		{
			ID:      "0VjIjW4GlUZAMYd2vXMi3b",
			Name:    "Blinding Lights",
			Artists: []models.TrackArtist{{Name: "The Weeknd"}},
			Album:   models.TrackAlbum{Name: "After Hours"},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b",
			},
		},
		{
			ID:      "4u7EnebtmKWzUH433cf5Qv",
			Name:    "Bohemian Rhapsody",
			Artists: []models.TrackArtist{{Name: "Queen"}},
			Album:   models.TrackAlbum{Name: "A Night At The Opera"},
			ExternalURLs: models.TrackExternals{
				Spotify: "https://open.spotify.com/track/4u7EnebtmKWzUH433cf5Qv",
			},
		},
	}

	for i, track := range tracks {
		submitter := users[i%len(users)]

		var existing models.Recommendation
		err := db.First(
			&existing,
			"submitter_id = ? AND track_id = ? AND NOT is_system_origin",
			submitter.ID, track.ID,
		).Error
		if err == nil {
			log.Info("Recommendation already seeded", "trackID", track.ID)
			continue
		}

		recommendation := models.Recommendation{
			SubmitterID: submitter.ID,
			TrackID:     track.ID,
			Track:       datatypes.NewJSONType(track),
		}
		log.Info("Seeding recommendation", "trackID", track.ID, "submitter", submitter.Username)
		if err := db.Create(&recommendation).Error; err != nil {
			return log.Err("failed to create recommendation", err, "trackID", track.ID)
		}
	}

	log.Info("Seed complete")
	return nil
}
