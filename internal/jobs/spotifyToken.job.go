package jobs

import (
	"context"

	"museletter/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// SpotifyTokenJob keeps the application search token fresh. Spotify
// client-credentials tokens last an hour, so the job runs hourly.
type SpotifyTokenJob struct {
	spotifyService *services.SpotifyService
	log            logger.Logger
	schedule       services.Schedule
}

func NewSpotifyTokenJob(
	spotifyService *services.SpotifyService,
	schedule services.Schedule,
) *SpotifyTokenJob {
	log := logger.New("spotifyTokenJob")
	log.Info("Creating new spotify token refresh job", "schedule", schedule)

	return &SpotifyTokenJob{
		spotifyService: spotifyService,
		log:            log,
		schedule:       schedule,
	}
}

func (j *SpotifyTokenJob) Name() string {
	return "SpotifyTokenRefresh"
}

func (j *SpotifyTokenJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if err := j.spotifyService.RefreshAppToken(ctx); err != nil {
		return log.Err("spotify token refresh failed", err)
	}

	return nil
}

func (j *SpotifyTokenJob) Schedule() services.Schedule {
	return j.schedule
}
