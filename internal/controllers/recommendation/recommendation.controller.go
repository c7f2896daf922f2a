package recommendationController

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"museletter/internal/database"
	"museletter/internal/models"
	"museletter/internal/repositories"
	"museletter/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// maxDrawAttempts bounds the retry loop when concurrent draws race for
	// the same row. Each loser re-picks from the remaining pool.
	maxDrawAttempts = 5

	drawRetryBase   = 10 * time.Millisecond
	drawRetryJitter = 10 * time.Millisecond
)

// ErrDrawContention means every draw attempt lost its consume race.
var ErrDrawContention = errors.New("could not draw a recommendation, pool under contention")

// RecommendationController owns the pool: submissions in, draws out.
type RecommendationController struct {
	recommendationRepo repositories.RecommendationRepository
	userRepo           repositories.UserRepository
	transaction        *services.TransactionService
	catalog            *services.CatalogService
	db                 database.DB
	log                logger.Logger
}

type RecommendationControllerInterface interface {
	Submit(
		ctx context.Context,
		submitterID uuid.UUID,
		track models.TrackReference,
	) (*models.Recommendation, error)
	Draw(ctx context.Context, requesterID uuid.UUID) (*models.DrawResult, error)
	ListSubmitted(ctx context.Context, userID uuid.UUID) ([]models.Recommendation, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]models.Recommendation, error)
	Stats(ctx context.Context, userID uuid.UUID) (*models.PoolStats, error)
}

func New(
	repos repositories.Repository,
	transaction *services.TransactionService,
	catalog *services.CatalogService,
	db database.DB,
) RecommendationControllerInterface {
	return &RecommendationController{
		recommendationRepo: repos.Recommendation,
		userRepo:           repos.User,
		transaction:        transaction,
		catalog:            catalog,
		db:                 db,
		log:                logger.New("recommendationController"),
	}
}

// Submit adds a track to the pool. A user may recommend any track at most
// once, ever, counting consumed rows.
func (c *RecommendationController) Submit(
	ctx context.Context,
	submitterID uuid.UUID,
	track models.TrackReference,
) (*models.Recommendation, error) {
	log := c.log.Function("Submit")

	if err := track.Validate(); err != nil {
		return nil, err
	}

	exists, err := c.recommendationRepo.HasSubmitted(ctx, c.db.SQL, submitterID, track.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Info("duplicate submission rejected",
			"submitterID", submitterID,
			"trackID", track.ID,
		)
		return nil, repositories.ErrDuplicateSubmission
	}

	recommendation := &models.Recommendation{
		SubmitterID: submitterID,
		TrackID:     track.ID,
		Track:       datatypes.NewJSONType(track),
	}

	// Create maps the unique-constraint violation, closing the race between
	// the lookup above and the insert.
	if err := c.recommendationRepo.Create(ctx, c.db.SQL, recommendation); err != nil {
		return nil, err
	}

	log.Info("recommendation added to pool",
		"submitterID", submitterID,
		"trackID", track.ID,
		"trackName", track.Name,
	)

	return recommendation, nil
}

// Draw atomically takes one unconsumed recommendation from another user, or
// records a catalog fallback when none exist. Consume conflicts with
// concurrent draws are retried with jitter against a fresh pick.
func (c *RecommendationController) Draw(
	ctx context.Context,
	requesterID uuid.UUID,
) (*models.DrawResult, error) {
	log := c.log.Function("Draw")

	var lastErr error
	for attempt := 1; attempt <= maxDrawAttempts; attempt++ {
		result, err := c.drawOnce(ctx, requesterID)
		if err == nil {
			return result, nil
		}

		// A lost consume race or a pool drained mid-draw both mean the same
		// thing: pick again.
		if errors.Is(err, repositories.ErrConsumeConflict) ||
			errors.Is(err, gorm.ErrRecordNotFound) {
			lastErr = err
			log.Debug("draw attempt lost race, retrying",
				"attempt", attempt,
				"requesterID", requesterID,
			)
			time.Sleep(drawRetryBase + time.Duration(rand.Int63n(int64(drawRetryJitter))))
			continue
		}

		return nil, err
	}

	return nil, log.Err("all draw attempts lost their consume race",
		errors.Join(ErrDrawContention, lastErr),
		"attempts", maxDrawAttempts,
		"requesterID", requesterID,
	)
}

func (c *RecommendationController) drawOnce(
	ctx context.Context,
	requesterID uuid.UUID,
) (*models.DrawResult, error) {
	var drawn *models.Recommendation
	var systemTrack *models.TrackReference

	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		count, err := c.recommendationRepo.CountEligible(ctx, tx, requesterID)
		if err != nil {
			return err
		}

		if count == 0 {
			track := c.catalog.RandomTrack()
			if _, err := c.recommendationRepo.CreateSystemDraw(ctx, tx, track, requesterID); err != nil {
				return err
			}
			systemTrack = &track
			return nil
		}

		recommendation, err := c.recommendationRepo.PickRandomEligible(ctx, tx, requesterID)
		if err != nil {
			return err
		}

		if _, err := c.recommendationRepo.Consume(ctx, tx, recommendation.ID, requesterID); err != nil {
			return err
		}

		drawn = recommendation
		return nil
	})
	if err != nil {
		return nil, err
	}

	if systemTrack != nil {
		return &models.DrawResult{
			Track:              *systemTrack,
			IsSystemOrigin:     true,
			RecommendedBy:      models.SystemRecommenderName,
			RecommenderCountry: nil,
		}, nil
	}

	return c.attributeDraw(ctx, drawn), nil
}

// attributeDraw resolves who recommended the drawn track. Attribution is
// cosmetic, so a failed lookup degrades to the anonymous fallbacks rather
// than failing a draw that already committed.
func (c *RecommendationController) attributeDraw(
	ctx context.Context,
	recommendation *models.Recommendation,
) *models.DrawResult {
	log := c.log.Function("attributeDraw")

	recommendedBy := "Anonymous"
	country := "Unknown"

	submitter, err := c.userRepo.GetByID(ctx, recommendation.SubmitterID)
	if err != nil {
		log.Warn("failed to resolve submitter for attribution",
			"recommendationID", recommendation.ID,
			"submitterID", recommendation.SubmitterID,
			"error", err,
		)
	} else {
		recommendedBy = submitter.DisplayIdentity()
		country = submitter.DisplayCountry()
	}

	return &models.DrawResult{
		Track:              recommendation.TrackRef(),
		IsSystemOrigin:     false,
		RecommendedBy:      recommendedBy,
		RecommenderCountry: &country,
	}
}

// ListSubmitted returns the user's own submissions, newest first.
func (c *RecommendationController) ListSubmitted(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.Recommendation, error) {
	return c.recommendationRepo.ListSubmittedBy(ctx, userID)
}

// ListReceived returns the recommendations this user has drawn, newest first.
func (c *RecommendationController) ListReceived(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.Recommendation, error) {
	return c.recommendationRepo.ListReceivedBy(ctx, userID)
}

// Stats aggregates the pool counters for this user.
func (c *RecommendationController) Stats(
	ctx context.Context,
	userID uuid.UUID,
) (*models.PoolStats, error) {
	return c.recommendationRepo.PoolStats(ctx, userID)
}
