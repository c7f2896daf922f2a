package repositories

import (
	"context"
	"errors"
	"time"

	"museletter/internal/database"
	. "museletter/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HISTORY_PAGE_SIZE caps the sent/received history listings.
const HISTORY_PAGE_SIZE = 20

var (
	// ErrDuplicateSubmission means this user already put this track into the
	// pool at some point, consumed or not.
	ErrDuplicateSubmission = errors.New("track already recommended by this user")

	// ErrConsumeConflict means the conditional consume matched no row: a
	// concurrent draw won the race for it.
	ErrConsumeConflict = errors.New("recommendation already consumed")
)

type RecommendationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, recommendation *Recommendation) error
	HasSubmitted(ctx context.Context, tx *gorm.DB, submitterID uuid.UUID, trackID string) (bool, error)
	CountEligible(ctx context.Context, tx *gorm.DB, requesterID uuid.UUID) (int64, error)
	PickRandomEligible(ctx context.Context, tx *gorm.DB, requesterID uuid.UUID) (*Recommendation, error)
	Consume(ctx context.Context, tx *gorm.DB, recommendationID, requesterID uuid.UUID) (time.Time, error)
	CreateSystemDraw(ctx context.Context, tx *gorm.DB, track TrackReference, requesterID uuid.UUID) (*Recommendation, error)
	ListSubmittedBy(ctx context.Context, userID uuid.UUID) ([]Recommendation, error)
	ListReceivedBy(ctx context.Context, userID uuid.UUID) ([]Recommendation, error)
	PoolStats(ctx context.Context, userID uuid.UUID) (*PoolStats, error)
}

type recommendationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewRecommendationRepository(db database.DB) RecommendationRepository {
	return &recommendationRepository{
		db:  db,
		log: logger.New("recommendationRepository"),
	}
}

func (r *recommendationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	recommendation *Recommendation,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(recommendation).Error; err != nil {
		// The partial unique index on (submitter_id, track_id) closes the
		// detect-then-insert race; a concurrent duplicate lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSubmission
		}
		return log.Err(
			"failed to create recommendation",
			err,
			"submitterID", recommendation.SubmitterID,
			"trackID", recommendation.TrackID,
		)
	}

	return nil
}

// HasSubmitted checks the full history, consumed rows included, so a track
// that already cycled through the pool cannot be re-submitted.
func (r *recommendationRepository) HasSubmitted(
	ctx context.Context,
	tx *gorm.DB,
	submitterID uuid.UUID,
	trackID string,
) (bool, error) {
	log := r.log.Function("HasSubmitted")

	var count int64
	err := tx.WithContext(ctx).
		Model(&Recommendation{}).
		Where("submitter_id = ? AND track_id = ? AND NOT is_system_origin", submitterID, trackID).
		Count(&count).Error
	if err != nil {
		return false, log.Err(
			"failed to check for existing recommendation",
			err,
			"submitterID", submitterID,
			"trackID", trackID,
		)
	}

	return count > 0, nil
}

func (r *recommendationRepository) CountEligible(
	ctx context.Context,
	tx *gorm.DB,
	requesterID uuid.UUID,
) (int64, error) {
	log := r.log.Function("CountEligible")

	var count int64
	err := tx.WithContext(ctx).
		Model(&Recommendation{}).
		Where("submitter_id <> ? AND NOT consumed", requesterID).
		Count(&count).Error
	if err != nil {
		return 0, log.Err("failed to count eligible recommendations", err, "requesterID", requesterID)
	}

	return count, nil
}

// PickRandomEligible selects uniformly among rows the requester may receive:
// not their own, not yet consumed. Selection is not a claim: the caller must
// win the Consume update before returning the row to anyone.
func (r *recommendationRepository) PickRandomEligible(
	ctx context.Context,
	tx *gorm.DB,
	requesterID uuid.UUID,
) (*Recommendation, error) {
	log := r.log.Function("PickRandomEligible")

	var recommendation Recommendation
	err := tx.WithContext(ctx).
		Where("submitter_id <> ? AND NOT consumed", requesterID).
		Order("random()").
		First(&recommendation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to pick random recommendation", err, "requesterID", requesterID)
	}

	return &recommendation, nil
}

// Consume is the sole consumption primitive: a conditional update that only
// matches while the row is still unconsumed. RowsAffected zero means a
// concurrent draw already took it.
func (r *recommendationRepository) Consume(
	ctx context.Context,
	tx *gorm.DB,
	recommendationID, requesterID uuid.UUID,
) (time.Time, error) {
	log := r.log.Function("Consume")

	now := time.Now().UTC()
	result := tx.WithContext(ctx).
		Model(&Recommendation{}).
		Where("id = ? AND NOT consumed", recommendationID).
		Updates(map[string]any{
			"consumed":    true,
			"consumed_by": requesterID,
			"consumed_at": now,
		})
	if result.Error != nil {
		return time.Time{}, log.Err(
			"failed to consume recommendation",
			result.Error,
			"recommendationID", recommendationID,
			"requesterID", requesterID,
		)
	}

	if result.RowsAffected == 0 {
		return time.Time{}, ErrConsumeConflict
	}

	return now, nil
}

// CreateSystemDraw records a catalog-fallback draw for history: the row is
// born consumed, attributed to the system sentinel submitter.
func (r *recommendationRepository) CreateSystemDraw(
	ctx context.Context,
	tx *gorm.DB,
	track TrackReference,
	requesterID uuid.UUID,
) (*Recommendation, error) {
	log := r.log.Function("CreateSystemDraw")

	now := time.Now().UTC()
	recommendation := &Recommendation{
		SubmitterID:    SystemSubmitterID,
		TrackID:        track.ID,
		Track:          datatypes.NewJSONType(track),
		Consumed:       true,
		ConsumedBy:     &requesterID,
		ConsumedAt:     &now,
		IsSystemOrigin: true,
	}

	if err := tx.WithContext(ctx).Create(recommendation).Error; err != nil {
		return nil, log.Err(
			"failed to record system recommendation",
			err,
			"requesterID", requesterID,
			"trackID", track.ID,
		)
	}

	return recommendation, nil
}

func (r *recommendationRepository) ListSubmittedBy(
	ctx context.Context,
	userID uuid.UUID,
) ([]Recommendation, error) {
	log := r.log.Function("ListSubmittedBy")

	var recommendations []Recommendation
	err := r.db.SQLWithContext(ctx).
		Where("submitter_id = ?", userID).
		Order("created_at DESC").
		Limit(HISTORY_PAGE_SIZE).
		Find(&recommendations).Error
	if err != nil {
		return nil, log.Err("failed to list submitted recommendations", err, "userID", userID)
	}

	return recommendations, nil
}

func (r *recommendationRepository) ListReceivedBy(
	ctx context.Context,
	userID uuid.UUID,
) ([]Recommendation, error) {
	log := r.log.Function("ListReceivedBy")

	var recommendations []Recommendation
	err := r.db.SQLWithContext(ctx).
		Preload("Submitter").
		Where("consumed_by = ?", userID).
		Order("consumed_at DESC").
		Limit(HISTORY_PAGE_SIZE).
		Find(&recommendations).Error
	if err != nil {
		return nil, log.Err("failed to list received recommendations", err, "userID", userID)
	}

	return recommendations, nil
}

func (r *recommendationRepository) PoolStats(
	ctx context.Context,
	userID uuid.UUID,
) (*PoolStats, error) {
	log := r.log.Function("PoolStats")

	stats := &PoolStats{}
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalInPool, r.statsQuery(ctx).Where("NOT consumed")},
		{&stats.TotalConsumed, r.statsQuery(ctx).Where("consumed")},
		{&stats.UserInPool, r.statsQuery(ctx).Where("submitter_id = ? AND NOT consumed", userID)},
		{&stats.UserConsumed, r.statsQuery(ctx).Where("consumed_by = ?", userID)},
		{&stats.SystemRecommendations, r.statsQuery(ctx).Where("is_system_origin")},
		{
			&stats.UserSystemRecommendations,
			r.statsQuery(ctx).Where("consumed_by = ? AND is_system_origin", userID),
		},
	}

	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			return nil, log.Err("failed to compute pool stats", err, "userID", userID)
		}
	}

	return stats, nil
}

func (r *recommendationRepository) statsQuery(ctx context.Context) *gorm.DB {
	return r.db.SQLWithContext(ctx).Model(&Recommendation{})
}
