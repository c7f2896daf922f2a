package recommendationController

import (
	"context"
	"testing"
	"time"

	"museletter/config"
	"museletter/internal/database"
	"museletter/internal/models"
	"museletter/internal/repositories"
	"museletter/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRecommendationRepo struct {
	hasSubmitted bool
	eligible     []models.Recommendation

	// consumeConflicts is how many Consume calls lose their race before one
	// succeeds.
	consumeConflicts int

	created     []*models.Recommendation
	systemDraws []models.TrackReference
	consumed    []uuid.UUID
	stats       *models.PoolStats
}

func (f *fakeRecommendationRepo) Create(
	ctx context.Context,
	tx *gorm.DB,
	recommendation *models.Recommendation,
) error {
	f.created = append(f.created, recommendation)
	return nil
}

func (f *fakeRecommendationRepo) HasSubmitted(
	ctx context.Context,
	tx *gorm.DB,
	submitterID uuid.UUID,
	trackID string,
) (bool, error) {
	return f.hasSubmitted, nil
}

func (f *fakeRecommendationRepo) CountEligible(
	ctx context.Context,
	tx *gorm.DB,
	requesterID uuid.UUID,
) (int64, error) {
	return int64(len(f.eligible)), nil
}

func (f *fakeRecommendationRepo) PickRandomEligible(
	ctx context.Context,
	tx *gorm.DB,
	requesterID uuid.UUID,
) (*models.Recommendation, error) {
	if len(f.eligible) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	recommendation := f.eligible[0]
	return &recommendation, nil
}

func (f *fakeRecommendationRepo) Consume(
	ctx context.Context,
	tx *gorm.DB,
	recommendationID, requesterID uuid.UUID,
) (time.Time, error) {
	if f.consumeConflicts > 0 {
		f.consumeConflicts--
		return time.Time{}, repositories.ErrConsumeConflict
	}
	f.consumed = append(f.consumed, recommendationID)
	return time.Now().UTC(), nil
}

func (f *fakeRecommendationRepo) CreateSystemDraw(
	ctx context.Context,
	tx *gorm.DB,
	track models.TrackReference,
	requesterID uuid.UUID,
) (*models.Recommendation, error) {
	f.systemDraws = append(f.systemDraws, track)
	return &models.Recommendation{
		SubmitterID:    models.SystemSubmitterID,
		TrackID:        track.ID,
		Track:          datatypes.NewJSONType(track),
		Consumed:       true,
		IsSystemOrigin: true,
	}, nil
}

func (f *fakeRecommendationRepo) ListSubmittedBy(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.Recommendation, error) {
	return f.eligible, nil
}

func (f *fakeRecommendationRepo) ListReceivedBy(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.Recommendation, error) {
	return nil, nil
}

func (f *fakeRecommendationRepo) PoolStats(
	ctx context.Context,
	userID uuid.UUID,
) (*models.PoolStats, error) {
	return f.stats, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

type testFixture struct {
	controller RecommendationControllerInterface
	recRepo    *fakeRecommendationRepo
	userRepo   *fakeUserRepo
	mock       sqlmock.Sqlmock
}

func newFixture(t *testing.T, recRepo *fakeRecommendationRepo) *testFixture {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	db := database.DB{SQL: gormDB}

	catalog, err := services.NewCatalogService(config.Config{})
	require.NoError(t, err)

	userRepo := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}

	controller := New(
		repositories.Repository{User: userRepo, Recommendation: recRepo},
		services.NewTransactionService(db),
		catalog,
		db,
	)

	return &testFixture{
		controller: controller,
		recRepo:    recRepo,
		userRepo:   userRepo,
		mock:       mock,
	}
}

func testTrack() models.TrackReference {
	return models.TrackReference{
		ID:      "4u7EnebtmKWzUH433cf5Qv",
		Name:    "Bohemian Rhapsody",
		Artists: []models.TrackArtist{{Name: "Queen"}},
	}
}

func eligibleRecommendation(submitterID uuid.UUID) models.Recommendation {
	return models.Recommendation{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		SubmitterID:   submitterID,
		TrackID:       "4u7EnebtmKWzUH433cf5Qv",
		Track:         datatypes.NewJSONType(testTrack()),
	}
}

func TestSubmit_AddsToPool(t *testing.T) {
	fixture := newFixture(t, &fakeRecommendationRepo{})
	submitterID := uuid.New()

	recommendation, err := fixture.controller.Submit(context.Background(), submitterID, testTrack())

	require.NoError(t, err)
	require.Len(t, fixture.recRepo.created, 1)
	assert.Equal(t, submitterID, recommendation.SubmitterID)
	assert.Equal(t, "4u7EnebtmKWzUH433cf5Qv", recommendation.TrackID)
	assert.False(t, recommendation.Consumed)
	assert.False(t, recommendation.IsSystemOrigin)
}

func TestSubmit_RejectsInvalidTrack(t *testing.T) {
	fixture := newFixture(t, &fakeRecommendationRepo{})

	_, err := fixture.controller.Submit(
		context.Background(),
		uuid.New(),
		models.TrackReference{Name: "no id"},
	)

	assert.ErrorIs(t, err, models.ErrInvalidTrack)
	assert.Empty(t, fixture.recRepo.created)
}

func TestSubmit_RejectsDuplicate(t *testing.T) {
	fixture := newFixture(t, &fakeRecommendationRepo{hasSubmitted: true})

	_, err := fixture.controller.Submit(context.Background(), uuid.New(), testTrack())

	assert.ErrorIs(t, err, repositories.ErrDuplicateSubmission)
	assert.Empty(t, fixture.recRepo.created)
}

func TestDraw_EmptyPoolFallsBackToCatalog(t *testing.T) {
	fixture := newFixture(t, &fakeRecommendationRepo{})
	fixture.mock.ExpectBegin()
	fixture.mock.ExpectCommit()

	result, err := fixture.controller.Draw(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.True(t, result.IsSystemOrigin)
	assert.Equal(t, models.SystemRecommenderName, result.RecommendedBy)
	assert.Nil(t, result.RecommenderCountry)
	require.Len(t, fixture.recRepo.systemDraws, 1)
	assert.Equal(t, fixture.recRepo.systemDraws[0].ID, result.Track.ID)
	assert.NoError(t, fixture.mock.ExpectationsWereMet())
}

func TestDraw_ConsumesFromPoolWithAttribution(t *testing.T) {
	submitterID := uuid.New()
	recommendation := eligibleRecommendation(submitterID)
	fixture := newFixture(t, &fakeRecommendationRepo{
		eligible: []models.Recommendation{recommendation},
	})
	fixture.userRepo.users[submitterID] = &models.User{
		Username: "ada",
		Country:  "United Kingdom",
	}

	fixture.mock.ExpectBegin()
	fixture.mock.ExpectCommit()

	result, err := fixture.controller.Draw(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.False(t, result.IsSystemOrigin)
	assert.Equal(t, "Bohemian Rhapsody", result.Track.Name)
	assert.Equal(t, "ada", result.RecommendedBy)
	require.NotNil(t, result.RecommenderCountry)
	assert.Equal(t, "United Kingdom", *result.RecommenderCountry)
	assert.Equal(t, []uuid.UUID{recommendation.ID}, fixture.recRepo.consumed)
	assert.Empty(t, fixture.recRepo.systemDraws)
	assert.NoError(t, fixture.mock.ExpectationsWereMet())
}

func TestDraw_AnonymousAttributionWhenSubmitterMissing(t *testing.T) {
	recommendation := eligibleRecommendation(uuid.New())
	fixture := newFixture(t, &fakeRecommendationRepo{
		eligible: []models.Recommendation{recommendation},
	})

	fixture.mock.ExpectBegin()
	fixture.mock.ExpectCommit()

	result, err := fixture.controller.Draw(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, "Anonymous", result.RecommendedBy)
	require.NotNil(t, result.RecommenderCountry)
	assert.Equal(t, "Unknown", *result.RecommenderCountry)
}

func TestDraw_RetriesAfterConsumeConflict(t *testing.T) {
	recommendation := eligibleRecommendation(uuid.New())
	fixture := newFixture(t, &fakeRecommendationRepo{
		eligible:         []models.Recommendation{recommendation},
		consumeConflicts: 2,
	})

	// Two losing attempts roll back, the third commits.
	for range 2 {
		fixture.mock.ExpectBegin()
		fixture.mock.ExpectRollback()
	}
	fixture.mock.ExpectBegin()
	fixture.mock.ExpectCommit()

	result, err := fixture.controller.Draw(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.False(t, result.IsSystemOrigin)
	assert.Equal(t, []uuid.UUID{recommendation.ID}, fixture.recRepo.consumed)
	assert.NoError(t, fixture.mock.ExpectationsWereMet())
}

func TestDraw_GivesUpAfterMaxAttempts(t *testing.T) {
	recommendation := eligibleRecommendation(uuid.New())
	fixture := newFixture(t, &fakeRecommendationRepo{
		eligible:         []models.Recommendation{recommendation},
		consumeConflicts: maxDrawAttempts,
	})

	for range maxDrawAttempts {
		fixture.mock.ExpectBegin()
		fixture.mock.ExpectRollback()
	}

	_, err := fixture.controller.Draw(context.Background(), uuid.New())

	assert.Error(t, err)
	assert.Empty(t, fixture.recRepo.consumed)
	assert.NoError(t, fixture.mock.ExpectationsWereMet())
}
