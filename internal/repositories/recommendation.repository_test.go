package repositories

import (
	"context"
	"regexp"
	"testing"

	"museletter/internal/database"
	. "museletter/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock
}

func newMockRepo(t *testing.T) (RecommendationRepository, *gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	gormDB, mock := setupMockDB(t)
	repo := NewRecommendationRepository(database.DB{SQL: gormDB})
	return repo, gormDB, mock
}

func TestCountEligible_ExcludesRequesterAndConsumed(t *testing.T) {
	repo, gormDB, mock := newMockRepo(t)
	requesterID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`submitter_id <> $1 AND NOT consumed`)).
		WithArgs(requesterID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountEligible(context.Background(), gormDB, requesterID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickRandomEligible_QueriesWithExclusionPredicate(t *testing.T) {
	repo, gormDB, mock := newMockRepo(t)
	requesterID := uuid.New()
	rowID := uuid.New()
	submitterID := uuid.New()

	rows := sqlmock.NewRows(
		[]string{"id", "submitter_id", "track_id", "track", "consumed", "is_system_origin"},
	).AddRow(
		rowID.String(),
		submitterID.String(),
		"track-1",
		[]byte(`{"id":"track-1","name":"Song"}`),
		false,
		false,
	)

	mock.ExpectQuery(
		regexp.QuoteMeta(`submitter_id <> $1 AND NOT consumed ORDER BY random()`),
	).WillReturnRows(rows)

	recommendation, err := repo.PickRandomEligible(context.Background(), gormDB, requesterID)

	require.NoError(t, err)
	assert.Equal(t, rowID, recommendation.ID)
	assert.Equal(t, submitterID, recommendation.SubmitterID)
	assert.Equal(t, "Song", recommendation.TrackRef().Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickRandomEligible_NoRows(t *testing.T) {
	repo, gormDB, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`submitter_id <> $1 AND NOT consumed`)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "submitter_id", "track_id", "track", "consumed", "is_system_origin"},
		))

	_, err := repo.PickRandomEligible(context.Background(), gormDB, uuid.New())

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsume_SingleWinner(t *testing.T) {
	repo, gormDB, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE "recommendations" SET .* WHERE id = \$\d+ AND NOT consumed`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	consumedAt, err := repo.Consume(context.Background(), gormDB, uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.False(t, consumedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsume_LostRace(t *testing.T) {
	repo, gormDB, mock := newMockRepo(t)

	// Zero rows affected means a concurrent draw already took the row.
	mock.ExpectExec(`UPDATE "recommendations" SET .* WHERE id = \$\d+ AND NOT consumed`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Consume(context.Background(), gormDB, uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrConsumeConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateKeyMapsToDomainError(t *testing.T) {
	repo, gormDB, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "recommendations"`)).
		WillReturnError(gorm.ErrDuplicatedKey)

	err := repo.Create(context.Background(), gormDB, &Recommendation{
		SubmitterID: uuid.New(),
		TrackID:     "track-1",
	})

	assert.ErrorIs(t, err, ErrDuplicateSubmission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasSubmitted_ChecksFullHistory(t *testing.T) {
	repo, gormDB, mock := newMockRepo(t)
	submitterID := uuid.New()

	// No consumed filter: a track that already cycled through still counts.
	mock.ExpectQuery(
		regexp.QuoteMeta(`submitter_id = $1 AND track_id = $2 AND NOT is_system_origin`),
	).
		WithArgs(submitterID, "track-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.HasSubmitted(context.Background(), gormDB, submitterID, "track-1")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSystemDraw_RowIsBornConsumed(t *testing.T) {
	repo, gormDB, mock := newMockRepo(t)
	requesterID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "recommendations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))

	recommendation, err := repo.CreateSystemDraw(
		context.Background(),
		gormDB,
		TrackReference{ID: "track-1", Name: "Song"},
		requesterID,
	)

	require.NoError(t, err)
	assert.Equal(t, SystemSubmitterID, recommendation.SubmitterID)
	assert.True(t, recommendation.Consumed)
	assert.True(t, recommendation.IsSystemOrigin)
	require.NotNil(t, recommendation.ConsumedBy)
	assert.Equal(t, requesterID, *recommendation.ConsumedBy)
	assert.NotNil(t, recommendation.ConsumedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
