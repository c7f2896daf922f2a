package services

import (
	"testing"
	"time"

	"museletter/config"
	"museletter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *models.User {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	return &models.User{
		BaseUUIDModel: models.BaseUUIDModel{ID: id},
		Username:      "ada",
		Email:         "ada@example.com",
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService(config.Config{})

	assert.Error(t, err)
}

func TestNewTokenService_DefaultsExpiry(t *testing.T) {
	service, err := NewTokenService(config.Config{JWTSecret: "test-secret"})

	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, service.Expiry())
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	service, err := NewTokenService(config.Config{
		JWTSecret:      "test-secret",
		JWTExpiryHours: 1,
	})
	require.NoError(t, err)

	user := newTestUser(t)

	token, err := service.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestTokenService_Validate_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenService(config.Config{JWTSecret: "secret-one"})
	require.NoError(t, err)
	validator, err := NewTokenService(config.Config{JWTSecret: "secret-two"})
	require.NoError(t, err)

	token, err := issuer.Issue(newTestUser(t))
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_Validate_RejectsGarbage(t *testing.T) {
	service, err := NewTokenService(config.Config{JWTSecret: "test-secret"})
	require.NoError(t, err)

	_, err = service.Validate("not-a-token")
	assert.Error(t, err)
}
