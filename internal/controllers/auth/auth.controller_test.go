package authController

import (
	"context"
	"testing"

	"museletter/config"
	"museletter/internal/database"
	"museletter/internal/models"
	"museletter/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users   []*models.User
	updated []*models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.Must(uuid.NewV7())
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.updated = append(f.updated, user)
	return nil
}

func newAuthController(t *testing.T, userRepo *fakeUserRepo) AuthControllerInterface {
	t.Helper()

	tokenService, err := services.NewTokenService(config.Config{JWTSecret: "test-secret"})
	require.NoError(t, err)

	return New(tokenService, userRepo, database.DB{})
}

func existingUser(t *testing.T, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &models.User{
		BaseUUIDModel:  models.BaseUUIDModel{ID: uuid.Must(uuid.NewV7())},
		Username:       "ada",
		Email:          "ada@example.com",
		HashedPassword: string(hash),
	}
}

func TestSignup_CreatesUser(t *testing.T) {
	userRepo := &fakeUserRepo{}
	controller := newAuthController(t, userRepo)

	profile, err := controller.Signup(context.Background(), models.SignupRequest{
		Username: "grace",
		Email:    "grace@example.com",
		Password: "hopper",
	})

	require.NoError(t, err)
	assert.Equal(t, "grace", profile.Username)
	require.Len(t, userRepo.users, 1)

	// Passwords are stored hashed, never verbatim.
	stored := userRepo.users[0]
	assert.NotEqual(t, "hopper", stored.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("hopper")))
}

func TestSignup_RequiresAllFields(t *testing.T) {
	controller := newAuthController(t, &fakeUserRepo{})

	_, err := controller.Signup(context.Background(), models.SignupRequest{
		Username: "grace",
		Password: "hopper",
	})

	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	userRepo := &fakeUserRepo{users: []*models.User{existingUser(t, "password")}}
	controller := newAuthController(t, userRepo)

	_, err := controller.Signup(context.Background(), models.SignupRequest{
		Username: "ada2",
		Email:    "ada@example.com",
		Password: "password",
	})

	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.Len(t, userRepo.users, 1)
}

func TestLogin_IssuesToken(t *testing.T) {
	user := existingUser(t, "password")
	userRepo := &fakeUserRepo{users: []*models.User{user}}
	controller := newAuthController(t, userRepo)

	result, err := controller.Login(context.Background(), models.LoginRequest{
		Username: "ada",
		Password: "password",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ada", result.User.Username)

	// A successful login records the timestamp.
	require.Len(t, userRepo.updated, 1)
	assert.NotNil(t, userRepo.updated[0].LastLoginAt)
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	userRepo := &fakeUserRepo{users: []*models.User{existingUser(t, "password")}}
	controller := newAuthController(t, userRepo)

	_, err := controller.Login(context.Background(), models.LoginRequest{
		Username: "ada",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, userRepo.updated)
}

func TestLogin_RejectsUnknownUser(t *testing.T) {
	controller := newAuthController(t, &fakeUserRepo{})

	_, err := controller.Login(context.Background(), models.LoginRequest{
		Username: "nobody",
		Password: "password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
