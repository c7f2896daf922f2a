package repositories

import (
	"context"
	"time"

	"museletter/internal/database"
	. "museletter/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
)

const (
	USER_CACHE_EXPIRY             = 7 * 24 * time.Hour
	USER_CACHE_PREFIX             = "user:"
	USERNAME_MAPPING_CACHE_PREFIX = "username:"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if err := r.getCacheByID(ctx, id, &user); err == nil {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get user by id", err, "id", id)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	log := r.log.Function("GetByUsername")

	// The username cache only maps to a UUID; the profile itself lives under
	// the primary user cache so an update invalidates one entry.
	var userID string
	mappingKey := USERNAME_MAPPING_CACHE_PREFIX + username
	found, err := database.NewCacheBuilder(r.db.Cache.User, mappingKey).
		WithContext(ctx).
		Get(&userID)
	if err == nil && found {
		if id, parseErr := uuid.Parse(userID); parseErr == nil {
			var cached User
			if err := r.getCacheByID(ctx, id, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var user User
	if err := r.db.SQLWithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, log.Err("failed to get user by username", err, "username", username)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	if err := database.NewCacheBuilder(r.db.Cache.User, mappingKey).
		WithStruct(user.ID.String()).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache username mapping", "username", username, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	log := r.log.Function("GetByEmail")

	var user User
	if err := r.db.SQLWithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, log.Err("failed to get user by email", err, "email", email)
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "username", user.Username)
	}

	if err := r.addUserToCache(ctx, user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	if err := r.clearUserCache(ctx, user); err != nil {
		log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
	}

	return nil
}

func (r *userRepository) getCacheByID(ctx context.Context, userID uuid.UUID, user *User) error {
	cacheKey := USER_CACHE_PREFIX + userID.String()
	found, err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).WithContext(ctx).Get(user)
	if err != nil {
		return r.log.Function("getCacheByID").
			Err("failed to get user from cache", err, "userID", userID)
	}

	if !found {
		return r.log.Function("getCacheByID").
			ErrMsg("user not found in cache")
	}

	return nil
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	cacheKey := USER_CACHE_PREFIX + user.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("addUserToCache").
			Err("failed to add user to cache", err, "userID", user.ID)
	}
	return nil
}

func (r *userRepository) clearUserCache(ctx context.Context, user *User) error {
	log := r.log.Function("clearUserCache")

	userCacheKey := USER_CACHE_PREFIX + user.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, userCacheKey).WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to clear user cache", "userID", user.ID, "error", err)
	}

	mappingKey := USERNAME_MAPPING_CACHE_PREFIX + user.Username
	if err := database.NewCacheBuilder(r.db.Cache.User, mappingKey).WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to clear username mapping cache", "username", user.Username, "error", err)
	}

	return nil
}
