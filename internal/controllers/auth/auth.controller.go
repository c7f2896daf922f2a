package authController

import (
	"context"
	"errors"
	"time"

	"museletter/internal/database"
	"museletter/internal/models"
	"museletter/internal/repositories"
	"museletter/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthController handles signup and login business logic
type AuthController struct {
	tokenService *services.TokenService
	userRepo     repositories.UserRepository
	db           database.DB
	log          logger.Logger
}

// AuthControllerInterface defines the contract for auth business logic
type AuthControllerInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.UserProfile, error)
	Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error)
}

// LoginResult carries the session token plus the authenticated profile.
type LoginResult struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

func New(
	tokenService *services.TokenService,
	userRepo repositories.UserRepository,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		tokenService: tokenService,
		userRepo:     userRepo,
		db:           db,
		log:          logger.New("authController"),
	}
}

// Signup registers a new account with a bcrypt-hashed password.
func (c *AuthController) Signup(
	ctx context.Context,
	req models.SignupRequest,
) (*models.UserProfile, error) {
	log := c.log.Function("Signup")

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	_, err := c.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		log.Info("signup rejected, email already registered", "email", req.Email)
		return nil, ErrEmailInUse
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.Err("failed to check existing email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hash),
	}

	if err := c.userRepo.Create(ctx, user); err != nil {
		// The unique constraints close the lookup race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Info("signup rejected by unique constraint", "email", req.Email)
			return nil, ErrEmailInUse
		}
		return nil, log.Err("failed to create user", err, "username", req.Username)
	}

	log.Info("user created", "userID", user.ID, "username", user.Username)

	profile := user.ToProfile()
	return &profile, nil
}

// Login verifies credentials and issues a session token.
func (c *AuthController) Login(
	ctx context.Context,
	req models.LoginRequest,
) (*LoginResult, error) {
	log := c.log.Function("Login")

	if req.Username == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := c.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, log.Err("failed to look up user", err, "username", req.Username)
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.HashedPassword),
		[]byte(req.Password),
	); err != nil {
		log.Info("login rejected, password mismatch", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	token, err := c.tokenService.Issue(user)
	if err != nil {
		return nil, log.Err("failed to issue session token", err, "userID", user.ID)
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := c.userRepo.Update(ctx, user); err != nil {
		// Login still succeeds when the timestamp write fails.
		log.Warn("failed to record last login", "userID", user.ID, "error", err)
	}

	log.Info("user logged in", "userID", user.ID, "username", user.Username)

	return &LoginResult{
		Token: token,
		User:  user.ToProfile(),
	}, nil
}
