package services

import (
	"time"

	"museletter/config"
	"museletter/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and validates signed session tokens
type TokenService struct {
	config config.Config
	log    logger.Logger
	secret []byte
	expiry time.Duration
}

type SessionClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewTokenService(cfg config.Config) (*TokenService, error) {
	log := logger.New("TokenService")

	if cfg.JWTSecret == "" {
		return nil, log.ErrMsg("token signing secret required but not provided")
	}

	expiryHours := cfg.JWTExpiryHours
	if expiryHours <= 0 {
		expiryHours = 24
	}

	return &TokenService{
		config: cfg,
		log:    log,
		secret: []byte(cfg.JWTSecret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}, nil
}

// Issue creates a signed session token for the given user
func (s *TokenService) Issue(user *models.User) (string, error) {
	log := s.log.Function("Issue")

	now := time.Now()
	claims := SessionClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign session token", err, "userID", user.ID)
	}

	return signed, nil
}

// Validate parses a session token and returns the user ID it was issued for
func (s *TokenService) Validate(tokenString string) (uuid.UUID, error) {
	log := s.log.Function("Validate")

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
	)
	if err != nil {
		return uuid.Nil, log.Err("failed to parse session token", err)
	}

	if !token.Valid {
		return uuid.Nil, log.ErrMsg("session token is not valid")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, log.Err("session token carries an invalid user ID", err)
	}

	return userID, nil
}

// Expiry returns the configured session token lifetime
func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}
