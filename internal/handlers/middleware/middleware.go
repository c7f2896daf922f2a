package middleware

import (
	"museletter/config"
	"museletter/internal/database"
	"museletter/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	Config   config.Config
	log      logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:       db,
		userRepo: repos.User,
		Config:   config,
		log:      log,
	}
}
