package controllers

import (
	"museletter/internal/database"
	"museletter/internal/repositories"
	"museletter/internal/services"

	authController "museletter/internal/controllers/auth"
	recommendationController "museletter/internal/controllers/recommendation"
	userController "museletter/internal/controllers/users"
)

type Controllers struct {
	Auth           authController.AuthControllerInterface
	User           userController.UserControllerInterface
	Recommendation recommendationController.RecommendationControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:           authController.New(services.Token, repos.User, db),
		User:           userController.New(repos.User),
		Recommendation: recommendationController.New(repos, services.Transaction, services.Catalog, db),
	}
}
