package repositories

import (
	"museletter/internal/database"
)

type Repository struct {
	User           UserRepository
	Recommendation RecommendationRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:           NewUserRepository(db),
		Recommendation: NewRecommendationRepository(db),
	}
}
