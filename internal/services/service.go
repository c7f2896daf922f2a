package services

import (
	"museletter/config"
	"museletter/internal/database"
)

type Service struct {
	Token       *TokenService
	Spotify     *SpotifyService
	Catalog     *CatalogService
	Transaction *TransactionService
	Scheduler   *SchedulerService
}

func New(db database.DB, config config.Config) (Service, error) {
	tokenService, err := NewTokenService(config)
	if err != nil {
		return Service{}, err
	}

	catalogService, err := NewCatalogService(config)
	if err != nil {
		return Service{}, err
	}

	spotifyService := NewSpotifyService(config)
	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()

	return Service{
		Token:       tokenService,
		Spotify:     spotifyService,
		Catalog:     catalogService,
		Transaction: transactionService,
		Scheduler:   schedulerService,
	}, nil
}
