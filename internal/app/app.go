package app

import (
	"context"

	"museletter/config"
	"museletter/internal/controllers"
	"museletter/internal/database"
	"museletter/internal/handlers/middleware"
	"museletter/internal/jobs"
	"museletter/internal/repositories"
	"museletter/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Config     config.Config

	// Services
	TokenService       *services.TokenService
	SpotifyService     *services.SpotifyService
	CatalogService     *services.CatalogService
	TransactionService *services.TransactionService
	SchedulerService   *services.SchedulerService

	// Repositories
	Repos repositories.Repository

	// Controllers
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	service, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to initialize services", err)
	}

	repos := repositories.New(db)
	middleware := middleware.New(db, config, repos)
	controllers := controllers.New(service, repos, db)

	// Prime the search token so the first query does not pay the fetch.
	if service.Spotify.IsConfigured() {
		if err := service.Spotify.RefreshAppToken(context.Background()); err != nil {
			log.Warn("failed to prime spotify application token", "error", err)
		}
	}

	if config.SchedulerEnabled {
		spotifyTokenJob := jobs.NewSpotifyTokenJob(service.Spotify, services.Hourly)
		if err := service.Scheduler.AddJob(spotifyTokenJob); err != nil {
			return &App{}, log.Err("failed to register spotify token job", err)
		}
		log.Info("Registered spotify token job with scheduler")

		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:           db,
		Config:             config,
		Middleware:         middleware,
		TokenService:       service.Token,
		SpotifyService:     service.Spotify,
		CatalogService:     service.Catalog,
		TransactionService: service.Transaction,
		SchedulerService:   service.Scheduler,
		Repos:              repos,
		Controllers:        controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.TokenService,
		a.SpotifyService,
		a.CatalogService,
		a.TransactionService,
		a.SchedulerService,
		a.Controllers.Auth,
		a.Controllers.User,
		a.Controllers.Recommendation,
		a.Repos.User,
		a.Repos.Recommendation,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.SchedulerService != nil {
		if closeErr := a.SchedulerService.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
