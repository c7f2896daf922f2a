package config

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	JWTExpiryHours       int    `mapstructure:"JWT_EXPIRY_HOURS"`
	SpotifyClientID      string `mapstructure:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret  string `mapstructure:"SPOTIFY_CLIENT_SECRET"`
	SpotifyRedirectURI   string `mapstructure:"SPOTIFY_REDIRECT_URI"`
	SystemCatalogPath    string `mapstructure:"SYSTEM_CATALOG_PATH"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
}

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS",
		"JWT_SECRET", "JWT_EXPIRY_HOURS",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_REDIRECT_URI",
		"SYSTEM_CATALOG_PATH", "SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(&config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config *Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTSecret == "" {
		return log.ErrMsg("Fatal error: JWT_SECRET is required")
	}

	if config.JWTExpiryHours <= 0 {
		config.JWTExpiryHours = 24
	}

	// Spotify integration is optional, but partial credentials are a
	// deployment mistake worth failing fast on.
	if config.SpotifyClientID != "" && config.SpotifyClientSecret == "" {
		return log.ErrMsg(
			"Fatal error: SPOTIFY_CLIENT_SECRET required when SPOTIFY_CLIENT_ID is set",
		)
	}
	if config.SpotifyClientID == "" && config.SpotifyClientSecret != "" {
		return log.ErrMsg(
			"Fatal error: SPOTIFY_CLIENT_ID required when SPOTIFY_CLIENT_SECRET is set",
		)
	}

	ConfigInstance = *config
	return nil
}
