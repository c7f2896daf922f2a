package config

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() Config {
	return Config{
		Environment: "test",
		ServerPort:  8080,
		JWTSecret:   "secret",
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("configTest")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{
			name:    "missing server port",
			mutate:  func(c *Config) { c.ServerPort = 0 },
			wantErr: true,
		},
		{
			name:    "negative server port",
			mutate:  func(c *Config) { c.ServerPort = -1 },
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: true,
		},
		{
			name: "spotify client id without secret",
			mutate: func(c *Config) {
				c.SpotifyClientID = "client-id"
			},
			wantErr: true,
		},
		{
			name: "spotify secret without client id",
			mutate: func(c *Config) {
				c.SpotifyClientSecret = "client-secret"
			},
			wantErr: true,
		},
		{
			name: "spotify fully configured",
			mutate: func(c *Config) {
				c.SpotifyClientID = "client-id"
				c.SpotifyClientSecret = "client-secret"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validTestConfig()
			tt.mutate(&config)

			err := validateConfig(&config, log)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConfig_DefaultsJWTExpiry(t *testing.T) {
	log := logger.New("configTest")

	config := validTestConfig()
	require.NoError(t, validateConfig(&config, log))

	assert.Equal(t, 24, config.JWTExpiryHours)
}

func TestValidateConfig_KeepsExplicitJWTExpiry(t *testing.T) {
	log := logger.New("configTest")

	config := validTestConfig()
	config.JWTExpiryHours = 72
	require.NoError(t, validateConfig(&config, log))

	assert.Equal(t, 72, config.JWTExpiryHours)
}
