package database

import (
	"context"
	"fmt"
	"time"

	"museletter/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index gives logical separation
// between cache categories without extra servers.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous caching.
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - authentication-adjacent temporary data.
	SESSION_CACHE_INDEX

	// USER_CACHE_INDEX (DB 2) - user profiles and the username->id mapping
	// used by draw attribution lookups.
	USER_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.ErrMsg("failed to initialize cache database: address or port is empty")
	}

	var cacheDB Cache

	var err error
	cacheDB.General, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    GENERAL_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.Session, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    SESSION_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create session valkey client", err)
	}

	cacheDB.User, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    USER_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create user valkey client", err)
	}

	s.Cache = cacheDB

	return nil
}

// FlushAllCaches wipes every cache database. Used by the seed command to
// guarantee a clean slate alongside the dropped tables.
func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")

	clients := map[string]valkey.Client{
		"general": s.Cache.General,
		"session": s.Cache.Session,
		"user":    s.Cache.User,
	}

	for name, client := range clients {
		if client == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Do(ctx, client.B().Flushdb().Build()).Error()
		cancel()
		if err != nil {
			return log.Err("failed to flush cache database", err, "cache", name)
		}
	}

	log.Info("All cache databases flushed")
	return nil
}
