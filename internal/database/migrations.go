package database

import (
	"museletter/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Recommendation{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates indexes GORM tags cannot express. The partial unique
// index is what makes the duplicate-submission guarantee exact under
// concurrent submits: the application pre-check only narrows the window, the
// constraint closes it. System rows are exempt because they all share the
// sentinel submitter.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_recommendations_submitter_track
		 ON recommendations(submitter_id, track_id) WHERE NOT is_system_origin`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_eligible
		 ON recommendations(submitter_id) WHERE NOT consumed`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_consumed_by_at
		 ON recommendations(consumed_by, consumed_at DESC)`,
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			return log.Err("Failed to create index", err, "sql", indexSQL)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
