package database

import (
	"fmt"

	applog "github.com/yukikurage/standup-api/internal/logger"
	"github.com/yukikurage/standup-api/internal/models"
	"gorm.io/gorm"
)

type indexSpec struct {
	table   string
	name    string
	columns string
	unique  bool
	where   string
	partial bool
}

var indexes = []indexSpec{
	// Collaborator lookups by user (the primary key leads with board_id)
	{table: "collaborators", name: "idx_collaborators_user_id", columns: "user_id"},

	// Active invitation lookups
	{table: "invitations", name: "idx_invitations_board_status", columns: "board_id, status, expires_at"},

	// At most one pending invitation per board
	{
		table:   "invitations",
		name:    "uniq_invitations_board_pending",
		columns: "board_id",
		unique:  true,
		where:   "status = 'pending'",
		partial: true,
	},
}

// AddIndexes adds indexes that cannot be expressed with struct tags.
// Partial indexes are skipped on dialects that do not support them.
func AddIndexes(db *gorm.DB) error {
	supportsPartial := db.Dialector.Name() != "mysql"

	for _, idx := range indexes {
		if idx.partial && !supportsPartial {
			applog.Warn().Str("index", idx.name).Msg("partial indexes unsupported, skipping")
			continue
		}

		if db.Migrator().HasIndex(idx.table, idx.name) {
			applog.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		stmt := "CREATE INDEX"
		if idx.unique {
			stmt = "CREATE UNIQUE INDEX"
		}
		sql := fmt.Sprintf("%s %s ON %s (%s)", stmt, idx.name, idx.table, idx.columns)
		if idx.where != "" {
			sql += " WHERE " + idx.where
		}

		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		applog.Info().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	applog.Info().Msg("running database migrations")
	err := db.AutoMigrate(
		&models.Board{},
		&models.Collaborator{},
		&models.Invitation{},
		&models.Standup{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	applog.Info().Msg("database migrations completed")
	return nil
}
