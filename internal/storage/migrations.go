package storage

import (
	"database/sql"
	"fmt"

	"github.com/martinsuchenak/assetboard/internal/log"
)

// migration upgrades the schema to version
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial schema",
		apply: func(tx *sql.Tx) error {
			_, err := tx.Exec(schemaSQL)
			return err
		},
	},
	{
		version: 2,
		name:    "asset type index",
		apply: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_assets_realm_type ON assets(realm, type)`)
			return err
		},
	},
}

// migrate applies every migration newer than the recorded schema version
func (ss *SQLiteStorage) migrate() error {
	_, err := ss.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	current, err := ss.SchemaVersion()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := ss.applyMigration(m); err != nil {
			return err
		}
		log.Debug("Applied schema migration", "version", m.version, "name", m.name)
	}
	return nil
}

func (ss *SQLiteStorage) applyMigration(m migration) error {
	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", m.version, err)
	}
	defer tx.Rollback()

	if err := m.apply(tx); err != nil {
		return fmt.Errorf("applying migration %d (%s): %w", m.version, m.name, err)
	}

	if _, err := tx.Exec(`INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
		return fmt.Errorf("setting migration version: %w", err)
	}

	return tx.Commit()
}

// SchemaVersion returns the highest applied migration, 0 for a fresh database
func (ss *SQLiteStorage) SchemaVersion() (int, error) {
	var version sql.NullInt64
	err := ss.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("checking migration version: %w", err)
	}
	return int(version.Int64), nil
}
