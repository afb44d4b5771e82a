package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/martinsuchenak/assetboard/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStorage implements Storage with SQLite backend
type SQLiteStorage struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLite-based storage
func NewSQLiteStorage(dataDir string) (*SQLiteStorage, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "assetboard.db")

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ss := &SQLiteStorage{
		db:   db,
		path: dbPath,
	}

	if err := ss.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return ss, nil
}

// Close closes the database connection
func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}

// Path returns the database file path
func (ss *SQLiteStorage) Path() string {
	return ss.path
}

// ListAssets returns stored assets ordered by creation, optionally filtered
func (ss *SQLiteStorage) ListAssets(filter *model.AssetFilter) ([]model.Asset, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	query := `SELECT id, name, type, realm, created_at, updated_at FROM assets`
	var where []string
	var args []any
	if filter != nil {
		if filter.Realm != "" {
			where = append(where, "realm = ?")
			args = append(args, filter.Realm)
		}
		if filter.Type != "" {
			where = append(where, "type = ?")
			args = append(args, filter.Type)
		}
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	// Insertion order keeps first-seen type order stable across runs
	query += " ORDER BY rowid"

	rows, err := ss.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	assets := make([]model.Asset, 0)
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Realm, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}

	return assets, nil
}

// GetAsset retrieves an asset by ID or, failing that, by name
func (ss *SQLiteStorage) GetAsset(id string) (*model.Asset, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	asset, err := ss.queryAsset(`
		SELECT id, name, type, realm, created_at, updated_at
		FROM assets WHERE id = ? LIMIT 1
	`, id)
	if err == nil || !errors.Is(err, ErrAssetNotFound) {
		return asset, err
	}

	return ss.queryAsset(`
		SELECT id, name, type, realm, created_at, updated_at
		FROM assets WHERE LOWER(name) = LOWER(?)
		ORDER BY created_at LIMIT 1
	`, id)
}

func (ss *SQLiteStorage) queryAsset(query string, arg string) (*model.Asset, error) {
	var a model.Asset
	err := ss.db.QueryRow(query, arg).Scan(&a.ID, &a.Name, &a.Type, &a.Realm, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying asset: %w", err)
	}
	return &a, nil
}

// CreateAsset adds a new asset
func (ss *SQLiteStorage) CreateAsset(asset *model.Asset) error {
	if asset.ID == "" {
		return ErrInvalidID
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	_, err := ss.db.Exec(`
		INSERT INTO assets (id, name, type, realm, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, asset.ID, asset.Name, asset.Type, asset.Realm, asset.CreatedAt, asset.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAssetExists
		}
		return fmt.Errorf("inserting asset: %w", err)
	}

	return nil
}

// UpdateAsset updates an existing asset
func (ss *SQLiteStorage) UpdateAsset(asset *model.Asset) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	asset.UpdatedAt = time.Now().UTC()

	result, err := ss.db.Exec(`
		UPDATE assets SET name = ?, type = ?, realm = ?, updated_at = ?
		WHERE id = ?
	`, asset.Name, asset.Type, asset.Realm, asset.UpdatedAt, asset.ID)
	if err != nil {
		return fmt.Errorf("updating asset: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAssetNotFound
	}

	return ss.db.QueryRow(`SELECT created_at FROM assets WHERE id = ?`, asset.ID).Scan(&asset.CreatedAt)
}

// DeleteAsset removes an asset
func (ss *SQLiteStorage) DeleteAsset(id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	result, err := ss.db.Exec("DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAssetNotFound
	}

	return nil
}

// LoadFilter returns the persisted filter configuration
func (ss *SQLiteStorage) LoadFilter() (*model.FilterConfig, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	var raw string
	err := ss.db.QueryRow(`SELECT config FROM filter_settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFilterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying filter: %w", err)
	}

	return decodeFilter(raw)
}

// SaveFilter replaces the persisted filter configuration
func (ss *SQLiteStorage) SaveFilter(cfg model.FilterConfig) error {
	raw, err := encodeFilter(cfg)
	if err != nil {
		return err
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	_, err = ss.db.Exec(`
		INSERT INTO filter_settings (id, config, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at
	`, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving filter: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
