package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Lorandel/Warehouse-Ramps/internal/events"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// SQLiteStore implements SQLite-based local persistence.
type SQLiteStore struct {
	db     *sql.DB
	logger *events.Logger
}

// NewSQLiteStore creates a SQLite-backed store.
func NewSQLiteStore(dbPath string, logger *events.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		logger: logger.WithField("component", "sqlite_store"),
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return store, nil
}

// initialize creates tables and indexes.
func (s *SQLiteStore) initialize() error {
	schema := `
    CREATE TABLE IF NOT EXISTS pair_records (
        seq INTEGER PRIMARY KEY,
        truck TEXT NOT NULL,
        trailer TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS meta (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );

    INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?);
    `

	if _, err := s.db.Exec(schema, fmt.Sprint(CurrentSchemaVersion)); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Save replaces the stored record list inside a single transaction.
func (s *SQLiteStore) Save(records []models.PairRecord, updated time.Time) error {
	s.logger.WithFields(map[string]interface{}{
		"records": len(records),
		"updated": updated.UTC().Format(time.RFC3339),
	}).Debug("Saving records to SQLite")

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM pair_records"); err != nil {
		return fmt.Errorf("delete old records: %w", err)
	}

	stmt, err := tx.Prepare(`
        INSERT INTO pair_records (seq, truck, trailer)
        VALUES (?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Sequence, rec.Truck, rec.Trailer); err != nil {
			return fmt.Errorf("insert record %d: %w", rec.Sequence, err)
		}
	}

	_, err = tx.Exec(`
        INSERT INTO meta (key, value) VALUES ('last_updated', ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value
    `, updated.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert timestamp: %w", err)
	}

	return tx.Commit()
}

// Load retrieves the stored record list ordered by sequence.
func (s *SQLiteStore) Load() ([]models.PairRecord, time.Time, error) {
	var raw string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'last_updated'").Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, models.ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query timestamp: %w", err)
	}

	updated, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// Unparsable stored value fails open to absent.
		s.logger.WithError(err).Warn("Stored timestamp unparsable, treating state as absent")
		return nil, time.Time{}, models.ErrNotFound
	}

	rows, err := s.db.Query("SELECT seq, truck, trailer FROM pair_records ORDER BY seq")
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []models.PairRecord
	for rows.Next() {
		var rec models.PairRecord
		if err := rows.Scan(&rec.Sequence, &rec.Truck, &rec.Trailer); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate records: %w", err)
	}

	return records, updated, nil
}

// Clear removes the record list and timestamp, keeping the device ID.
func (s *SQLiteStore) Clear() error {
	s.logger.Info("Clearing stored records")

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM pair_records"); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM meta WHERE key = 'last_updated'"); err != nil {
		return fmt.Errorf("delete timestamp: %w", err)
	}

	return tx.Commit()
}

// DeviceID returns the persisted device identifier, generating it once.
func (s *SQLiteStore) DeviceID() (string, error) {
	var id string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'device_id'").Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("query device ID: %w", err)
	}

	id = uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO meta (key, value) VALUES ('device_id', ?)", id); err != nil {
		return "", fmt.Errorf("persist device ID: %w", err)
	}

	s.logger.WithField("device_id", id).Info("Generated device ID")
	return id, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
