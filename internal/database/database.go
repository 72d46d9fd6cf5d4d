package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection used as the persistence collaborator for
// both booking subsystems.
type DB struct {
	*sql.DB
	log zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// busy_timeout keeps concurrent writers queueing instead of failing
	// immediately; foreign_keys is off by default in SQLite.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "database").Logger()
	}
	log.Info().Str("path", path).Msg("database initialized")

	return &DB{DB: db, log: log}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS providers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            service_category TEXT NOT NULL,
            phone TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS owners (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            phone TEXT NOT NULL,
            email TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS properties (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            location TEXT,
            nightly_price INTEGER NOT NULL,
            owner_id INTEGER NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS service_bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            customer_id INTEGER NOT NULL,
            customer_name TEXT NOT NULL,
            customer_phone TEXT NOT NULL,
            provider_id INTEGER NOT NULL,
            date TEXT NOT NULL,
            address TEXT NOT NULL,
            lat REAL,
            lng REAL,
            status TEXT NOT NULL DEFAULT 'request',
            paid BOOLEAN NOT NULL DEFAULT 0,
            show_customer_phone BOOLEAN NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            version INTEGER NOT NULL DEFAULT 1
        )`,
		// The availability guard for single-date service bookings: at most
		// one active booking per (provider, date). Rows leave the index as
		// soon as the status leaves the blocking set.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_service_bookings_slot
            ON service_bookings(provider_id, date)
            WHERE status NOT IN ('rejected', 'completed')`,
		`CREATE TABLE IF NOT EXISTS rental_bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            property_id INTEGER NOT NULL,
            renter_id INTEGER,
            owner_id INTEGER NOT NULL,
            full_name TEXT NOT NULL,
            phone TEXT NOT NULL,
            email TEXT,
            guests INTEGER NOT NULL DEFAULT 1,
            notes TEXT,
            start_date TEXT NOT NULL,
            end_date TEXT NOT NULL,
            id_doc_url TEXT NOT NULL DEFAULT '',
            id_doc_public_id TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending',
            payment_status TEXT NOT NULL DEFAULT 'unpaid',
            total_days INTEGER NOT NULL,
            total_price INTEGER NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            version INTEGER NOT NULL DEFAULT 1
        )`,
		`CREATE TABLE IF NOT EXISTS rental_booking_history (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            booking_id INTEGER NOT NULL,
            status TEXT NOT NULL,
            changed_by TEXT NOT NULL,
            note TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS unavailable_dates (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            provider_id INTEGER NOT NULL,
            date TEXT NOT NULL,
            source TEXT NOT NULL DEFAULT 'manual',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(provider_id, date)
        )`,
		`CREATE TABLE IF NOT EXISTS cleanup_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            public_id TEXT NOT NULL,
            booking_id INTEGER NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,

		`CREATE INDEX IF NOT EXISTS idx_service_bookings_provider ON service_bookings(provider_id)`,
		`CREATE INDEX IF NOT EXISTS idx_service_bookings_customer ON service_bookings(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_service_bookings_status ON service_bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_rental_bookings_property ON rental_bookings(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rental_bookings_owner ON rental_bookings(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rental_bookings_renter ON rental_bookings(renter_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rental_bookings_status ON rental_bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_rental_history_booking ON rental_booking_history(booking_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cleanup_queue_status ON cleanup_queue(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
