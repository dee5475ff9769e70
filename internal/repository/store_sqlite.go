package repository

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// OpenSQLite opens a SQLite-backed store. WAL mode keeps concurrent readers
// cheap; the single writer connection serializes the reservation updates.
func OpenSQLite(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[Store] SQLite initialized with database: %s", dbPath)
	return &Store{db: db, driver: "sqlite"}, nil
}

func createSQLiteTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		supplier_id INTEGER NOT NULL DEFAULT 0,
		type TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		ownership TEXT NOT NULL DEFAULT 'rented' CHECK (ownership IN ('rented', 'owned')),
		warranty INTEGER NOT NULL DEFAULT 0,
		cost TEXT NOT NULL DEFAULT '0',
		renewable INTEGER NOT NULL DEFAULT 1,
		roi_target TEXT NOT NULL DEFAULT '0'
	);
	CREATE TABLE IF NOT EXISTS sales_attributes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id),
		duration_days INTEGER NOT NULL,
		capacity INTEGER NOT NULL DEFAULT 1,
		price TEXT NOT NULL DEFAULT '0'
	);
	CREATE TABLE IF NOT EXISTS inventory_accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id),
		email TEXT NOT NULL,
		password TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'maintenance')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS inventory_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER NOT NULL REFERENCES inventory_accounts(id),
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'assigned'))
	);
	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id INTEGER NOT NULL REFERENCES clients(id),
		agent_id INTEGER NOT NULL DEFAULT 0,
		profile_id INTEGER REFERENCES inventory_profiles(id),
		sales_attribute_id INTEGER NOT NULL REFERENCES sales_attributes(id),
		cost TEXT NOT NULL DEFAULT '0',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'expired', 'cancelled')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'SYSTEM',
		read INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		entity TEXT NOT NULL DEFAULT '',
		entity_id INTEGER NOT NULL DEFAULT 0,
		before_state TEXT,
		after_state TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_account ON inventory_profiles(account_id);
	CREATE INDEX IF NOT EXISTS idx_profiles_status ON inventory_profiles(status);
	CREATE INDEX IF NOT EXISTS idx_sales_client ON sales(client_id);
	CREATE INDEX IF NOT EXISTS idx_sales_end_date ON sales(end_date);
	`
	_, err := db.Exec(query)
	return err
}
