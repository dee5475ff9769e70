package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// OpenMySQL opens a MySQL-backed store with pool settings sized for a
// request/response server. Dates travel as plain YYYY-MM-DD strings, so the
// DSN deliberately omits parseTime.
func OpenMySQL(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := createMySQLTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[Store] MySQL initialized with pool: max=%d, idle=%d", 25, 10)
	return &Store{db: db, driver: "mysql"}, nil
}

func createMySQLTables(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100) NOT NULL UNIQUE,
			role VARCHAR(50) NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS clients (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			full_name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			supplier_id BIGINT NOT NULL DEFAULT 0,
			type VARCHAR(100) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL,
			ownership ENUM('rented', 'owned') NOT NULL DEFAULT 'rented',
			warranty BOOLEAN NOT NULL DEFAULT FALSE,
			cost DECIMAL(10,2) NOT NULL DEFAULT 0,
			renewable BOOLEAN NOT NULL DEFAULT TRUE,
			roi_target DECIMAL(10,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS sales_attributes (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			product_id BIGINT NOT NULL,
			duration_days INT NOT NULL,
			capacity INT NOT NULL DEFAULT 1,
			price DECIMAL(10,2) NOT NULL DEFAULT 0,
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_accounts (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			product_id BIGINT NOT NULL,
			email VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL DEFAULT '',
			status ENUM('available', 'maintenance') NOT NULL DEFAULT 'available',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_profiles (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			account_id BIGINT NOT NULL,
			name VARCHAR(100) NOT NULL,
			status ENUM('available', 'assigned') NOT NULL DEFAULT 'available',
			FOREIGN KEY (account_id) REFERENCES inventory_accounts(id),
			INDEX idx_profiles_status (status)
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			client_id BIGINT NOT NULL,
			agent_id BIGINT NOT NULL DEFAULT 0,
			profile_id BIGINT NULL,
			sales_attribute_id BIGINT NOT NULL,
			cost DECIMAL(10,2) NOT NULL DEFAULT 0,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			status ENUM('active', 'expired', 'cancelled') NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (client_id) REFERENCES clients(id),
			FOREIGN KEY (sales_attribute_id) REFERENCES sales_attributes(id),
			INDEX idx_sales_end_date (end_date)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			title VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			category VARCHAR(50) NOT NULL DEFAULT 'SYSTEM',
			` + "`read`" + ` BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			action VARCHAR(100) NOT NULL,
			entity VARCHAR(100) NOT NULL DEFAULT '',
			entity_id BIGINT NOT NULL DEFAULT 0,
			before_state JSON NULL,
			after_state JSON NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
