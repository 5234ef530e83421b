package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			phone VARCHAR(20) NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL,
			address TEXT NOT NULL,
			is_logged_in BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	if err != nil {
		return err
	}

	// Create lands table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS lands (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id),
			title VARCHAR(100) NOT NULL,
			location VARCHAR(255) NOT NULL,
			size VARCHAR(100) NOT NULL,
			interest_rate DOUBLE PRECISION NOT NULL,
			requested_by VARCHAR(36) DEFAULT NULL REFERENCES users(id),
			status VARCHAR(10) NOT NULL DEFAULT 'available'
		)
	`)
	if err != nil {
		return err
	}

	// Create loans table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS loans (
			id VARCHAR(36) PRIMARY KEY,
			bank_id VARCHAR(36) NOT NULL REFERENCES users(id),
			title VARCHAR(100) NOT NULL,
			amount DECIMAL(10, 2) NOT NULL,
			interest_rate DOUBLE PRECISION NOT NULL,
			duration VARCHAR(100) NOT NULL,
			requested_by VARCHAR(36) DEFAULT NULL REFERENCES users(id),
			status VARCHAR(10) NOT NULL DEFAULT 'available'
		)
	`)
	if err != nil {
		return err
	}

	// Create pesticides table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pesticides (
			id VARCHAR(36) PRIMARY KEY,
			store_id VARCHAR(36) NOT NULL REFERENCES users(id),
			title VARCHAR(100) NOT NULL,
			name VARCHAR(100) NOT NULL,
			price INT NOT NULL,
			number_of_installments INT NOT NULL,
			interest_rate DOUBLE PRECISION NOT NULL,
			duration VARCHAR(100) NOT NULL,
			requested_by VARCHAR(36) DEFAULT NULL REFERENCES users(id),
			status VARCHAR(10) NOT NULL DEFAULT 'available'
		)
	`)
	if err != nil {
		return err
	}

	// Create instruments table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS instruments (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id),
			title VARCHAR(100) NOT NULL,
			name VARCHAR(100) NOT NULL,
			rent_price DECIMAL(10, 2) NOT NULL,
			duration VARCHAR(100) NOT NULL,
			requested_by VARCHAR(36) DEFAULT NULL REFERENCES users(id),
			status VARCHAR(10) NOT NULL DEFAULT 'available'
		)
	`)
	if err != nil {
		return err
	}

	// Create shared_projects table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS shared_projects (
			id VARCHAR(36) PRIMARY KEY,
			creator_id VARCHAR(36) NOT NULL REFERENCES users(id),
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			location VARCHAR(255) NOT NULL,
			season VARCHAR(55) NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'pending'
		)
	`)
	if err != nil {
		return err
	}

	// Create shared_project_invites table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS shared_project_invites (
			id VARCHAR(36) PRIMARY KEY,
			project_id VARCHAR(36) NOT NULL REFERENCES shared_projects(id),
			invitor_id VARCHAR(36) NOT NULL REFERENCES users(id),
			invited_farmer_id VARCHAR(36) NOT NULL REFERENCES users(id),
			status VARCHAR(10) NOT NULL DEFAULT 'pending'
		)
	`)
	if err != nil {
		return err
	}

	return nil
}
