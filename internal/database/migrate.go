// Package database owns the MySQL connection pool and the startup schema
// migrations. The schema historically evolved lazily (tables and columns
// created on first access); that behavior is modeled here as a linear list
// of versioned steps recorded in schema_migrations and applied exactly once
// at startup, outside the request path.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// migration is a single named schema step. Version numbers are dense and
// strictly increasing; applied versions are never edited, only appended to.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, db *sql.DB) error
}

// Migrate applies all pending migrations. A DDL failure aborts startup:
// running against a half-migrated schema is worse than not starting.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT NOT NULL PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		log.Printf("migrate: applying %d %s", m.version, m.name)
		if err := m.apply(ctx, db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}
	return nil
}

// ensureTable executes a CREATE TABLE IF NOT EXISTS statement. Idempotent.
func ensureTable(ctx context.Context, db *sql.DB, ddl string) error {
	_, err := db.ExecContext(ctx, ddl)
	return err
}

// ensureColumn adds a column if the table does not already have it. When
// backfill is non-empty it is executed once after the ALTER so rows that
// predate the column get a value.
func ensureColumn(ctx context.Context, db *sql.DB, table, column, definition, backfill string) error {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.COLUMNS
		 WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`,
		table, column).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := db.ExecContext(ctx,
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)); err != nil {
		return err
	}
	if backfill != "" {
		if _, err := db.ExecContext(ctx, backfill); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []migration{
	{1, "users and roles", func(ctx context.Context, db *sql.DB) error {
		if err := ensureTable(ctx, db, `CREATE TABLE IF NOT EXISTS roles (
			id TINYINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(32) NOT NULL UNIQUE
		)`); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`INSERT IGNORE INTO roles (name) VALUES ('admin'), ('user')`); err != nil {
			return err
		}
		return ensureTable(ctx, db, `CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(128) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role_id TINYINT UNSIGNED NOT NULL,
			status ENUM('active','blocked') NOT NULL DEFAULT 'active',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_users_role FOREIGN KEY (role_id) REFERENCES roles (id)
		)`)
	}},
	{2, "farms", func(ctx context.Context, db *sql.DB) error {
		return ensureTable(ctx, db, `CREATE TABLE IF NOT EXISTS farms (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			farm_name VARCHAR(128) NOT NULL,
			location VARCHAR(255) NOT NULL,
			size DECIMAL(10,2) NOT NULL,
			farm_type VARCHAR(64) NOT NULL,
			description TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_farms_user (user_id),
			CONSTRAINT fk_farms_user FOREIGN KEY (user_id) REFERENCES users (id)
		)`)
	}},
	{3, "animals", func(ctx context.Context, db *sql.DB) error {
		return ensureTable(ctx, db, `CREATE TABLE IF NOT EXISTS animals (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			farm_id BIGINT UNSIGNED NOT NULL,
			animal_type VARCHAR(64) NOT NULL,
			breed VARCHAR(64) NOT NULL,
			purpose VARCHAR(64) NOT NULL,
			quantity INT UNSIGNED NOT NULL,
			registration_date DATE NOT NULL,
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_animals_farm (farm_id),
			CONSTRAINT fk_animals_farm FOREIGN KEY (farm_id) REFERENCES farms (id)
		)`)
	}},
	{4, "employees", func(ctx context.Context, db *sql.DB) error {
		return ensureTable(ctx, db, `CREATE TABLE IF NOT EXISTS employees (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			farm_id BIGINT UNSIGNED NOT NULL,
			first_name VARCHAR(64) NOT NULL,
			last_name VARCHAR(64) NOT NULL,
			position VARCHAR(64) NOT NULL,
			contact VARCHAR(32),
			email VARCHAR(255) NOT NULL,
			hire_date DATE NOT NULL,
			salary DECIMAL(10,2) NULL,
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_employees_farm (farm_id),
			CONSTRAINT fk_employees_farm FOREIGN KEY (farm_id) REFERENCES farms (id)
		)`)
	}},
	{5, "animal health records", func(ctx context.Context, db *sql.DB) error {
		return ensureTable(ctx, db, `CREATE TABLE IF NOT EXISTS animal_health_records (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			animal_id BIGINT UNSIGNED NOT NULL,
			record_date DATE NOT NULL,
			record_type ENUM('checkup','vaccination','treatment','medication','other') NOT NULL,
			description TEXT NOT NULL,
			performed_by VARCHAR(128),
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_health_animal (animal_id),
			CONSTRAINT fk_health_animal FOREIGN KEY (animal_id) REFERENCES animals (id)
		)`)
	}},
	{6, "system settings", func(ctx context.Context, db *sql.DB) error {
		if err := ensureTable(ctx, db, `CREATE TABLE IF NOT EXISTS system_settings (
			setting_key VARCHAR(64) NOT NULL PRIMARY KEY,
			setting_value VARCHAR(255) NOT NULL,
			description VARCHAR(255) NOT NULL DEFAULT '',
			protected TINYINT(1) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`); err != nil {
			return err
		}
		_, err := db.ExecContext(ctx, `INSERT IGNORE INTO system_settings
			(setting_key, setting_value, description, protected) VALUES
			('site_name', 'Farm Manager', 'Display name of the installation', 0),
			('max_farms_per_user', '25', 'Soft limit shown on the farm form', 0),
			('maintenance_mode', '0', 'Read-only mode switch, changed by operators only', 1)`)
		return err
	}},
	{7, "contact messages", func(ctx context.Context, db *sql.DB) error {
		return ensureTable(ctx, db, `CREATE TABLE IF NOT EXISTS contact_messages (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(128) NOT NULL,
			email VARCHAR(255) NOT NULL,
			subject VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			status ENUM('pending','answered') NOT NULL DEFAULT 'pending',
			admin_response TEXT,
			responded_by BIGINT UNSIGNED NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_contact_responder FOREIGN KEY (responded_by) REFERENCES users (id)
		)`)
	}},
	{8, "system logs", func(ctx context.Context, db *sql.DB) error {
		return ensureTable(ctx, db, `CREATE TABLE IF NOT EXISTS system_logs (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			log_type ENUM('info','warning','error','security') NOT NULL,
			user_id BIGINT UNSIGNED NULL,
			message VARCHAR(512) NOT NULL,
			ip_address VARCHAR(45) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_logs_type (log_type),
			CONSTRAINT fk_logs_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE SET NULL
		)`)
	}},
	// Older installs stored ownership only on farms; animals and employees
	// carry a denormalized user_id so every list/get/update/delete can be
	// scoped by owner without a join. Backfill derives it from the farm.
	{9, "denormalized owner on animals and employees", func(ctx context.Context, db *sql.DB) error {
		if err := ensureColumn(ctx, db, "animals", "user_id",
			"BIGINT UNSIGNED NOT NULL DEFAULT 0",
			`UPDATE animals a JOIN farms f ON f.id = a.farm_id SET a.user_id = f.user_id`); err != nil {
			return err
		}
		return ensureColumn(ctx, db, "employees", "user_id",
			"BIGINT UNSIGNED NOT NULL DEFAULT 0",
			`UPDATE employees e JOIN farms f ON f.id = e.farm_id SET e.user_id = f.user_id`)
	}},
	{10, "denormalized owner on health records", func(ctx context.Context, db *sql.DB) error {
		return ensureColumn(ctx, db, "animal_health_records", "user_id",
			"BIGINT UNSIGNED NOT NULL DEFAULT 0",
			`UPDATE animal_health_records r JOIN animals a ON a.id = r.animal_id SET r.user_id = a.user_id`)
	}},
}
