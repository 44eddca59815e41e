package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS products (
					product_id TEXT PRIMARY KEY,
					product_name TEXT,
					category TEXT,
					subcategory TEXT,
					price REAL NOT NULL DEFAULT 0,
					supplier_lead_time INTEGER NOT NULL DEFAULT 0,
					minimum_stock_level INTEGER NOT NULL DEFAULT 0,
					seasonal_factor REAL NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_products_category ON products(category)`,

				`CREATE TABLE IF NOT EXISTS sales_observations (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					product_id TEXT NOT NULL,
					date DATETIME NOT NULL,
					daily_demand REAL NOT NULL DEFAULT 0,
					stockout INTEGER NOT NULL DEFAULT 0,
					is_weekend INTEGER NOT NULL DEFAULT 0,
					is_holiday INTEGER NOT NULL DEFAULT 0,
					UNIQUE(product_id, date),
					FOREIGN KEY (product_id) REFERENCES products(product_id)
				)`,
				`CREATE INDEX idx_sales_date ON sales_observations(date)`,

				`CREATE TABLE IF NOT EXISTS inventory (
					product_id TEXT PRIMARY KEY,
					current_stock INTEGER NOT NULL DEFAULT 0,
					days_since_restock INTEGER NOT NULL DEFAULT 0,
					reorder_point INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (product_id) REFERENCES products(product_id)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add assessment history for auditing",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS assessments (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					product_id TEXT NOT NULL,
					risk_score REAL NOT NULL,
					risk_prediction INTEGER NOT NULL DEFAULT 0,
					risk_level TEXT NOT NULL,
					risk_category TEXT NOT NULL,
					source TEXT NOT NULL,
					predicted_at DATETIME NOT NULL,
					FOREIGN KEY (product_id) REFERENCES products(product_id)
				)`,
				`CREATE INDEX idx_assessments_product ON assessments(product_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index assessments by prediction time",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_assessments_predicted_at ON assessments(predicted_at)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
