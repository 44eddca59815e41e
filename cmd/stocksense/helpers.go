package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/stocksense/internal/common"
	"github.com/Veraticus/stocksense/internal/model"
	"github.com/Veraticus/stocksense/internal/storage"

	"github.com/spf13/viper"
)

// databasePath resolves the SQLite location from config, defaulting under
// the user's data directory.
func databasePath() (string, error) {
	if dbPath := viper.GetString("database.path"); dbPath != "" {
		return dbPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "stocksense", "stocksense.db"), nil
}

// modelPath resolves the trained artifact location from config.
func modelPath() (string, error) {
	if path := viper.GetString("model.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "stocksense", "model.json"), nil
}

// openStorage opens the configured database and ensures the schema is
// current.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return store, nil
}

// loadInventory reads products either from a CSV file or from the database.
// Sales history comes along when the database is the source, or from an
// optional second CSV.
func loadInventory(ctx context.Context, inputCSV, salesCSV string) ([]model.Product, []model.SalesObservation, error) {
	if inputCSV != "" {
		inventory, err := storage.LoadInventoryCSV(inputCSV)
		if err != nil {
			return nil, nil, err
		}

		var history []model.SalesObservation
		if salesCSV != "" {
			if history, err = storage.LoadSalesCSV(salesCSV); err != nil {
				return nil, nil, err
			}
		}
		return inventory, history, nil
	}

	store, err := openStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = store.Close() }()

	inventory, err := store.GetInventory(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(inventory) == 0 {
		return nil, nil, common.NewUserError(
			"no inventory found; run 'stocksense generate' or pass --input",
			common.ErrNoProducts)
	}

	history, err := store.GetSalesObservations(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return inventory, history, nil
}
