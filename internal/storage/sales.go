package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/stocksense/internal/model"
)

// SaveSalesObservations upserts daily demand observations. One row per
// product per day; re-saving a day overwrites it.
func (s *SQLiteStorage) SaveSalesObservations(ctx context.Context, observations []model.SalesObservation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateObservations(observations); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales_observations (
			product_id, date, daily_demand, stockout, is_weekend, is_holiday
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_id, date) DO UPDATE SET
			daily_demand = excluded.daily_demand,
			stockout = excluded.stockout,
			is_weekend = excluded.is_weekend,
			is_holiday = excluded.is_holiday
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare observation upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, obs := range observations {
		if _, err := stmt.ExecContext(ctx,
			obs.ProductID, obs.Date.UTC(), obs.DailyDemand,
			obs.Stockout, obs.IsWeekend, obs.IsHoliday,
		); err != nil {
			return fmt.Errorf("failed to save observation for %s: %w", obs.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit observations: %w", err)
	}
	return nil
}

// GetSalesObservations returns observations on or after since, or all of
// them when since is nil, ordered by product then date.
func (s *SQLiteStorage) GetSalesObservations(ctx context.Context, since *time.Time) ([]model.SalesObservation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT product_id, date, daily_demand, stockout, is_weekend, is_holiday
		FROM sales_observations
	`
	var args []any
	if since != nil {
		query += ` WHERE date >= ?`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY product_id, date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var observations []model.SalesObservation
	for rows.Next() {
		var obs model.SalesObservation
		if err := rows.Scan(
			&obs.ProductID, &obs.Date, &obs.DailyDemand,
			&obs.Stockout, &obs.IsWeekend, &obs.IsHoliday,
		); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate observations: %w", err)
	}
	return observations, nil
}
