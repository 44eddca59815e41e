package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/stocksense/internal/common"
	"github.com/Veraticus/stocksense/internal/model"
)

// SaveProducts upserts catalog records keyed by product ID.
func (s *SQLiteStorage) SaveProducts(ctx context.Context, products []model.ProductRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProducts(products); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (
			product_id, product_name, category, subcategory,
			price, supplier_lead_time, minimum_stock_level, seasonal_factor
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_id) DO UPDATE SET
			product_name = excluded.product_name,
			category = excluded.category,
			subcategory = excluded.subcategory,
			price = excluded.price,
			supplier_lead_time = excluded.supplier_lead_time,
			minimum_stock_level = excluded.minimum_stock_level,
			seasonal_factor = excluded.seasonal_factor
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare product upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.ProductID, p.ProductName, p.Category, p.Subcategory,
			p.Price, p.SupplierLeadTime, p.MinimumStockLevel, p.SeasonalFactor,
		); err != nil {
			return fmt.Errorf("failed to save product %s: %w", p.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit products: %w", err)
	}
	return nil
}

// GetProducts returns all catalog records, ordered by product ID.
func (s *SQLiteStorage) GetProducts(ctx context.Context) ([]model.ProductRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, product_name, category, subcategory,
			price, supplier_lead_time, minimum_stock_level, seasonal_factor
		FROM products
		ORDER BY product_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.ProductRecord
	for rows.Next() {
		var p model.ProductRecord
		if err := rows.Scan(
			&p.ProductID, &p.ProductName, &p.Category, &p.Subcategory,
			&p.Price, &p.SupplierLeadTime, &p.MinimumStockLevel, &p.SeasonalFactor,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// GetProductByID returns a single catalog record.
func (s *SQLiteStorage) GetProductByID(ctx context.Context, productID string) (*model.ProductRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(productID, "productID"); err != nil {
		return nil, err
	}

	var p model.ProductRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT product_id, product_name, category, subcategory,
			price, supplier_lead_time, minimum_stock_level, seasonal_factor
		FROM products
		WHERE product_id = ?
	`, productID).Scan(
		&p.ProductID, &p.ProductName, &p.Category, &p.Subcategory,
		&p.Price, &p.SupplierLeadTime, &p.MinimumStockLevel, &p.SeasonalFactor,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", common.ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %s: %w", productID, err)
	}
	return &p, nil
}
