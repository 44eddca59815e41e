package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/stocksense/internal/model"
)

// SaveInventory upserts the current stock snapshot for one product.
func (s *SQLiteStorage) SaveInventory(ctx context.Context, productID string, snapshot model.InventorySnapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(productID, "productID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (product_id, current_stock, days_since_restock, reorder_point, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(product_id) DO UPDATE SET
			current_stock = excluded.current_stock,
			days_since_restock = excluded.days_since_restock,
			reorder_point = excluded.reorder_point,
			updated_at = CURRENT_TIMESTAMP
	`, productID, snapshot.CurrentStock, snapshot.DaysSinceRestock, snapshot.ReorderPoint)
	if err != nil {
		return fmt.Errorf("failed to save inventory for %s: %w", productID, err)
	}
	return nil
}

// GetInventory returns one product row per inventory snapshot, joined with
// its catalog record. Sales aggregates are not filled here; the predictor
// joins sales history separately.
func (s *SQLiteStorage) GetInventory(ctx context.Context) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.product_id, p.product_name, p.category, p.subcategory,
			p.price, p.supplier_lead_time, p.minimum_stock_level, p.seasonal_factor,
			i.current_stock, i.days_since_restock, i.reorder_point
		FROM inventory i
		JOIN products p ON p.product_id = i.product_id
		ORDER BY p.product_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ProductID, &p.ProductName, &p.Category, &p.Subcategory,
			&p.Price, &p.SupplierLeadTime, &p.MinimumStockLevel, &p.SeasonalFactor,
			&p.CurrentStock, &p.DaysSinceRestock, &p.ReorderPoint,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory: %w", err)
	}
	return products, nil
}
