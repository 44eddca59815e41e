package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/stocksense/internal/feature"
	"github.com/Veraticus/stocksense/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadInventoryCSV(t *testing.T) {
	path := writeTempCSV(t, `product_id,current_stock,minimum_stock_level,supplier_lead_time,category,price,avg_daily_demand
SKU-001,42,20,7,Electronics,79.99,12.5
SKU-002,5,10,3,,,
`)

	products, err := LoadInventoryCSV(path)
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "SKU-001", first.ProductID)
	assert.Equal(t, 42, first.CurrentStock)
	assert.Equal(t, 20, first.MinimumStockLevel)
	assert.Equal(t, 7, first.SupplierLeadTime)
	assert.Equal(t, "Electronics", first.Category)
	assert.Equal(t, 79.99, first.Price)
	assert.Equal(t, 12.5, first.AvgDailyDemand)

	second := products[1]
	assert.Equal(t, "", second.Category, "optional fields stay zero for the predictor to default")
	assert.Equal(t, 0.0, second.AvgDailyDemand)
}

func TestLoadInventoryCSV_MissingRequiredColumn(t *testing.T) {
	path := writeTempCSV(t, `product_id,current_stock
SKU-001,42
`)

	_, err := LoadInventoryCSV(path)
	var missing *feature.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Fields, "minimum_stock_level")
	assert.Contains(t, missing.Fields, "supplier_lead_time")
}

func TestLoadInventoryCSV_CaseInsensitiveHeader(t *testing.T) {
	path := writeTempCSV(t, `Product_ID, Current_Stock ,Minimum_Stock_Level,Supplier_Lead_Time
SKU-001,42,20,7
`)

	products, err := LoadInventoryCSV(path)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SKU-001", products[0].ProductID)
	assert.Equal(t, 42, products[0].CurrentStock)
}

func TestLoadInventoryCSV_BadNumeric(t *testing.T) {
	path := writeTempCSV(t, `product_id,current_stock,minimum_stock_level,supplier_lead_time
SKU-001,lots,20,7
`)

	_, err := LoadInventoryCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current_stock")
}

func TestLoadSalesCSV(t *testing.T) {
	path := writeTempCSV(t, `date,product_id,daily_demand,stockout,is_weekend,is_holiday
2026-03-01,SKU-001,12,0,1,0
2026-03-02,SKU-001,0,1,0,1
`)

	observations, err := LoadSalesCSV(path)
	require.NoError(t, err)
	require.Len(t, observations, 2)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), observations[0].Date)
	assert.Equal(t, 12.0, observations[0].DailyDemand)
	assert.True(t, observations[0].IsWeekend)
	assert.True(t, observations[1].Stockout)
	assert.True(t, observations[1].IsHoliday)
}

func TestLoadSalesCSV_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, `date,product_id
2026-03-01,SKU-001
`)

	_, err := LoadSalesCSV(path)
	var missing *feature.MissingFieldError
	assert.ErrorAs(t, err, &missing)
}

func TestWriteInventoryCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")

	products := []model.Product{
		{
			ProductRecord: model.ProductRecord{
				ProductID:         "SKU-001",
				ProductName:       "Wireless Earbuds",
				Category:          "Electronics",
				Subcategory:       "Audio",
				Price:             79.99,
				SupplierLeadTime:  7,
				MinimumStockLevel: 20,
				SeasonalFactor:    1.2,
			},
			InventorySnapshot: model.InventorySnapshot{
				CurrentStock:     42,
				DaysSinceRestock: 3,
				ReorderPoint:     34,
			},
		},
	}
	require.NoError(t, WriteInventoryCSV(path, products))

	got, err := LoadInventoryCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, products[0].ProductRecord, got[0].ProductRecord)
	assert.Equal(t, products[0].InventorySnapshot, got[0].InventorySnapshot)
}
