package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/stocksense/internal/feature"
	"github.com/Veraticus/stocksense/internal/model"
)

// LoadInventoryCSV reads product rows from a CSV file. The header must carry
// the required columns; everything else is optional and left zero for the
// predictor to default.
func LoadInventoryCSV(path string) ([]model.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory header: %w", err)
	}
	if err := feature.ValidateColumns(header); err != nil {
		return nil, err
	}

	cols := columnIndex(header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory rows: %w", err)
	}

	products := make([]model.Product, 0, len(records))
	for i, row := range records {
		p, err := parseProductRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: %w", i+2, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// LoadSalesCSV reads daily sales observations from a CSV file with columns
// date, product_id, daily_demand and optional stockout, is_weekend,
// is_holiday.
func LoadSalesCSV(path string) ([]model.SalesObservation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sales file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read sales header: %w", err)
	}
	cols := columnIndex(header)
	for _, required := range []string{"date", "product_id", "daily_demand"} {
		if _, ok := cols[required]; !ok {
			return nil, &feature.MissingFieldError{Fields: []string{required}}
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read sales rows: %w", err)
	}

	observations := make([]model.SalesObservation, 0, len(records))
	for i, row := range records {
		date, err := time.Parse("2006-01-02", cell(cols, row, "date"))
		if err != nil {
			return nil, fmt.Errorf("sales row %d: invalid date: %w", i+2, err)
		}
		demand, err := parseFloat(cols, row, "daily_demand")
		if err != nil {
			return nil, fmt.Errorf("sales row %d: %w", i+2, err)
		}

		observations = append(observations, model.SalesObservation{
			Date:        date,
			ProductID:   cell(cols, row, "product_id"),
			DailyDemand: demand,
			Stockout:    parseBool(cols, row, "stockout"),
			IsWeekend:   parseBool(cols, row, "is_weekend"),
			IsHoliday:   parseBool(cols, row, "is_holiday"),
		})
	}
	return observations, nil
}

// WriteInventoryCSV writes product rows with their full attribute set.
func WriteInventoryCSV(path string, products []model.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create inventory file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	header := []string{
		"product_id", "product_name", "category", "subcategory", "price",
		"supplier_lead_time", "minimum_stock_level", "seasonal_factor",
		"current_stock", "days_since_restock", "reorder_point",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write inventory header: %w", err)
	}

	for _, p := range products {
		row := []string{
			p.ProductID, p.ProductName, p.Category, p.Subcategory,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.Itoa(p.SupplierLeadTime),
			strconv.Itoa(p.MinimumStockLevel),
			strconv.FormatFloat(p.SeasonalFactor, 'f', 2, 64),
			strconv.Itoa(p.CurrentStock),
			strconv.Itoa(p.DaysSinceRestock),
			strconv.Itoa(p.ReorderPoint),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write inventory row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush inventory file: %w", err)
	}
	return nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cell(cols map[string]int, row []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(cols map[string]int, row []string, name string) (float64, error) {
	s := cell(cols, row, name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}

func parseInt(cols map[string]int, row []string, name string) (int, error) {
	s := cell(cols, row, name)
	if s == "" {
		return 0, nil
	}
	// Some exporters write integer columns as floats.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return int(v), nil
}

func parseBool(cols map[string]int, row []string, name string) bool {
	switch strings.ToLower(cell(cols, row, name)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func parseProductRow(cols map[string]int, row []string) (model.Product, error) {
	var p model.Product
	var err error

	p.ProductID = cell(cols, row, "product_id")
	if p.ProductID == "" {
		return p, fmt.Errorf("%w: missing product ID", ErrInvalidProduct)
	}
	p.ProductName = cell(cols, row, "product_name")
	p.Category = cell(cols, row, "category")
	p.Subcategory = cell(cols, row, "subcategory")

	if p.Price, err = parseFloat(cols, row, "price"); err != nil {
		return p, err
	}
	if p.SupplierLeadTime, err = parseInt(cols, row, "supplier_lead_time"); err != nil {
		return p, err
	}
	if p.MinimumStockLevel, err = parseInt(cols, row, "minimum_stock_level"); err != nil {
		return p, err
	}
	if p.SeasonalFactor, err = parseFloat(cols, row, "seasonal_factor"); err != nil {
		return p, err
	}
	if p.CurrentStock, err = parseInt(cols, row, "current_stock"); err != nil {
		return p, err
	}
	if p.DaysSinceRestock, err = parseInt(cols, row, "days_since_restock"); err != nil {
		return p, err
	}
	if p.ReorderPoint, err = parseInt(cols, row, "reorder_point"); err != nil {
		return p, err
	}
	if p.AvgDailyDemand, err = parseFloat(cols, row, "avg_daily_demand"); err != nil {
		return p, err
	}
	if p.DemandStd, err = parseFloat(cols, row, "demand_std"); err != nil {
		return p, err
	}
	if p.MaxDailyDemand, err = parseFloat(cols, row, "max_daily_demand"); err != nil {
		return p, err
	}
	if p.TotalStockouts, err = parseInt(cols, row, "total_stockouts"); err != nil {
		return p, err
	}
	if p.WeekendSalesRatio, err = parseFloat(cols, row, "weekend_sales_ratio"); err != nil {
		return p, err
	}
	if p.HolidaySalesRatio, err = parseFloat(cols, row, "holiday_sales_ratio"); err != nil {
		return p, err
	}
	return p, nil
}
