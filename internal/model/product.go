// Package model defines the core domain models used throughout the application.
package model

import "time"

// ProductRecord holds the static catalog attributes of a product. Records are
// immutable once generated; a product leaves the system by being excluded
// from a batch, never by mutation.
type ProductRecord struct {
	ProductID         string
	ProductName       string
	Category          string
	Subcategory       string
	Price             float64
	SupplierLeadTime  int // days between reorder and arrival
	MinimumStockLevel int
	SeasonalFactor    float64
}

// SalesObservation is a single day of realized demand for one product.
type SalesObservation struct {
	Date        time.Time
	ProductID   string
	DailyDemand float64
	Stockout    bool
	IsWeekend   bool
	IsHoliday   bool
}

// SalesAggregate is the per-product rollup of historical demand. It is always
// derived from daily observations, never hand-edited. When no history exists
// the predictor substitutes defaults before anything downstream runs.
type SalesAggregate struct {
	AvgDailyDemand    float64
	DemandStd         float64
	MaxDailyDemand    float64
	TotalStockouts    int
	WeekendSalesRatio float64
	HolidaySalesRatio float64
}

// InventorySnapshot is the current stock state for one product. External
// inventory systems own it; this pipeline only reads it.
type InventorySnapshot struct {
	CurrentStock     int
	DaysSinceRestock int
	ReorderPoint     int
}

// Product is the normalized per-product row the pipeline operates on: catalog
// attributes joined with the sales rollup and the inventory snapshot.
// predictor.Prepare is the single place where defaults are filled in; every
// component downstream of it may assume required fields are populated.
type Product struct {
	ProductRecord
	SalesAggregate
	InventorySnapshot

	// DemandVariability is DemandStd / AvgDailyDemand. Zero when unknown.
	DemandVariability float64
}

// LabeledProduct pairs a product row with its training label.
type LabeledProduct struct {
	Product
	IsHighRisk bool
}

// StockCoverageDays reports how many days the current stock lasts at the
// average demand rate. Demand below one unit per day is treated as one to
// avoid division blowups.
func (p Product) StockCoverageDays() float64 {
	demand := p.AvgDailyDemand
	if demand < 1 {
		demand = 1
	}
	return float64(p.CurrentStock) / demand
}
