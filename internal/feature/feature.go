// Package feature derives model features from normalized product rows.
//
// Engineering is a pure transformation: identical input always yields
// identical output, and no state survives a call. The one deliberate
// exception to cross-batch reproducibility is IsFastMoving, which compares
// each product against the median demand of its own batch.
package feature

import (
	"fmt"
	"sort"

	"github.com/Veraticus/stocksense/internal/model"
)

// Price bucket labels, in ascending order of the fixed breakpoints.
const (
	PriceLow     = "Low"     // <= 20
	PriceMedium  = "Medium"  // <= 100
	PriceHigh    = "High"    // <= 500
	PricePremium = "Premium" // > 500
)

// Demand bucket labels, in ascending order of the fixed breakpoints.
const (
	DemandLow      = "Low"       // <= 10
	DemandMedium   = "Medium"    // <= 50
	DemandHigh     = "High"      // <= 100
	DemandVeryHigh = "Very High" // > 100
)

// Enriched is a product row plus every derived feature. The bucket
// boundaries are part of the training/inference contract and must never
// drift between the two.
type Enriched struct {
	model.Product

	PriceCategory     string
	DemandCategory    string
	StockoutRate      float64
	StockCoverageDays float64
	StockHealthScore  float64
	IsFastMoving      bool // demand above the batch median; not stable across batches
	LeadTimeRisk      bool // supplier lead time over 7 days
	IsSeasonal        bool // seasonal factor over 1.5
}

// Engineer derives features for every product in the batch. The caller is
// responsible for normalizing defaults first (see predictor.Prepare); a
// record without a product ID means that contract was broken and is
// reported as a MissingFieldError. A missing DemandVariability stays 0.
func Engineer(products []model.Product) ([]Enriched, error) {
	if len(products) == 0 {
		return nil, nil
	}

	for i, p := range products {
		if p.ProductID == "" {
			return nil, &MissingFieldError{Fields: []string{fmt.Sprintf("product_id (record %d)", i)}}
		}
	}

	median := demandMedian(products)

	enriched := make([]Enriched, len(products))
	for i, p := range products {
		coverage := p.StockCoverageDays()

		leadTime := float64(p.SupplierLeadTime)
		if leadTime < 1 {
			leadTime = 1
		}

		enriched[i] = Enriched{
			Product:           p,
			PriceCategory:     bucketPrice(p.Price),
			DemandCategory:    bucketDemand(p.AvgDailyDemand),
			StockoutRate:      float64(p.TotalStockouts) / 365,
			StockCoverageDays: coverage,
			StockHealthScore:  coverage / leadTime,
			IsFastMoving:      p.AvgDailyDemand > median,
			LeadTimeRisk:      p.SupplierLeadTime > 7,
			IsSeasonal:        p.SeasonalFactor > 1.5,
		}
	}

	return enriched, nil
}

// bucketPrice maps a price onto its fixed ordinal category.
func bucketPrice(price float64) string {
	switch {
	case price <= 20:
		return PriceLow
	case price <= 100:
		return PriceMedium
	case price <= 500:
		return PriceHigh
	default:
		return PricePremium
	}
}

// bucketDemand maps average daily demand onto its fixed ordinal category.
func bucketDemand(demand float64) string {
	switch {
	case demand <= 10:
		return DemandLow
	case demand <= 50:
		return DemandMedium
	case demand <= 100:
		return DemandHigh
	default:
		return DemandVeryHigh
	}
}

func demandMedian(products []model.Product) float64 {
	demands := make([]float64, len(products))
	for i, p := range products {
		demands[i] = p.AvgDailyDemand
	}
	sort.Float64s(demands)

	n := len(demands)
	if n%2 == 1 {
		return demands[n/2]
	}
	return (demands[n/2-1] + demands[n/2]) / 2
}
