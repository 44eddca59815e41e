// Package datagen produces synthetic but realistic demo data: a product
// catalog, a year of daily sales, a current inventory snapshot, and a
// labeled training set derived from all three. Generation is deterministic
// for a given seed.
package datagen

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Veraticus/stocksense/internal/model"

	"gonum.org/v1/gonum/stat"
)

var categories = []string{
	"Electronics", "Clothing", "Home & Garden", "Food & Beverages",
	"Health & Beauty", "Sports & Outdoors", "Toys & Games", "Automotive",
}

var subcategories = map[string][]string{
	"Electronics":      {"Smartphones", "Laptops", "Headphones", "Tablets"},
	"Clothing":         {"Mens Apparel", "Womens Apparel", "Shoes", "Accessories"},
	"Home & Garden":    {"Furniture", "Kitchen", "Decor", "Tools"},
	"Food & Beverages": {"Snacks", "Beverages", "Fresh Produce", "Frozen"},
	"Health & Beauty":  {"Skincare", "Supplements", "Personal Care", "Makeup"},
	"Sports & Outdoors": {"Fitness", "Outdoor Gear", "Team Sports", "Water Sports"},
	"Toys & Games":     {"Action Figures", "Board Games", "Educational", "Electronic Toys"},
	"Automotive":       {"Parts", "Accessories", "Tools", "Care Products"},
}

var priceRanges = map[string][2]float64{
	"Electronics":      {20, 2000},
	"Clothing":         {10, 200},
	"Home & Garden":    {15, 500},
	"Food & Beverages": {1, 50},
	"Health & Beauty":  {5, 100},
	"Sports & Outdoors": {20, 800},
	"Toys & Games":     {5, 150},
	"Automotive":       {10, 300},
}

var categoryDemand = map[string]float64{
	"Electronics": 50, "Clothing": 80, "Home & Garden": 30,
	"Food & Beverages": 200, "Health & Beauty": 60,
	"Sports & Outdoors": 25, "Toys & Games": 40, "Automotive": 15,
}

var leadTimes = []int{1, 2, 3, 5, 7, 10, 14}

// Generator produces demo datasets from a seeded random source.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator with the given seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Catalog generates n product records with category-appropriate pricing.
func (g *Generator) Catalog(n int) []model.ProductRecord {
	products := make([]model.ProductRecord, 0, n)
	for i := 0; i < n; i++ {
		category := categories[g.rng.Intn(len(categories))]
		subs := subcategories[category]
		subcategory := subs[g.rng.Intn(len(subs))]

		priceRange := priceRanges[category]
		price := priceRange[0] + g.rng.Float64()*(priceRange[1]-priceRange[0])

		products = append(products, model.ProductRecord{
			ProductID:         fmt.Sprintf("PROD%04d", i+1),
			ProductName:       fmt.Sprintf("%s Item %d", subcategory, i+1),
			Category:          category,
			Subcategory:       subcategory,
			Price:             math.Round(price*100) / 100,
			SupplierLeadTime:  leadTimes[g.rng.Intn(len(leadTimes))],
			MinimumStockLevel: 5 + g.rng.Intn(96),
			SeasonalFactor:    math.Round((0.5+g.rng.Float64()*1.5)*100) / 100,
		})
	}
	return products
}

// SalesHistory generates days of daily demand per product, ending the day
// before asOf. Demand follows category base rates scaled by price, calendar
// seasonality, and each product's seasonal factor, with Poisson noise and a
// 2% stockout rate.
func (g *Generator) SalesHistory(products []model.ProductRecord, days int, asOf time.Time) []model.SalesObservation {
	start := asOf.AddDate(0, 0, -days)
	observations := make([]model.SalesObservation, 0, len(products)*days)

	for _, p := range products {
		baseDemand := categoryDemand[p.Category]
		if baseDemand == 0 {
			baseDemand = 30
		}
		// Higher price means lower demand.
		priceFactor := math.Max(0.1, 100/p.Price)

		for day := 0; day < days; day++ {
			date := start.AddDate(0, 0, day)
			weekend := isWeekend(date)
			holiday := isHolidaySeason(date)

			multiplier := seasonalMultiplier(date)
			if weekend {
				multiplier *= 1.3
			}
			multiplier *= p.SeasonalFactor

			demand := float64(g.poisson(math.Max(1, baseDemand*priceFactor*multiplier*0.1)))

			stockout := g.rng.Float64() < 0.02
			if stockout {
				demand = 0
			}

			observations = append(observations, model.SalesObservation{
				Date:        date,
				ProductID:   p.ProductID,
				DailyDemand: demand,
				Stockout:    stockout,
				IsWeekend:   weekend,
				IsHoliday:   holiday,
			})
		}
	}
	return observations
}

// Inventory generates a current stock snapshot per product. Roughly 10% of
// products land below their minimum stock level.
func (g *Generator) Inventory(products []model.ProductRecord) map[string]model.InventorySnapshot {
	snapshots := make(map[string]model.InventorySnapshot, len(products))
	for _, p := range products {
		var stock int
		if g.rng.Float64() < 0.1 {
			stock = g.rng.Intn(p.MinimumStockLevel + 1)
		} else {
			stock = p.MinimumStockLevel + g.rng.Intn(p.MinimumStockLevel*4+1)
		}

		snapshots[p.ProductID] = model.InventorySnapshot{
			CurrentStock:     stock,
			DaysSinceRestock: 1 + g.rng.Intn(30),
			ReorderPoint:     p.MinimumStockLevel + p.SupplierLeadTime*2,
		}
	}
	return snapshots
}

// TrainingSet joins catalog, sales history, and inventory into labeled rows.
// A product is labeled high risk when its stock coverage is at or below the
// supplier lead time, or its stock is at or below the minimum level.
func TrainingSet(products []model.ProductRecord, history []model.SalesObservation, inventory map[string]model.InventorySnapshot) []model.LabeledProduct {
	aggregates := aggregate(history)

	labeled := make([]model.LabeledProduct, 0, len(products))
	for _, record := range products {
		p := model.Product{
			ProductRecord:     record,
			SalesAggregate:    aggregates[record.ProductID],
			InventorySnapshot: inventory[record.ProductID],
		}
		if p.AvgDailyDemand > 0 {
			p.DemandVariability = p.DemandStd / p.AvgDailyDemand
		}

		highRisk := p.StockCoverageDays() <= float64(record.SupplierLeadTime) ||
			p.CurrentStock <= record.MinimumStockLevel

		labeled = append(labeled, model.LabeledProduct{Product: p, IsHighRisk: highRisk})
	}
	return labeled
}

func aggregate(history []model.SalesObservation) map[string]model.SalesAggregate {
	demands := map[string][]float64{}
	stockouts := map[string]int{}
	weekend := map[string]int{}
	holiday := map[string]int{}

	for _, obs := range history {
		demands[obs.ProductID] = append(demands[obs.ProductID], obs.DailyDemand)
		if obs.Stockout {
			stockouts[obs.ProductID]++
		}
		if obs.IsWeekend {
			weekend[obs.ProductID]++
		}
		if obs.IsHoliday {
			holiday[obs.ProductID]++
		}
	}

	aggregates := make(map[string]model.SalesAggregate, len(demands))
	for id, vals := range demands {
		maxDemand := vals[0]
		for _, v := range vals[1:] {
			if v > maxDemand {
				maxDemand = v
			}
		}

		std := 0.0
		if len(vals) > 1 {
			std = stat.StdDev(vals, nil)
		}

		aggregates[id] = model.SalesAggregate{
			AvgDailyDemand:    stat.Mean(vals, nil),
			DemandStd:         std,
			MaxDailyDemand:    maxDemand,
			TotalStockouts:    stockouts[id],
			WeekendSalesRatio: float64(weekend[id]) / float64(len(vals)),
			HolidaySalesRatio: float64(holiday[id]) / float64(len(vals)),
		}
	}
	return aggregates
}

// seasonalMultiplier models calendar demand swings: the holiday shopping
// season peaks, summer lifts, and the post-holiday slump dips.
func seasonalMultiplier(date time.Time) float64 {
	switch date.Month() {
	case time.November, time.December:
		return 1.8
	case time.June, time.July, time.August:
		return 1.2
	case time.January, time.February:
		return 0.7
	default:
		return 1.0
	}
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func isHolidaySeason(date time.Time) bool {
	return date.Month() == time.November || date.Month() == time.December
}

// poisson draws from a Poisson distribution using Knuth's method. Lambdas
// here stay small enough that the multiplicative form is fine.
func (g *Generator) poisson(lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= g.rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
