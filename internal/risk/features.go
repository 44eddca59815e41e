package risk

import (
	"fmt"

	"github.com/Veraticus/stocksense/internal/feature"
)

// categoricalColumns are the features that go through a label encoder, in
// the order their encoded values appear in the feature vector.
var categoricalColumns = []string{
	"category",
	"subcategory",
	"price_category",
	"demand_category",
}

// featureNames is the canonical feature ordering. It is frozen into the
// artifact at training time; inference must reproduce it exactly, so any
// edit here is a new model version, not a runtime branch.
var featureNames = []string{
	"price",
	"supplier_lead_time",
	"minimum_stock_level",
	"seasonal_factor",
	"avg_daily_demand",
	"demand_std",
	"max_daily_demand",
	"total_stockouts",
	"weekend_sales_ratio",
	"holiday_sales_ratio",
	"current_stock",
	"days_since_restock",
	"demand_variability",
	"stock_coverage_days",
	"category_encoded",
	"subcategory_encoded",
	"price_category_encoded",
	"demand_category_encoded",
	"stockout_rate",
	"is_fast_moving",
	"lead_time_risk",
	"is_seasonal",
	"stock_health_score",
}

func categoricalValue(column string, row feature.Enriched) (string, error) {
	switch column {
	case "category":
		return row.Category, nil
	case "subcategory":
		return row.Subcategory, nil
	case "price_category":
		return row.PriceCategory, nil
	case "demand_category":
		return row.DemandCategory, nil
	default:
		return "", fmt.Errorf("unknown categorical column: %s", column)
	}
}

func featureValue(name string, row feature.Enriched, encoders map[string]*LabelEncoder) (float64, error) {
	switch name {
	case "price":
		return row.Price, nil
	case "supplier_lead_time":
		return float64(row.SupplierLeadTime), nil
	case "minimum_stock_level":
		return float64(row.MinimumStockLevel), nil
	case "seasonal_factor":
		return row.SeasonalFactor, nil
	case "avg_daily_demand":
		return row.AvgDailyDemand, nil
	case "demand_std":
		return row.DemandStd, nil
	case "max_daily_demand":
		return row.MaxDailyDemand, nil
	case "total_stockouts":
		return float64(row.TotalStockouts), nil
	case "weekend_sales_ratio":
		return row.WeekendSalesRatio, nil
	case "holiday_sales_ratio":
		return row.HolidaySalesRatio, nil
	case "current_stock":
		return float64(row.CurrentStock), nil
	case "days_since_restock":
		return float64(row.DaysSinceRestock), nil
	case "demand_variability":
		return row.DemandVariability, nil
	case "stock_coverage_days":
		return row.StockCoverageDays, nil
	case "stockout_rate":
		return row.StockoutRate, nil
	case "is_fast_moving":
		return boolFeature(row.IsFastMoving), nil
	case "lead_time_risk":
		return boolFeature(row.LeadTimeRisk), nil
	case "is_seasonal":
		return boolFeature(row.IsSeasonal), nil
	case "stock_health_score":
		return row.StockHealthScore, nil
	case "category_encoded", "subcategory_encoded", "price_category_encoded", "demand_category_encoded":
		column := name[:len(name)-len("_encoded")]
		enc, ok := encoders[column]
		if !ok {
			return 0, fmt.Errorf("no encoder fitted for column %s", column)
		}
		raw, err := categoricalValue(column, row)
		if err != nil {
			return 0, err
		}
		return enc.Transform(raw), nil
	default:
		return 0, fmt.Errorf("unknown feature: %s", name)
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
