package model

import "time"

// AlertType identifies what condition raised an alert.
type AlertType string

// Alert type constants.
const (
	AlertCritical AlertType = "critical"
	AlertLowStock AlertType = "low_stock"
)

// AlertPriority orders alerts for operator attention.
type AlertPriority string

// Alert priority constants.
const (
	PriorityHigh   AlertPriority = "high"
	PriorityMedium AlertPriority = "medium"
)

// Alert flags a product that needs immediate attention.
type Alert struct {
	Type      AlertType
	ProductID string
	Message   string
	Priority  AlertPriority
}

// ProductRisk is one row in the top-risk listing of a dashboard summary.
type ProductRisk struct {
	ProductID      string
	RiskCategory   RiskCategory
	CurrentStock   int
	AvgDailyDemand float64
	RiskScore      float64
}

// CategoryRisk is the aggregate risk for one product category.
type CategoryRisk struct {
	Category      string
	MeanRiskScore float64
	HighRiskCount int
}

// DashboardSummary aggregates a batch prediction for monitoring.
type DashboardSummary struct {
	GeneratedAt      time.Time
	TopRiskProducts  []ProductRisk
	CategoryAnalysis []CategoryRisk
	Alerts           []Alert
	TotalProducts    int
	HighRiskCount    int
	MediumRiskCount  int
	LowRiskCount     int
	RiskPercentage   float64
}
