package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeRisk(t *testing.T) {
	tests := []struct {
		name  string
		want  RiskCategory
		score float64
	}{
		{name: "zero score", score: 0.0, want: RiskCategoryLow},
		{name: "just below low boundary", score: 0.29, want: RiskCategoryLow},
		{name: "low boundary is medium", score: 0.3, want: RiskCategoryMedium},
		{name: "mid range", score: 0.5, want: RiskCategoryMedium},
		{name: "just below high boundary", score: 0.69, want: RiskCategoryMedium},
		{name: "high boundary is high", score: 0.7, want: RiskCategoryHigh},
		{name: "max score", score: 1.0, want: RiskCategoryHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeRisk(tt.score))
		})
	}
}

func TestNewRiskAssessment(t *testing.T) {
	a := NewRiskAssessment("PROD0001", 0.93, true, SourceHeuristic)

	assert.Equal(t, "PROD0001", a.ProductID)
	assert.Equal(t, RiskLevelHigh, a.RiskLevel)
	assert.Equal(t, 1, a.RiskPrediction)
	assert.Equal(t, RiskCategoryHigh, a.RiskCategory)
	assert.Equal(t, SourceHeuristic, a.Source)
	assert.False(t, a.PredictedAt.IsZero())

	b := NewRiskAssessment("PROD0002", 0.1, false, SourceModel)
	assert.Equal(t, RiskLevelLow, b.RiskLevel)
	assert.Equal(t, 0, b.RiskPrediction)
	assert.Equal(t, RiskCategoryLow, b.RiskCategory)
}

func TestProduct_StockCoverageDays(t *testing.T) {
	tests := []struct {
		name    string
		stock   int
		demand  float64
		want    float64
	}{
		{name: "normal coverage", stock: 200, demand: 5, want: 40},
		{name: "one day of stock", stock: 5, demand: 5, want: 1},
		{name: "zero demand guarded to one", stock: 30, demand: 0, want: 30},
		{name: "fractional demand guarded to one", stock: 30, demand: 0.4, want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{
				SalesAggregate:    SalesAggregate{AvgDailyDemand: tt.demand},
				InventorySnapshot: InventorySnapshot{CurrentStock: tt.stock},
			}
			assert.InDelta(t, tt.want, p.StockCoverageDays(), 1e-9)
		})
	}
}
