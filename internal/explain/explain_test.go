package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Veraticus/stocksense/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(stock int, demand float64, leadTime, minStock int) model.Product {
	return model.Product{
		ProductRecord: model.ProductRecord{
			ProductID:         "SKU-1",
			Category:          "Electronics",
			Price:             25.99,
			SupplierLeadTime:  leadTime,
			MinimumStockLevel: minStock,
		},
		SalesAggregate: model.SalesAggregate{
			AvgDailyDemand: demand,
			DemandStd:      demand * 0.2,
		},
		InventorySnapshot: model.InventorySnapshot{CurrentStock: stock},
	}
}

func factorNames(factors []model.KeyFactor) []string {
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = f.Factor
	}
	return names
}

func TestKeyFactors_StockCoverage(t *testing.T) {
	tests := []struct {
		name           string
		product        model.Product
		expectedStatus model.FactorStatus
		expectedImpact model.FactorImpact
	}{
		{
			name:           "coverage below lead time is critical",
			product:        product(15, 5, 7, 10), // 3 days against a 7-day lead
			expectedStatus: model.StatusCritical,
			expectedImpact: model.ImpactHigh,
		},
		{
			name:           "coverage below twice lead time is a warning",
			product:        product(50, 5, 7, 10), // 10 days, safety level is 14
			expectedStatus: model.StatusWarning,
			expectedImpact: model.ImpactMedium,
		},
		{
			name:           "ample coverage is good",
			product:        product(100, 5, 7, 10), // 20 days
			expectedStatus: model.StatusGood,
			expectedImpact: model.ImpactLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factors := KeyFactors(tt.product)
			require.NotEmpty(t, factors)

			coverage := factors[0]
			assert.Equal(t, "Stock Coverage", coverage.Factor)
			assert.Equal(t, tt.expectedStatus, coverage.Status)
			assert.Equal(t, tt.expectedImpact, coverage.Impact)
		})
	}
}

func TestKeyFactors_ConditionalFactors(t *testing.T) {
	p := product(15, 5, 20, 20) // below minimum stock, long lead time
	p.DemandStd = 3             // variability 0.6

	names := factorNames(KeyFactors(p))
	assert.Equal(t, []string{
		"Stock Coverage",
		"Minimum Stock Level",
		"Demand Variability",
		"Supplier Lead Time",
	}, names)
}

func TestKeyFactors_HealthyProductOnlyReportsCoverage(t *testing.T) {
	names := factorNames(KeyFactors(product(200, 5, 7, 10)))
	assert.Equal(t, []string{"Stock Coverage"}, names)
}

func TestTemplateNarrative(t *testing.T) {
	p := product(15, 5, 7, 20)

	tests := []struct {
		name     string
		score    float64
		contains string
	}{
		{"high risk", 0.75, "HIGH RISK"},
		{"medium risk", 0.5, "MEDIUM RISK"},
		{"low risk", 0.1, "LOW RISK"},
		{"boundary 0.7 is medium", 0.7, "MEDIUM RISK"},
		{"boundary 0.4 is low", 0.4, "LOW RISK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := model.NewRiskAssessment("SKU-1", tt.score, tt.score > 0.5, model.SourceModel)
			narrative := TemplateNarrative(p, assessment)
			assert.Contains(t, narrative, tt.contains)
			assert.Contains(t, narrative, fmt.Sprintf("%.0f%%", tt.score*100))
		})
	}
}

func TestSuggestions(t *testing.T) {
	p := product(15, 5, 7, 20)
	assessment := model.NewRiskAssessment("SKU-1", 0.75, true, model.SourceModel)

	suggestions := Suggestions(p, assessment)

	assert.Contains(t, suggestions, "Contact supplier immediately for emergency delivery")
	assert.Contains(t, suggestions, "Place a reorder within 24 hours")
	// safety stock 52.5, gap 37.5, plus one week of demand (35) = 73 rounded.
	assert.Contains(t, suggestions, "Increase order quantity to 73 units")
	assert.Contains(t, suggestions, "Set reorder point to 70 units (2x lead time demand)")
	assert.Contains(t, suggestions, "Set up automated reorder alerts")
	assert.NotContains(t, suggestions, "Negotiate shorter lead times with supplier")
}

func TestSuggestions_MediumRiskSkipsEmergencyActions(t *testing.T) {
	p := product(15, 5, 7, 20)
	assessment := model.NewRiskAssessment("SKU-1", 0.6, true, model.SourceModel)

	suggestions := Suggestions(p, assessment)

	assert.NotContains(t, suggestions, "Contact supplier immediately for emergency delivery")
	assert.Contains(t, suggestions, "Place a reorder within 24 hours")
	// No weekly buffer below the high-risk threshold: 52.5 - 15 = 38 rounded.
	assert.Contains(t, suggestions, "Increase order quantity to 38 units")
}

func TestSuggestions_LowRiskHealthyProduct(t *testing.T) {
	p := product(200, 5, 7, 10)
	assessment := model.NewRiskAssessment("SKU-1", 0.05, false, model.SourceHeuristic)

	suggestions := Suggestions(p, assessment)

	// Only the unconditional process improvements remain.
	assert.Equal(t, []string{
		"Set up automated reorder alerts",
		"Implement real-time inventory tracking",
	}, suggestions)
}

func TestSuggestions_LongLeadAndVolatileDemand(t *testing.T) {
	p := product(200, 5, 12, 10)
	p.DemandStd = 2.5 // variability 0.5 > 0.4
	assessment := model.NewRiskAssessment("SKU-1", 0.1, false, model.SourceHeuristic)

	suggestions := Suggestions(p, assessment)

	assert.Contains(t, suggestions, "Negotiate shorter lead times with supplier")
	assert.Contains(t, suggestions, "Implement demand forecasting to better predict variations")
}

func TestExplain_TemplatedNarrative(t *testing.T) {
	engine := New(nil)
	p := product(15, 5, 7, 20)
	assessment := model.NewRiskAssessment("SKU-1", 0.75, true, model.SourceModel)

	explanation := engine.Explain(context.Background(), p, assessment)

	assert.Equal(t, "SKU-1", explanation.ProductInfo.ProductID)
	assert.Equal(t, 15, explanation.ProductInfo.CurrentStock)
	assert.Equal(t, 5.0, explanation.ProductInfo.DailyDemand)
	assert.Equal(t, 7, explanation.ProductInfo.LeadTime)
	assert.Equal(t, assessment, explanation.Assessment)
	assert.NotEmpty(t, explanation.KeyFactors)
	assert.True(t, strings.HasPrefix(explanation.Narrative, "HIGH RISK"))
	assert.NotEmpty(t, explanation.Suggestions)
}

type stubNarrator struct {
	text string
	err  error
}

func (s *stubNarrator) GenerateNarrative(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func TestExplain_NarratorOverridesTemplate(t *testing.T) {
	engine := New(&stubNarrator{text: "custom narrative"})
	assessment := model.NewRiskAssessment("SKU-1", 0.75, true, model.SourceModel)

	explanation := engine.Explain(context.Background(), product(15, 5, 7, 20), assessment)

	assert.Equal(t, "custom narrative", explanation.Narrative)
}

func TestExplain_NarratorFailureFallsBackToTemplate(t *testing.T) {
	engine := New(&stubNarrator{err: errors.New("upstream unavailable")})
	assessment := model.NewRiskAssessment("SKU-1", 0.75, true, model.SourceModel)

	explanation := engine.Explain(context.Background(), product(15, 5, 7, 20), assessment)

	assert.True(t, strings.HasPrefix(explanation.Narrative, "HIGH RISK"))
}

func TestSummarize(t *testing.T) {
	products := []model.Product{
		product(15, 5, 7, 20),  // high risk below
		product(50, 5, 7, 10),  // medium
		product(200, 5, 7, 10), // low
	}
	products[0].ProductID = "HOT"
	products[1].ProductID = "WARM"
	products[1].Category = "Grocery"
	products[2].ProductID = "COLD"
	products[2].Category = "Grocery"

	assessments := []model.RiskAssessment{
		model.NewRiskAssessment("HOT", 0.9, true, model.SourceModel),
		model.NewRiskAssessment("WARM", 0.5, false, model.SourceModel),
		model.NewRiskAssessment("COLD", 0.1, false, model.SourceModel),
	}

	summary := Summarize(products, assessments)

	assert.Equal(t, 3, summary.Overview.TotalProducts)
	assert.Equal(t, 1, summary.Overview.HighRiskCount)
	assert.Equal(t, 1, summary.Overview.MediumRiskCount)
	assert.Equal(t, 1, summary.Overview.LowRiskCount)
	assert.InDelta(t, 0.5, summary.Overview.AverageRiskScore, 1e-9)
	assert.InDelta(t, 100.0/3.0, summary.Overview.RiskPercentage, 1e-9)

	assert.InDelta(t, 15*25.99, summary.PotentialLostSales, 1e-9)

	require.Len(t, summary.CategoryAnalysis, 2)
	assert.Equal(t, "Electronics", summary.CategoryAnalysis[0].Category)
	assert.InDelta(t, 0.9, summary.CategoryAnalysis[0].MeanRiskScore, 1e-9)
	assert.Equal(t, "Grocery", summary.CategoryAnalysis[1].Category)
	assert.InDelta(t, 0.3, summary.CategoryAnalysis[1].MeanRiskScore, 1e-9)

	require.NotEmpty(t, summary.Insights)
	assert.Contains(t, summary.Insights[0], "1 products")
	assert.NotEmpty(t, summary.Recommendations)
}

func TestSummarize_EmptyBatch(t *testing.T) {
	summary := Summarize(nil, nil)

	assert.Equal(t, 0, summary.Overview.TotalProducts)
	assert.Equal(t, 0.0, summary.Overview.AverageRiskScore)
	assert.Empty(t, summary.CategoryAnalysis)
}
