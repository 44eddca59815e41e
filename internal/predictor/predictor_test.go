package predictor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/stocksense/internal/common"
	"github.com/Veraticus/stocksense/internal/model"
	"github.com/Veraticus/stocksense/internal/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, stock int, demand float64, leadTime int) model.Product {
	return model.Product{
		ProductRecord: model.ProductRecord{
			ProductID:         id,
			Category:          "Electronics",
			Subcategory:       "Audio",
			Price:             99.0,
			SupplierLeadTime:  leadTime,
			MinimumStockLevel: 10,
			SeasonalFactor:    1.0,
		},
		SalesAggregate: model.SalesAggregate{
			AvgDailyDemand:    demand,
			DemandStd:         demand / 4,
			MaxDailyDemand:    demand * 2,
			WeekendSalesRatio: 0.3,
			HolidaySalesRatio: 0.1,
		},
		InventorySnapshot: model.InventorySnapshot{
			CurrentStock:     stock,
			DaysSinceRestock: 5,
		},
	}
}

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name     string
		product  model.Product
		expected float64
	}{
		{
			name:     "imminent breach scores high",
			product:  product("SKU-1", 10, 10, 7),
			expected: 1 - 1.0/14.0, // one day of coverage against a 7-day lead
		},
		{
			name:     "healthy coverage clamps to zero",
			product:  product("SKU-2", 500, 5, 3),
			expected: 0,
		},
		{
			name:     "zero stock is maximum risk",
			product:  product("SKU-3", 0, 10, 7),
			expected: 1,
		},
		{
			name:     "zero lead time uses default lead time",
			product:  product("SKU-4", 10, 10, 0),
			expected: 1 - 1.0/14.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, HeuristicScore(tt.product), 1e-9)
		})
	}
}

func TestPredictOne_HeuristicFallback(t *testing.T) {
	svc := New(nil)

	assessment, err := svc.PredictOne(context.Background(), product("SKU-1", 10, 10, 7))
	require.NoError(t, err)

	assert.Equal(t, "SKU-1", assessment.ProductID)
	assert.Equal(t, model.SourceHeuristic, assessment.Source)
	assert.InDelta(t, 0.93, assessment.RiskScore, 0.01)
	assert.Equal(t, model.RiskCategoryHigh, assessment.RiskCategory)
	assert.Equal(t, 1, assessment.RiskPrediction)
	assert.False(t, assessment.PredictedAt.IsZero())
}

func TestPredictOne_UntrainedModelFallsBack(t *testing.T) {
	svc := New(risk.NewModel())

	assessment, err := svc.PredictOne(context.Background(), product("SKU-1", 500, 5, 3))
	require.NoError(t, err)

	assert.Equal(t, model.SourceHeuristic, assessment.Source)
	assert.Equal(t, 0.0, assessment.RiskScore)
	assert.Equal(t, model.RiskCategoryLow, assessment.RiskCategory)
}

func TestPredictBatch_OrderedByRiskDescending(t *testing.T) {
	svc := New(nil)
	inventory := []model.Product{
		product("SAFE", 500, 5, 3),
		product("DANGER", 0, 10, 7),
		product("MIDDLE", 7, 1, 7),
	}

	assessments, err := svc.PredictBatch(context.Background(), inventory, nil)
	require.NoError(t, err)
	require.Len(t, assessments, len(inventory), "exactly one assessment per input row")

	assert.Equal(t, "DANGER", assessments[0].ProductID)
	assert.Equal(t, "MIDDLE", assessments[1].ProductID)
	assert.Equal(t, "SAFE", assessments[2].ProductID)
	for i := 1; i < len(assessments); i++ {
		assert.GreaterOrEqual(t, assessments[i-1].RiskScore, assessments[i].RiskScore)
	}
}

func TestPredictBatch_EmptyInventory(t *testing.T) {
	svc := New(nil)

	_, err := svc.PredictBatch(context.Background(), nil, nil)
	assert.ErrorIs(t, err, common.ErrNoProducts)
}

func TestPredictBatch_CancelledContext(t *testing.T) {
	svc := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.PredictBatch(ctx, []model.Product{product("SKU-1", 10, 10, 7)}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredictBatch_TrainedModelSource(t *testing.T) {
	m := risk.NewModel()
	training := make([]model.LabeledProduct, 0, 40)
	for i := 0; i < 40; i++ {
		risky := i%2 == 0
		stock := 200
		if risky {
			stock = 2
		}
		p := product(fmt.Sprintf("TRAIN-%03d", i), stock, 10, 7)
		training = append(training, model.LabeledProduct{Product: p, IsHighRisk: risky})
	}
	_, err := m.Train(context.Background(), training, risk.TrainOptions{})
	require.NoError(t, err)

	svc := New(m)
	assessments, err := svc.PredictBatch(context.Background(), []model.Product{
		product("SKU-1", 2, 10, 7),
		product("SKU-2", 200, 10, 7),
	}, nil)
	require.NoError(t, err)

	for _, a := range assessments {
		assert.Equal(t, model.SourceModel, a.Source)
		assert.GreaterOrEqual(t, a.RiskScore, 0.0)
		assert.LessOrEqual(t, a.RiskScore, 1.0)
	}
}

func TestPredictBatch_ModelFailureFallsBackToHeuristic(t *testing.T) {
	m := risk.NewModel()
	training := make([]model.LabeledProduct, 0, 40)
	for i := 0; i < 40; i++ {
		risky := i%2 == 0
		stock := 200
		if risky {
			stock = 2
		}
		p := product(fmt.Sprintf("TRAIN-%03d", i), stock, 10, 7)
		training = append(training, model.LabeledProduct{Product: p, IsHighRisk: risky})
	}
	_, err := m.Train(context.Background(), training, risk.TrainOptions{})
	require.NoError(t, err)

	svc := New(m)
	require.True(t, svc.Model().Trained())

	// The empty product ID fails feature validation inside the model path,
	// so the whole batch must come back from the heuristic instead.
	batch := []model.Product{
		product("SKU-1", 2, 10, 7),
		product("", 200, 10, 7),
	}
	assessments, err := svc.PredictBatch(context.Background(), batch, nil)
	require.NoError(t, err)
	require.Len(t, assessments, len(batch))

	for _, a := range assessments {
		assert.Equal(t, model.SourceHeuristic, a.Source)
		assert.GreaterOrEqual(t, a.RiskScore, 0.0)
		assert.LessOrEqual(t, a.RiskScore, 1.0)
	}
}

func TestPrepare_Defaults(t *testing.T) {
	svc := New(nil)

	prepared := svc.Prepare([]model.Product{{
		ProductRecord:     model.ProductRecord{ProductID: "BARE"},
		InventorySnapshot: model.InventorySnapshot{CurrentStock: 50},
	}}, nil)

	require.Len(t, prepared, 1)
	p := prepared[0]
	assert.Equal(t, 10.0, p.AvgDailyDemand)
	assert.Equal(t, 2.0, p.DemandStd)
	assert.Equal(t, 20.0, p.MaxDailyDemand)
	assert.Equal(t, 50.0, p.Price)
	assert.Equal(t, "General", p.Category)
	assert.Equal(t, "General", p.Subcategory)
	assert.Equal(t, 1.0, p.SeasonalFactor)
	assert.Equal(t, 0.5, p.WeekendSalesRatio)
	assert.Equal(t, 0.5, p.HolidaySalesRatio)
	assert.Equal(t, 7, p.SupplierLeadTime)
	assert.InDelta(t, 0.2, p.DemandVariability, 1e-9)
}

func TestPrepare_JoinsSalesHistory(t *testing.T) {
	svc := New(nil)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	history := []model.SalesObservation{
		{Date: day, ProductID: "SKU-1", DailyDemand: 4, IsWeekend: true},
		{Date: day.AddDate(0, 0, 1), ProductID: "SKU-1", DailyDemand: 8, Stockout: true},
		{Date: day.AddDate(0, 0, 2), ProductID: "SKU-1", DailyDemand: 6, IsHoliday: true},
		{Date: day, ProductID: "OTHER", DailyDemand: 100},
	}

	prepared := svc.Prepare([]model.Product{{
		ProductRecord:     model.ProductRecord{ProductID: "SKU-1", SupplierLeadTime: 5},
		InventorySnapshot: model.InventorySnapshot{CurrentStock: 30},
	}}, history)

	require.Len(t, prepared, 1)
	p := prepared[0]
	assert.InDelta(t, 6.0, p.AvgDailyDemand, 1e-9)
	assert.InDelta(t, 2.0, p.DemandStd, 1e-9) // sample std of {4, 8, 6}
	assert.Equal(t, 8.0, p.MaxDailyDemand)
	assert.Equal(t, 1, p.TotalStockouts)
	assert.InDelta(t, 1.0/3.0, p.WeekendSalesRatio, 1e-9)
	assert.InDelta(t, 1.0/3.0, p.HolidaySalesRatio, 1e-9)
	assert.InDelta(t, 1.0/3.0, p.DemandVariability, 1e-9)
}

func TestPrepare_DoesNotMutateInput(t *testing.T) {
	svc := New(nil)
	inventory := []model.Product{{
		ProductRecord:     model.ProductRecord{ProductID: "SKU-1"},
		InventorySnapshot: model.InventorySnapshot{CurrentStock: 10},
	}}

	svc.Prepare(inventory, nil)

	assert.Equal(t, "", inventory[0].Category)
	assert.Equal(t, 0.0, inventory[0].AvgDailyDemand)
}

func TestHighRiskProducts(t *testing.T) {
	svc := New(nil)
	inventory := []model.Product{
		product("SAFE", 500, 5, 3),
		product("DANGER", 0, 10, 7),
		product("MIDDLE", 7, 1, 7),
	}

	high, err := svc.HighRiskProducts(context.Background(), inventory, nil, 0.7)
	require.NoError(t, err)

	require.Len(t, high, 1)
	assert.Equal(t, "DANGER", high[0].ProductID)
}

func TestDashboardSummary(t *testing.T) {
	svc := New(nil)

	inventory := make([]model.Product, 0, 15)
	for i := 0; i < 12; i++ {
		// Zero stock against demand means maximum risk for every one of these.
		p := product(fmt.Sprintf("HOT-%02d", i), 0, 10, 7)
		p.Category = "Electronics"
		inventory = append(inventory, p)
	}
	mid := product("MID", 7, 1, 7)
	mid.Category = "Grocery"
	safe := product("SAFE", 500, 5, 3)
	safe.Category = "Grocery"
	below := product("BELOW", 5, 0.01, 3) // under its minimum of 10 but slow-moving
	below.Category = "Grocery"
	inventory = append(inventory, mid, safe, below)

	summary, err := svc.DashboardSummary(context.Background(), inventory, nil)
	require.NoError(t, err)

	assert.Equal(t, 15, summary.TotalProducts)
	assert.Equal(t, 12, summary.HighRiskCount)
	assert.Equal(t, 1, summary.MediumRiskCount)
	assert.Equal(t, 2, summary.LowRiskCount)
	assert.InDelta(t, 80.0, summary.RiskPercentage, 1e-9)
	assert.False(t, summary.GeneratedAt.IsZero())

	require.Len(t, summary.TopRiskProducts, 10, "top listing caps at ten")
	for _, pr := range summary.TopRiskProducts {
		assert.Equal(t, model.RiskCategoryHigh, pr.RiskCategory)
	}

	require.Len(t, summary.CategoryAnalysis, 2)
	assert.Equal(t, "Electronics", summary.CategoryAnalysis[0].Category)
	assert.InDelta(t, 1.0, summary.CategoryAnalysis[0].MeanRiskScore, 1e-9)
	assert.Equal(t, 12, summary.CategoryAnalysis[0].HighRiskCount)

	require.Len(t, summary.Alerts, 10, "alerts cap at ten")
	for _, alert := range summary.Alerts {
		assert.Equal(t, model.AlertCritical, alert.Type, "critical alerts fill the cap first")
		assert.Equal(t, model.PriorityHigh, alert.Priority)
	}
}

func TestDashboardSummary_LowStockAlert(t *testing.T) {
	svc := New(nil)

	below := product("BELOW", 5, 0.01, 3)
	safe := product("SAFE", 500, 5, 3)

	summary, err := svc.DashboardSummary(context.Background(), []model.Product{below, safe}, nil)
	require.NoError(t, err)

	require.Len(t, summary.Alerts, 1)
	assert.Equal(t, model.AlertLowStock, summary.Alerts[0].Type)
	assert.Equal(t, "BELOW", summary.Alerts[0].ProductID)
	assert.Equal(t, model.PriorityMedium, summary.Alerts[0].Priority)
}
