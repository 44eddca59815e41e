// Package predictor is the inference surface of the pipeline. It is the only
// component callers interact with directly and it guarantees that a risk
// assessment is always produced: model inference when a trained model is
// available, a closed-form heuristic otherwise.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Veraticus/stocksense/internal/common"
	"github.com/Veraticus/stocksense/internal/model"
	"github.com/Veraticus/stocksense/internal/risk"

	"gonum.org/v1/gonum/stat"
)

// Default values substituted by Prepare when optional fields are absent.
const (
	defaultAvgDailyDemand = 10.0
	defaultDemandStd      = 2.0
	defaultPrice          = 50.0
	defaultCategory       = "General"
	defaultSalesRatio     = 0.5
	defaultSeasonalFactor = 1.0
	defaultLeadTime       = 7
)

// Service serves single and batch risk predictions. A Service without a
// model (or whose model path fails) falls back to the heuristic; the
// fallback is side-effect-free and never fails.
type Service struct {
	model *risk.Model
}

// New creates a service around an optional model. A nil model means every
// prediction takes the heuristic path.
func New(m *risk.Model) *Service {
	return &Service{model: m}
}

// NewFromArtifact loads a persisted model and builds a service around it.
// A missing artifact is fatal and surfaced; it does not degrade to the
// heuristic because the caller explicitly asked for a model-backed service.
func NewFromArtifact(path string) (*Service, error) {
	m, err := risk.Load(path)
	if err != nil {
		return nil, err
	}
	return New(m), nil
}

// Model exposes the underlying model, nil when the service is heuristic-only.
func (s *Service) Model() *risk.Model {
	return s.model
}

// Prepare normalizes raw inventory rows into fully-populated product rows.
// When sales history is provided it is aggregated per product and joined on;
// otherwise demand defaults are substituted. This is the single defaulting
// step of the pipeline: after Prepare, every downstream component may assume
// required fields exist.
func (s *Service) Prepare(inventory []model.Product, salesHistory []model.SalesObservation) []model.Product {
	aggregates := aggregateSales(salesHistory)

	out := make([]model.Product, len(inventory))
	for i, p := range inventory {
		if agg, ok := aggregates[p.ProductID]; ok {
			p.SalesAggregate = agg
		}

		if p.AvgDailyDemand == 0 {
			p.AvgDailyDemand = defaultAvgDailyDemand
		}
		if p.DemandStd == 0 {
			p.DemandStd = defaultDemandStd
		}
		if p.MaxDailyDemand == 0 {
			p.MaxDailyDemand = p.AvgDailyDemand * 2
		}
		if p.Price == 0 {
			p.Price = defaultPrice
		}
		if p.Category == "" {
			p.Category = defaultCategory
		}
		if p.Subcategory == "" {
			p.Subcategory = defaultCategory
		}
		if p.SeasonalFactor == 0 {
			p.SeasonalFactor = defaultSeasonalFactor
		}
		if p.WeekendSalesRatio == 0 {
			p.WeekendSalesRatio = defaultSalesRatio
		}
		if p.HolidaySalesRatio == 0 {
			p.HolidaySalesRatio = defaultSalesRatio
		}
		if p.SupplierLeadTime == 0 {
			p.SupplierLeadTime = defaultLeadTime
		}
		if p.AvgDailyDemand > 0 {
			p.DemandVariability = p.DemandStd / p.AvgDailyDemand
		}

		out[i] = p
	}
	return out
}

// PredictOne assesses a single product.
func (s *Service) PredictOne(ctx context.Context, product model.Product) (model.RiskAssessment, error) {
	assessments, err := s.PredictBatch(ctx, []model.Product{product}, nil)
	if err != nil {
		return model.RiskAssessment{}, err
	}
	return assessments[0], nil
}

// PredictBatch assesses every product in the batch and returns assessments
// ordered by risk score descending. The model path is attempted first; only
// InferenceError-class failures route to the heuristic, so genuine
// programming errors are not masked. Exactly one assessment is produced per
// input row.
func (s *Service) PredictBatch(ctx context.Context, inventory []model.Product, salesHistory []model.SalesObservation) ([]model.RiskAssessment, error) {
	if len(inventory) == 0 {
		return nil, common.ErrNoProducts
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared := s.Prepare(inventory, salesHistory)

	slog.Info("Making batch predictions", "products", len(prepared))

	assessments := s.predictPrepared(prepared)

	sort.SliceStable(assessments, func(a, b int) bool {
		return assessments[a].RiskScore > assessments[b].RiskScore
	})

	highRisk := 0
	for _, a := range assessments {
		highRisk += a.RiskPrediction
	}
	slog.Info("Batch prediction completed",
		"products", len(assessments),
		"high_risk", highRisk,
		"source", assessments[0].Source)

	return assessments, nil
}

// predictPrepared runs the two-branch model/heuristic contract on rows that
// already went through Prepare.
func (s *Service) predictPrepared(prepared []model.Product) []model.RiskAssessment {
	if s.model != nil && s.model.Trained() {
		labels, probs, err := s.model.Predict(prepared)
		if err == nil {
			assessments := make([]model.RiskAssessment, len(prepared))
			for i, p := range prepared {
				assessments[i] = model.NewRiskAssessment(p.ProductID, probs[i], labels[i] == 1, model.SourceModel)
			}
			return assessments
		}

		var infErr *risk.InferenceError
		if errors.As(err, &infErr) {
			slog.Warn("Model inference failed, using heuristic fallback", "error", err)
		} else {
			// Not an inference failure; log it distinctly but still keep the
			// guarantee that every row gets an assessment.
			slog.Error("Unexpected model-path failure, using heuristic fallback", "error", err)
		}
	}

	assessments := make([]model.RiskAssessment, len(prepared))
	for i, p := range prepared {
		score := HeuristicScore(p)
		assessments[i] = model.NewRiskAssessment(p.ProductID, score, score > 0.5, model.SourceHeuristic)
	}
	return assessments
}

// HeuristicScore is the closed-form fallback: risk rises as stock coverage
// falls below twice the supplier lead time. It is pure, never fails, and is
// the system's last line of defense.
func HeuristicScore(p model.Product) float64 {
	leadTime := p.SupplierLeadTime
	if leadTime <= 0 {
		leadTime = defaultLeadTime
	}

	stockDays := p.StockCoverageDays()
	score := 1 - stockDays/(2*float64(leadTime))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// HighRiskProducts returns the assessments at or above the threshold,
// ordered by risk descending.
func (s *Service) HighRiskProducts(ctx context.Context, inventory []model.Product, salesHistory []model.SalesObservation, threshold float64) ([]model.RiskAssessment, error) {
	assessments, err := s.PredictBatch(ctx, inventory, salesHistory)
	if err != nil {
		return nil, err
	}

	out := assessments[:0:0]
	for _, a := range assessments {
		if a.RiskScore >= threshold {
			out = append(out, a)
		}
	}
	return out, nil
}

// DashboardSummary aggregates a batch prediction into monitoring counts,
// the top-10 riskiest products, per-category mean risk, and a capped,
// critical-first alert list.
func (s *Service) DashboardSummary(ctx context.Context, inventory []model.Product, salesHistory []model.SalesObservation) (*model.DashboardSummary, error) {
	assessments, err := s.PredictBatch(ctx, inventory, salesHistory)
	if err != nil {
		return nil, err
	}

	prepared := s.Prepare(inventory, salesHistory)
	byID := make(map[string]model.Product, len(prepared))
	for _, p := range prepared {
		byID[p.ProductID] = p
	}

	summary := &model.DashboardSummary{
		GeneratedAt:   assessments[0].PredictedAt,
		TotalProducts: len(assessments),
	}

	for _, a := range assessments {
		switch a.RiskCategory {
		case model.RiskCategoryHigh:
			summary.HighRiskCount++
		case model.RiskCategoryMedium:
			summary.MediumRiskCount++
		case model.RiskCategoryLow:
			summary.LowRiskCount++
		}
	}
	summary.RiskPercentage = float64(summary.HighRiskCount) / float64(summary.TotalProducts) * 100

	top := assessments
	if len(top) > 10 {
		top = top[:10]
	}
	for _, a := range top {
		p := byID[a.ProductID]
		summary.TopRiskProducts = append(summary.TopRiskProducts, model.ProductRisk{
			ProductID:      a.ProductID,
			RiskScore:      a.RiskScore,
			RiskCategory:   a.RiskCategory,
			CurrentStock:   p.CurrentStock,
			AvgDailyDemand: p.AvgDailyDemand,
		})
	}

	summary.CategoryAnalysis = categoryAnalysis(assessments, byID)
	summary.Alerts = buildAlerts(assessments, byID)

	return summary, nil
}

func categoryAnalysis(assessments []model.RiskAssessment, byID map[string]model.Product) []model.CategoryRisk {
	scores := map[string][]float64{}
	highRisk := map[string]int{}
	for _, a := range assessments {
		category := byID[a.ProductID].Category
		scores[category] = append(scores[category], a.RiskScore)
		highRisk[category] += a.RiskPrediction
	}

	out := make([]model.CategoryRisk, 0, len(scores))
	for category, vals := range scores {
		out = append(out, model.CategoryRisk{
			Category:      category,
			MeanRiskScore: stat.Mean(vals, nil),
			HighRiskCount: highRisk[category],
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].MeanRiskScore != out[b].MeanRiskScore {
			return out[a].MeanRiskScore > out[b].MeanRiskScore
		}
		return out[a].Category < out[b].Category
	})
	return out
}

// buildAlerts flags critical-risk and below-minimum-stock products, critical
// first, capped at 10 entries total.
func buildAlerts(assessments []model.RiskAssessment, byID map[string]model.Product) []model.Alert {
	var alerts []model.Alert

	for _, a := range assessments {
		if a.RiskScore > 0.8 {
			alerts = append(alerts, model.Alert{
				Type:      model.AlertCritical,
				ProductID: a.ProductID,
				Message:   fmt.Sprintf("Critical stockout risk: %.1f%%", a.RiskScore*100),
				Priority:  model.PriorityHigh,
			})
		}
	}

	for _, a := range assessments {
		p := byID[a.ProductID]
		if p.CurrentStock < p.MinimumStockLevel {
			alerts = append(alerts, model.Alert{
				Type:      model.AlertLowStock,
				ProductID: a.ProductID,
				Message:   fmt.Sprintf("Below minimum stock level (%d units)", p.MinimumStockLevel),
				Priority:  model.PriorityMedium,
			})
		}
	}

	if len(alerts) > 10 {
		alerts = alerts[:10]
	}
	return alerts
}

func aggregateSales(observations []model.SalesObservation) map[string]model.SalesAggregate {
	if len(observations) == 0 {
		return nil
	}

	demands := map[string][]float64{}
	stockouts := map[string]int{}
	weekend := map[string]int{}
	holiday := map[string]int{}

	for _, obs := range observations {
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
		n := float64(len(vals))
		mean := stat.Mean(vals, nil)
		std := 0.0
		if len(vals) > 1 {
			std = stat.StdDev(vals, nil)
		}
		maxDemand := vals[0]
		for _, v := range vals[1:] {
			if v > maxDemand {
				maxDemand = v
			}
		}

		aggregates[id] = model.SalesAggregate{
			AvgDailyDemand:    mean,
			DemandStd:         std,
			MaxDailyDemand:    maxDemand,
			TotalStockouts:    stockouts[id],
			WeekendSalesRatio: float64(weekend[id]) / n,
			HolidaySalesRatio: float64(holiday[id]) / n,
		}
	}
	return aggregates
}
