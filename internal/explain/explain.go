// Package explain turns risk assessments into human-readable explanations:
// key contributing factors, a narrative, and concrete improvement
// suggestions. Everything here is rule-based and deterministic; an optional
// narrative generator can replace the templated narrative with free text.
package explain

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/Veraticus/stocksense/internal/model"
	"github.com/Veraticus/stocksense/internal/service"

	"gonum.org/v1/gonum/stat"
)

// Engine builds explanations for individual assessments and executive
// summaries for whole batches.
type Engine struct {
	narrator service.NarrativeGenerator
}

// New creates an explanation engine. narrator may be nil; templated
// narratives are used in that case and whenever the narrator fails.
func New(narrator service.NarrativeGenerator) *Engine {
	return &Engine{narrator: narrator}
}

// Explain builds the full explanation for one assessed product. The product
// must already be prepared; the assessment is taken as-is and never
// recomputed.
func (e *Engine) Explain(ctx context.Context, product model.Product, assessment model.RiskAssessment) model.Explanation {
	explanation := model.Explanation{
		ProductInfo: model.ProductInfo{
			ProductID:    product.ProductID,
			CurrentStock: product.CurrentStock,
			DailyDemand:  product.AvgDailyDemand,
			LeadTime:     product.SupplierLeadTime,
		},
		Assessment:  assessment,
		KeyFactors:  KeyFactors(product),
		Narrative:   e.narrative(ctx, product, assessment),
		Suggestions: Suggestions(product, assessment),
	}
	return explanation
}

// KeyFactors identifies the conditions contributing to a product's risk.
// Stock coverage is always reported; the remaining factors appear only when
// their condition holds.
func KeyFactors(product model.Product) []model.KeyFactor {
	demand := product.AvgDailyDemand
	if demand < 1 {
		demand = 1
	}
	leadTime := float64(product.SupplierLeadTime)
	stockDays := product.StockCoverageDays()

	var factors []model.KeyFactor

	switch {
	case stockDays < leadTime:
		factors = append(factors, model.KeyFactor{
			Factor:      "Stock Coverage",
			Value:       fmt.Sprintf("%.1f days", stockDays),
			Status:      model.StatusCritical,
			Impact:      model.ImpactHigh,
			Explanation: fmt.Sprintf("Current stock will last %.1f days, but supplier lead time is %d days", stockDays, product.SupplierLeadTime),
		})
	case stockDays < leadTime*2:
		factors = append(factors, model.KeyFactor{
			Factor:      "Stock Coverage",
			Value:       fmt.Sprintf("%.1f days", stockDays),
			Status:      model.StatusWarning,
			Impact:      model.ImpactMedium,
			Explanation: "Stock coverage is below recommended safety level (2x lead time)",
		})
	default:
		factors = append(factors, model.KeyFactor{
			Factor:      "Stock Coverage",
			Value:       fmt.Sprintf("%.1f days", stockDays),
			Status:      model.StatusGood,
			Impact:      model.ImpactLow,
			Explanation: "Stock coverage is adequate",
		})
	}

	if product.CurrentStock < product.MinimumStockLevel {
		factors = append(factors, model.KeyFactor{
			Factor:      "Minimum Stock Level",
			Value:       fmt.Sprintf("%d/%d", product.CurrentStock, product.MinimumStockLevel),
			Status:      model.StatusCritical,
			Impact:      model.ImpactHigh,
			Explanation: fmt.Sprintf("Current stock (%d) is below minimum level (%d)", product.CurrentStock, product.MinimumStockLevel),
		})
	}

	if variability := product.DemandStd / demand; variability > 0.5 {
		factors = append(factors, model.KeyFactor{
			Factor:      "Demand Variability",
			Value:       fmt.Sprintf("%.1f%%", variability*100),
			Status:      model.StatusWarning,
			Impact:      model.ImpactMedium,
			Explanation: "High demand variability increases stockout risk",
		})
	}

	if product.SupplierLeadTime > 14 {
		factors = append(factors, model.KeyFactor{
			Factor:      "Supplier Lead Time",
			Value:       fmt.Sprintf("%d days", product.SupplierLeadTime),
			Status:      model.StatusWarning,
			Impact:      model.ImpactMedium,
			Explanation: "Long lead time increases planning complexity",
		})
	}

	return factors
}

// Suggestions produces concrete actions ranked roughly by urgency. The last
// two are unconditional process improvements.
func Suggestions(product model.Product, assessment model.RiskAssessment) []string {
	demand := product.AvgDailyDemand
	if demand < 1 {
		demand = 1
	}
	leadTime := float64(product.SupplierLeadTime)
	stockDays := product.StockCoverageDays()
	safetyStock := demand * leadTime * 1.5

	var suggestions []string

	if assessment.RiskScore > 0.7 {
		suggestions = append(suggestions,
			"Contact supplier immediately for emergency delivery",
			"Review alternative suppliers for faster delivery",
			"Implement daily stock monitoring for this product",
		)
	}
	if assessment.RiskScore > 0.5 {
		suggestions = append(suggestions, "Place a reorder within 24 hours")
	}

	if float64(product.CurrentStock) < safetyStock {
		gap := safetyStock - float64(product.CurrentStock)
		if assessment.RiskScore > 0.7 {
			// One week of demand on top of the safety stock gap.
			gap += demand * 7
		}
		suggestions = append(suggestions, fmt.Sprintf("Increase order quantity to %d units", int(math.Round(gap))))
	}

	if stockDays < leadTime*2 {
		reorderPoint := int(demand * leadTime * 2)
		suggestions = append(suggestions, fmt.Sprintf("Set reorder point to %d units (2x lead time demand)", reorderPoint))
	}

	if product.SupplierLeadTime > 10 {
		suggestions = append(suggestions,
			"Negotiate shorter lead times with supplier",
			"Consider local suppliers to reduce lead time",
		)
	}

	if product.DemandStd/demand > 0.4 {
		suggestions = append(suggestions,
			"Implement demand forecasting to better predict variations",
			"Analyze demand patterns to identify trends",
		)
	}

	suggestions = append(suggestions,
		"Set up automated reorder alerts",
		"Implement real-time inventory tracking",
	)

	return suggestions
}

// narrative returns the narrator's text when one is configured and succeeds,
// the templated narrative otherwise.
func (e *Engine) narrative(ctx context.Context, product model.Product, assessment model.RiskAssessment) string {
	templated := TemplateNarrative(product, assessment)
	if e.narrator == nil {
		return templated
	}

	prompt := narrativePrompt(product, assessment)
	text, err := e.narrator.GenerateNarrative(ctx, prompt)
	if err != nil {
		slog.Warn("Narrative generation failed, using template", "product_id", product.ProductID, "error", err)
		return templated
	}
	return text
}

// TemplateNarrative renders the deterministic narrative for an assessment.
func TemplateNarrative(product model.Product, assessment model.RiskAssessment) string {
	stockDays := product.StockCoverageDays()

	switch {
	case assessment.RiskScore > 0.7:
		return fmt.Sprintf(
			"HIGH RISK: This product has a %.0f%% chance of stockout. "+
				"With only %d units in stock and daily demand of %.1f, "+
				"the current inventory will last approximately %.1f days. "+
				"Given the supplier lead time of %d days, immediate action is required.",
			assessment.RiskScore*100, product.CurrentStock, product.AvgDailyDemand, stockDays, product.SupplierLeadTime)
	case assessment.RiskScore > 0.4:
		return fmt.Sprintf(
			"MEDIUM RISK: This product has a %.0f%% chance of stockout. "+
				"Current stock of %d units provides %.1f days of coverage. "+
				"Consider reordering soon to maintain adequate inventory levels.",
			assessment.RiskScore*100, product.CurrentStock, stockDays)
	default:
		return fmt.Sprintf(
			"LOW RISK: This product has a %.0f%% chance of stockout. "+
				"Current stock levels appear adequate with %.1f days of coverage. "+
				"Continue monitoring for any changes in demand patterns.",
			assessment.RiskScore*100, stockDays)
	}
}

func narrativePrompt(product model.Product, assessment model.RiskAssessment) string {
	return fmt.Sprintf(
		"Write a short inventory risk narrative for product %s: "+
			"risk score %.2f (%s), current stock %d units, average daily demand %.1f, "+
			"supplier lead time %d days, stock coverage %.1f days.",
		product.ProductID, assessment.RiskScore, assessment.RiskCategory,
		product.CurrentStock, product.AvgDailyDemand, product.SupplierLeadTime,
		product.StockCoverageDays())
}

// Overview is the headline block of an executive summary.
type Overview struct {
	TotalProducts    int
	HighRiskCount    int
	MediumRiskCount  int
	LowRiskCount     int
	AverageRiskScore float64
	RiskPercentage   float64
}

// ExecutiveSummary condenses a batch assessment for leadership: bucket
// counts, financial exposure, the riskiest categories, and plain-language
// insights.
type ExecutiveSummary struct {
	Overview           Overview
	PotentialLostSales float64
	CategoryAnalysis   []model.CategoryRisk
	Insights           []string
	Recommendations    []string
}

// Summarize builds an executive summary from assessed products. Products and
// assessments are matched by index and must come from the same batch call.
func Summarize(products []model.Product, assessments []model.RiskAssessment) ExecutiveSummary {
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	var summary ExecutiveSummary
	summary.Overview.TotalProducts = len(assessments)

	scores := make([]float64, 0, len(assessments))
	categoryScores := map[string][]float64{}
	categoryHigh := map[string]int{}

	for _, a := range assessments {
		scores = append(scores, a.RiskScore)
		p := byID[a.ProductID]

		switch {
		case a.RiskScore >= 0.7:
			summary.Overview.HighRiskCount++
			summary.PotentialLostSales += float64(p.CurrentStock) * p.Price
		case a.RiskScore >= 0.3:
			summary.Overview.MediumRiskCount++
		default:
			summary.Overview.LowRiskCount++
		}

		if p.Category != "" {
			categoryScores[p.Category] = append(categoryScores[p.Category], a.RiskScore)
			categoryHigh[p.Category] += a.RiskPrediction
		}
	}

	if len(scores) > 0 {
		summary.Overview.AverageRiskScore = stat.Mean(scores, nil)
		summary.Overview.RiskPercentage = float64(summary.Overview.HighRiskCount) / float64(len(scores)) * 100
	}

	for category, vals := range categoryScores {
		summary.CategoryAnalysis = append(summary.CategoryAnalysis, model.CategoryRisk{
			Category:      category,
			MeanRiskScore: stat.Mean(vals, nil),
			HighRiskCount: categoryHigh[category],
		})
	}
	sort.Slice(summary.CategoryAnalysis, func(a, b int) bool {
		if summary.CategoryAnalysis[a].MeanRiskScore != summary.CategoryAnalysis[b].MeanRiskScore {
			return summary.CategoryAnalysis[a].MeanRiskScore > summary.CategoryAnalysis[b].MeanRiskScore
		}
		return summary.CategoryAnalysis[a].Category < summary.CategoryAnalysis[b].Category
	})
	if len(summary.CategoryAnalysis) > 5 {
		summary.CategoryAnalysis = summary.CategoryAnalysis[:5]
	}

	summary.Insights = []string{
		fmt.Sprintf("%d products (%.1f%%) are at high risk of stockout",
			summary.Overview.HighRiskCount, summary.Overview.RiskPercentage),
		fmt.Sprintf("Average risk score across all products is %.1f%%",
			summary.Overview.AverageRiskScore*100),
		fmt.Sprintf("Immediate attention required for %d high-risk products",
			summary.Overview.HighRiskCount),
	}
	if summary.PotentialLostSales > 0 {
		summary.Insights = append(summary.Insights,
			fmt.Sprintf("Potential lost sales from high-risk products: $%.2f", summary.PotentialLostSales))
	}

	summary.Recommendations = []string{
		"Focus on high-risk products for immediate reordering",
		"Review supplier agreements for products with long lead times",
		"Implement automated monitoring for medium-risk products",
		"Consider increasing safety stock levels for volatile products",
	}

	return summary
}
