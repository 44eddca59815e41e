package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/stocksense/internal/explain"
	"github.com/Veraticus/stocksense/internal/model"
)

// riskStyle maps a risk category to its display style.
func riskStyle(category model.RiskCategory) func(...string) string {
	switch category {
	case model.RiskCategoryHigh:
		return ErrorStyle.Render
	case model.RiskCategoryMedium:
		return WarningStyle.Render
	default:
		return SuccessStyle.Render
	}
}

func factorStyle(status model.FactorStatus) func(...string) string {
	switch status {
	case model.StatusCritical:
		return ErrorStyle.Render
	case model.StatusWarning:
		return WarningStyle.Render
	default:
		return SuccessStyle.Render
	}
}

// RenderExplanation renders a full explanation for terminal display.
func RenderExplanation(e model.Explanation) string {
	var b strings.Builder

	header := fmt.Sprintf("%s  risk %.1f%%  %s",
		e.ProductInfo.ProductID,
		e.Assessment.RiskScore*100,
		riskStyle(e.Assessment.RiskCategory)(string(e.Assessment.RiskCategory)))
	b.WriteString(TitleStyle.Render(header))
	b.WriteString("\n")

	b.WriteString(SubtleStyle.Render(fmt.Sprintf(
		"stock %d · demand %.1f/day · lead time %d days",
		e.ProductInfo.CurrentStock, e.ProductInfo.DailyDemand, e.ProductInfo.LeadTime)))
	b.WriteString("\n\n")

	b.WriteString(e.Narrative)
	b.WriteString("\n\n")

	b.WriteString(BoldStyle.Render("Key factors"))
	b.WriteString("\n")
	for _, f := range e.KeyFactors {
		b.WriteString(fmt.Sprintf("  %s %s: %s (%s impact)\n",
			factorStyle(f.Status)(string(f.Status)),
			f.Factor, f.Value, strings.ToLower(string(f.Impact))))
		b.WriteString(SubtleStyle.Render("    " + f.Explanation))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(BoldStyle.Render("Suggestions"))
	b.WriteString("\n")
	for _, s := range e.Suggestions {
		b.WriteString("  • " + s + "\n")
	}

	return b.String()
}

// RenderDashboard renders the monitoring summary for terminal display.
func RenderDashboard(summary *model.DashboardSummary) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Stockout Risk Dashboard"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(summary.GeneratedAt.Format("2006-01-02 15:04 MST")))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%d products · %s high · %s medium · %s low (%.1f%% at high risk)\n\n",
		summary.TotalProducts,
		ErrorStyle.Render(fmt.Sprintf("%d", summary.HighRiskCount)),
		WarningStyle.Render(fmt.Sprintf("%d", summary.MediumRiskCount)),
		SuccessStyle.Render(fmt.Sprintf("%d", summary.LowRiskCount)),
		summary.RiskPercentage))

	if len(summary.TopRiskProducts) > 0 {
		b.WriteString(BoldStyle.Render("Top risk products"))
		b.WriteString("\n")
		for _, p := range summary.TopRiskProducts {
			b.WriteString(fmt.Sprintf("  %-12s %5.1f%%  %s  stock %d, demand %.1f/day\n",
				p.ProductID, p.RiskScore*100,
				riskStyle(p.RiskCategory)(string(p.RiskCategory)),
				p.CurrentStock, p.AvgDailyDemand))
		}
		b.WriteString("\n")
	}

	if len(summary.CategoryAnalysis) > 0 {
		b.WriteString(BoldStyle.Render("By category"))
		b.WriteString("\n")
		for _, c := range summary.CategoryAnalysis {
			b.WriteString(fmt.Sprintf("  %-20s mean risk %5.1f%%, %d high risk\n",
				c.Category, c.MeanRiskScore*100, c.HighRiskCount))
		}
		b.WriteString("\n")
	}

	if len(summary.Alerts) > 0 {
		b.WriteString(BoldStyle.Render("Alerts"))
		b.WriteString("\n")
		for _, a := range summary.Alerts {
			icon := WarningIcon
			if a.Type == model.AlertCritical {
				icon = AlertIcon
			}
			b.WriteString(fmt.Sprintf("  %s %s: %s\n", icon, a.ProductID, a.Message))
		}
	}

	return b.String()
}

// RenderExecutiveSummary renders the leadership rollup for terminal display.
func RenderExecutiveSummary(summary explain.ExecutiveSummary) string {
	var b strings.Builder

	o := summary.Overview
	overview := fmt.Sprintf("%d products · avg risk %.1f%% · %d high / %d medium / %d low",
		o.TotalProducts, o.AverageRiskScore*100,
		o.HighRiskCount, o.MediumRiskCount, o.LowRiskCount)
	if summary.PotentialLostSales > 0 {
		overview += fmt.Sprintf("\nPotential lost sales: %s",
			ErrorStyle.Render(fmt.Sprintf("$%.2f", summary.PotentialLostSales)))
	}
	b.WriteString(RenderBox(BoxIcon+" Executive Summary", overview))
	b.WriteString("\n\n")

	if len(summary.CategoryAnalysis) > 0 {
		b.WriteString(BoldStyle.Render("Riskiest categories"))
		b.WriteString("\n")
		for _, c := range summary.CategoryAnalysis {
			b.WriteString(fmt.Sprintf("  %-20s %5.1f%%\n", c.Category, c.MeanRiskScore*100))
		}
		b.WriteString("\n")
	}

	b.WriteString(BoldStyle.Render("Insights"))
	b.WriteString("\n")
	for _, insight := range summary.Insights {
		b.WriteString("  • " + insight + "\n")
	}

	b.WriteString("\n")
	b.WriteString(BoldStyle.Render("Recommendations"))
	b.WriteString("\n")
	for _, rec := range summary.Recommendations {
		b.WriteString("  • " + rec + "\n")
	}

	return b.String()
}

// RenderTrainingReport renders per-algorithm training metrics.
func RenderTrainingReport(reports []TrainingRow, best string) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(ChartIcon + " Training Results"))
	b.WriteString("\n")
	for _, r := range reports {
		line := fmt.Sprintf("  %-16s AUC %.3f  accuracy %.3f", r.Algorithm, r.AUC, r.Accuracy)
		if r.Algorithm == best {
			line += "  " + SuccessStyle.Render("← selected")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// TrainingRow is one algorithm's metrics in a training report.
type TrainingRow struct {
	Algorithm string
	AUC       float64
	Accuracy  float64
}
