package model

import "time"

// RiskLevel is the binary classifier output.
type RiskLevel string

// Risk level constants.
const (
	RiskLevelLow  RiskLevel = "Low"
	RiskLevelHigh RiskLevel = "High"
)

// RiskCategory is the three-way bucket derived from the risk score.
type RiskCategory string

// Risk category constants. The bucket boundaries are fixed at 0.3 and 0.7.
const (
	RiskCategoryLow    RiskCategory = "Low Risk"
	RiskCategoryMedium RiskCategory = "Medium Risk"
	RiskCategoryHigh   RiskCategory = "High Risk"
)

// PredictionSource records which path produced an assessment.
type PredictionSource string

// Prediction source constants.
const (
	SourceModel     PredictionSource = "model"
	SourceHeuristic PredictionSource = "heuristic"
)

// RiskAssessment is the result of one prediction call. Immutable after
// creation.
type RiskAssessment struct {
	PredictedAt    time.Time
	ProductID      string
	RiskLevel      RiskLevel
	RiskCategory   RiskCategory
	Source         PredictionSource
	RiskScore      float64
	RiskPrediction int // 1 when high risk
}

// CategorizeRisk maps a risk score into its category bucket.
func CategorizeRisk(score float64) RiskCategory {
	switch {
	case score < 0.3:
		return RiskCategoryLow
	case score < 0.7:
		return RiskCategoryMedium
	default:
		return RiskCategoryHigh
	}
}

// NewRiskAssessment builds an assessment from a score and binary prediction.
func NewRiskAssessment(productID string, score float64, highRisk bool, source PredictionSource) RiskAssessment {
	level := RiskLevelLow
	prediction := 0
	if highRisk {
		level = RiskLevelHigh
		prediction = 1
	}
	return RiskAssessment{
		ProductID:      productID,
		RiskScore:      score,
		RiskPrediction: prediction,
		RiskLevel:      level,
		RiskCategory:   CategorizeRisk(score),
		Source:         source,
		PredictedAt:    time.Now().UTC(),
	}
}
