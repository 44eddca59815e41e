package model

// FactorStatus describes how a single risk factor reads for a product.
type FactorStatus string

// Factor status constants.
const (
	StatusCritical FactorStatus = "Critical"
	StatusWarning  FactorStatus = "Warning"
	StatusGood     FactorStatus = "Good"
)

// FactorImpact describes how strongly a factor drives the risk score.
type FactorImpact string

// Factor impact constants.
const (
	ImpactHigh   FactorImpact = "High"
	ImpactMedium FactorImpact = "Medium"
	ImpactLow    FactorImpact = "Low"
)

// KeyFactor is one entry in the ordered factor breakdown of an explanation.
type KeyFactor struct {
	Factor      string
	Value       string
	Status      FactorStatus
	Impact      FactorImpact
	Explanation string
}

// ProductInfo is the slice of product state an explanation reports on.
type ProductInfo struct {
	ProductID    string
	CurrentStock int
	DailyDemand  float64
	LeadTime     int
}

// Explanation is the full human-readable analysis of one prediction.
// Derived, read-only, never persisted beyond the call that created it.
type Explanation struct {
	ProductInfo ProductInfo
	Assessment  RiskAssessment
	KeyFactors  []KeyFactor
	Narrative   string
	Suggestions []string
}
