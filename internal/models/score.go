// internal/models/score.go
package models

// Provenance identifies which scoring path produced a result.
type Provenance string

const (
	ProvenanceModel     Provenance = "model"
	ProvenanceRuleBased Provenance = "rule-based"
)

// Risk levels, ordered from best to worst.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// ScoreResult is the structured output of a single scoring call.
type ScoreResult struct {
	CreditScore        int        `json:"credit_score"`
	RiskLevel          string     `json:"risk_level"`
	DefaultProbability float64    `json:"default_probability"`
	Provenance         Provenance `json:"provenance"`
	ModelUsed          string     `json:"model_used"`
}

// ScoreResponse is the caller-facing shape returned to the web layer.
type ScoreResponse struct {
	CreditScore         int      `json:"credit_score"`
	RiskLevel           string   `json:"risk_level"`
	ApprovalProbability float64  `json:"approval_probability"`
	RiskFactors         []string `json:"risk_factors"`
	ModelVersion        string   `json:"model_version"`
}
